// Package textreader reads lines of text from a positioned stream.
//
// The encoding is taken from a leading byte order mark (UTF-32LE/BE, then
// UTF-16LE/BE, then UTF-8) and defaults to UTF-8. Lines are decoded to UTF-8
// strings and the source is left positioned exactly after the consumed bytes,
// so the same stream can be handed back to binary readers.
package textreader
