// Package stream implements a buffered file stream with deferred writes.
//
// A FileStream keeps one contiguous window of the file in an aligned,
// geometrically growing cache. Reads fill the window with a single positioned
// read for the missing tail, writes only touch the cache, and the window is
// written back in one positioned write when the position leaves it, on Flush
// and on Close. The file is always addressed by absolute offsets, so no OS
// side cursor is involved.
//
// Open modes:
//
//	Open               file must exist, position 0
//	Create             file must not exist, position 0
//	CreateOrOverwrite  truncates an existing file, position 0
//	OpenOrCreate       opens or creates, position 0
//	Append             file must exist, position at end
//
// Open failures are *OpenError values carrying an ErrorCode. FileIsTooLarge
// is reported the same way but leaves the stream open; check it with
// IsWarning.
//
// Copy and CopyAll move ranges between any streams exposing Length,
// SetPosition and Read or Write, including Memory.
package stream
