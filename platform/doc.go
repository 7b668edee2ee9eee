// Package platform provides the positioned file I/O layer beneath streams.
//
// The package defines two key interfaces:
//
//   - [Platform]: opens files with a portable [OpenMode] and reports metadata
//   - [Handle]: an open file addressed purely by absolute offsets
//
// Reads and writes never go through a hidden OS cursor. Every transfer names
// its offset, so callers can reason about the file in terms of absolute
// positions only.
//
// # Implementations
//
//   - [OS]: the build platform's native API (pread/pwrite on POSIX,
//     ReadFile/WriteFile with an OVERLAPPED offset on Windows)
//   - [Billy]: any go-billy filesystem, e.g. memfs for in-memory tests
//   - [Faulty]: test utility for fault injection and call counting
//
// # Usage
//
//	h, err := platform.Default.Open(path, platform.OpenOrCreate, true)
//	if err != nil {
//	    code := platform.Classify(err)
//	    ...
//	}
//	defer h.Close()
//	_, err = h.WriteAt(data, 4096)
//
// # Design Notes
//
// Like the rest of the local file layer this package takes no context.Context:
// positioned syscalls are not interruptible, and each call is a single
// blocking operation.
package platform
