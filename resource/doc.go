// Package resource governs memory and throughput shared by streams.
//
// The Controller manages three resource types:
//
//   - Buffer memory: stream caches reserve their capacity here (fail-fast via
//     TryAcquireMemory, or blocking via AcquireMemory)
//   - Copy slots: limits how many copy jobs run concurrently
//   - IO throughput: a token bucket that copy batches and the rate-limited
//     reader/writer wait on
//
// A nil *Controller is valid and imposes no limits.
//
//	rc := resource.NewController(resource.Config{
//	    BufferMemoryLimitBytes: 64 << 20,
//	    CopyBytesPerSec:        32 << 20,
//	})
//	s, err := stream.Open(path, stream.OpenOrCreate, stream.WithController(rc))
package resource
