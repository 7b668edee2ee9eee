// Package conv provides safe integer type conversion utilities.
//
// These functions perform bounds checking to prevent integer overflow/underflow
// when converting between signed/unsigned and different bit-width integer types.
//
// Use cases:
//   - Narrowing int64 stream offsets to int buffer indexes (32-bit builds)
//   - Splitting offsets into DWORD pairs for the Windows file API
//   - Computing grown buffer capacities without wrapping
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices, bounded counters), use direct type casts instead to avoid overhead.
package conv
