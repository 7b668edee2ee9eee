// Package arena provides the linear byte buffer backing stream caches.
//
// A Linear buffer is one contiguous, aligned block with a bump cursor. It grows
// geometrically (required capacity times a growth factor) and preserves its
// content across growth. Growth can be accounted against a memory budget
// through a MemoryAcquirer.
//
// # Safety
//
// All methods return errors instead of panicking. A Linear is owned by a single
// stream and is not safe for concurrent use.
package arena
