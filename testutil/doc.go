// Package testutil provides testing utilities for zunderbolt.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded RNG for reproducible payloads, random positioned
// write sequences with a reference model, and temp file helpers.
//
//	rng := testutil.NewRNG(seed)
//	ops := rng.RandomWrites(50, 300)
//	want := testutil.Apply(nil, ops)
package testutil
