// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package testdata generates reproducible byte sequences for round-trip
// tests of the ppp codec.
package testdata

import "math/rand"

// GenPredictableRandomData generates random data from a fixed seed so that
// test failures are reproducible across runs.
func GenPredictableRandomData(seed int64, size int) []byte {
	gen := rand.New(rand.NewSource(seed))
	out := make([]byte, size)
	for i := range out {
		out[i] = byte(gen.Intn(256))
	}
	return out
}

// GenRepeating returns size bytes built by repeating pattern, useful for
// exercising the predictor's hit path.
func GenRepeating(pattern []byte, size int) []byte {
	out := make([]byte, size)
	for i := range out {
		out[i] = pattern[i%len(pattern)]
	}
	return out
}
