// Copyright (c) 2024, The OTNS Authors.
// Copyright (c) 2024, The LoRaEnergySim Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

package prng

import (
	"math/rand"
	"time"
)

type RandomSeed int64

// Source fans a single root seed out into independent generators, one per purpose, so that
// the draws of one purpose never shift the draws of another.
type Source struct {
	rootSeed              int64
	locationGenerator     *rand.Rand
	universeSeedGenerator *rand.Rand
}

// New creates a Source, either with a fixed PRNG seed (rootSeed != 0) or a 'random' time-based PRNG
// seed (if rootSeed == 0).
func New(rootSeed int64) *Source {
	if rootSeed == 0 {
		rootSeed = time.Now().UnixNano()
	}
	root := rand.New(rand.NewSource(rootSeed))

	return &Source{
		rootSeed:              rootSeed,
		locationGenerator:     rand.New(rand.NewSource(rootSeed + root.Int63n(1e10))),
		universeSeedGenerator: rand.New(rand.NewSource(rootSeed + root.Int63n(1e10))),
	}
}

// RootSeed returns the effective root seed, which reproduces the sweep when passed to New.
func (s *Source) RootSeed() int64 {
	return s.rootSeed
}

// Locations returns the generator for node placement and location-pool shuffling.
func (s *Source) Locations() *rand.Rand {
	return s.locationGenerator
}

// NewUniverseSeeds generates the seeds for one simulated configuration.
func (s *Source) NewUniverseSeeds() UniverseSeeds {
	return UniverseSeeds{
		Nodes:      RandomSeed(s.universeSeedGenerator.Int63()),
		RadioModel: RandomSeed(s.universeSeedGenerator.Int63()),
	}
}

// UniverseSeeds holds the seeds of the generators owned by a single simulated configuration.
type UniverseSeeds struct {
	Nodes      RandomSeed
	RadioModel RandomSeed
}

// NewRand creates a generator from the seed.
func (rs RandomSeed) NewRand() *rand.Rand {
	return rand.New(rand.NewSource(int64(rs)))
}
