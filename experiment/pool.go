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

package experiment

import (
	"math/rand"

	"github.com/pkg/errors"

	. "github.com/kevinalini/LoRaEnergySim/types"
)

// LocationPool is a fixed set of outdoor node positions in a square cell, shared by all
// configurations of a sweep.
type LocationPool struct {
	locations []Location
	rnd       *rand.Rand
}

// NewLocationPool draws size positions uniformly in [0, cellSize]².
func NewLocationPool(size int, cellSize float64, rnd *rand.Rand) *LocationPool {
	pool := &LocationPool{
		locations: make([]Location, size),
		rnd:       rnd,
	}
	for i := range pool.locations {
		pool.locations[i] = NewRandomLocation(rnd, 0, cellSize, false)
	}
	return pool
}

// Shuffle permutes the pool in place.
func (pool *LocationPool) Shuffle() {
	pool.rnd.Shuffle(len(pool.locations), func(i, j int) {
		pool.locations[i], pool.locations[j] = pool.locations[j], pool.locations[i]
	})
}

// Take returns a copy of the first n positions.
func (pool *LocationPool) Take(n int) ([]Location, error) {
	if n > len(pool.locations) {
		return nil, errors.Errorf("location pool has %d positions, %d requested", len(pool.locations), n)
	}
	locations := make([]Location, n)
	copy(locations, pool.locations[:n])
	return locations, nil
}

func (pool *LocationPool) Len() int {
	return len(pool.locations)
}
