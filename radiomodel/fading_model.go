// Copyright (c) 2023, The OTNS Authors.
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

package radiomodel

import (
	"math"
	"math/rand"

	"github.com/kevinalini/LoRaEnergySim/logger"
	. "github.com/kevinalini/LoRaEnergySim/types"
)

const (
	initialCacheSize = 1000
	maxCacheSize     = 5000000
)

type fadingModel struct {
	rndSeed          int64
	rnd              *rand.Rand
	ts               uint64
	shFadeMap        map[int64]DbValue
	tvFadeMap        map[int64]DbValue
	tvFadeSigmaMap   map[int64]DbValue
	changeTvfTimeMap map[int64]uint64
}

func newFadingModel(seed int64) *fadingModel {
	sf := &fadingModel{
		rndSeed:          seed,
		rnd:              rand.New(rand.NewSource(seed)),
		ts:               0,
		shFadeMap:        make(map[int64]DbValue, initialCacheSize),
		tvFadeSigmaMap:   make(map[int64]DbValue, initialCacheSize),
		tvFadeMap:        make(map[int64]DbValue, initialCacheSize),
		changeTvfTimeMap: make(map[int64]uint64, initialCacheSize),
	}
	return sf
}

// computeFading calculates shadow fading (SF) and time-variant fading (TVF) for a radio link.
//
// SF: a fixed, position-dependent attenuation (SF>0) or gain (SF<0) due to obstacles, modeled in the dB
// domain as a normal distribution (mu=0, sigma). The link is symmetric and each link draws its value from
// its own seed, so the value does not depend on the order in which links are first evaluated.
//
// TVF: an additional normal term whose value is redrawn at exponentially distributed times. It is zero
// unless a max sigma is configured.
func (sf *fadingModel) computeFading(src, dst *Location, params *RadioModelParams) DbValue {
	seed := sf.rndSeed + calcLinkUID(src, dst)

	var vSF, vTVF float64
	if v, ok := sf.shFadeMap[seed]; ok {
		vSF = v
		vTVF = sf.tvFadeMap[seed]
		if sigmaTVF := sf.tvFadeSigmaMap[seed]; sigmaTVF > 0 && sf.ts > sf.changeTvfTimeMap[seed] {
			vTVF = sf.rnd.NormFloat64() * sigmaTVF
			sf.tvFadeMap[seed] = vTVF
			sf.changeTvfTimeMap[seed] = sf.nextChangeTime(params)
		}
	} else {
		rnd := rand.New(rand.NewSource(seed))

		// draw a single (reproducible) random number based on the link's unique seed, and store it.
		vSF = rnd.NormFloat64() * params.ShadowFadingSigmaDb
		sf.shFadeMap[seed] = vSF

		sigmaTVF := rnd.Float64() * params.TimeFadingSigmaMaxDb
		sf.tvFadeSigmaMap[seed] = sigmaTVF
		if sigmaTVF > 0 {
			vTVF = sf.rnd.NormFloat64() * sigmaTVF
			sf.changeTvfTimeMap[seed] = sf.nextChangeTime(params)
		}
		sf.tvFadeMap[seed] = vTVF
	}

	return vSF + vTVF
}

func (sf *fadingModel) nextChangeTime(params *RadioModelParams) uint64 {
	nextChangeDeltaSec := sf.rnd.ExpFloat64() * params.MeanTimeFadingChange
	return sf.ts + uint64(nextChangeDeltaSec*1e6)
}

func (sf *fadingModel) onAdvanceTime(ts uint64) {
	// if storage gets too big, purge it - items will be recomputed.
	if len(sf.shFadeMap) > maxCacheSize {
		sf.clearCaches()
	}
	sf.ts = ts
}

func (sf *fadingModel) clearCaches() {
	logger.Debugf("Radio fading model: purging fadeMap caches")
	sf.shFadeMap = make(map[int64]DbValue, initialCacheSize)
	sf.tvFadeSigmaMap = make(map[int64]DbValue, initialCacheSize)
	sf.tvFadeMap = make(map[int64]DbValue, initialCacheSize)
	sf.changeTvfTimeMap = make(map[int64]uint64, initialCacheSize)
}

// calcLinkUID gives each pair of positions, in grid units of 1 m, its own fixed int64 value.
func calcLinkUID(src, dst *Location) int64 {
	x1 := gridUnit(src.X)
	y1 := gridUnit(src.Y)
	x2 := gridUnit(dst.X)
	y2 := gridUnit(dst.Y)
	xL := x2
	yL := y2
	xR := x1
	yR := y1

	// use left-most node (and in case of doubt, bottom-most)
	if x1 < x2 || (x1 == x2 && y1 < y2) {
		xL = x1
		yL = y1
		xR = x2
		yR = y2
	}

	uid := int64(xL) + int64(yL)<<16 + int64(xR)<<32 + int64(yR)<<48
	return uid
}

// gridUnit maps a coordinate to a 16-bit grid index; coordinates beyond the range wrap around.
func gridUnit(v float64) uint16 {
	return uint16(int64(math.Round(v)) + 32768)
}
