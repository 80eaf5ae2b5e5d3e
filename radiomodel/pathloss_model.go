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

	. "github.com/kevinalini/LoRaEnergySim/types"
)

// LogShadow is the log-distance path loss model with per-link shadow fading.
type LogShadow struct {
	params *RadioModelParams
	fading *fadingModel
}

// NewLogShadow creates the model; seed fixes the fading value of every link.
func NewLogShadow(params *RadioModelParams, seed int64) *LogShadow {
	return &LogShadow{
		params: params,
		fading: newFadingModel(seed),
	}
}

func (m *LogShadow) Params() *RadioModelParams {
	return m.params
}

// PathLoss returns the loss (dB) between two positions, fading included.
func (m *LogShadow) PathLoss(src, dst *Location) DbValue {
	pathloss := computeLogDistancePathLoss(src.DistanceTo(*dst), m.params)
	if src.Indoor || dst.Indoor {
		pathloss += m.params.IndoorLossDb
	}
	return pathloss + m.fading.computeFading(src, dst, m.params)
}

// ReceivedPowerDbm returns the received signal strength at dst of a transmission from src.
func (m *LogShadow) ReceivedPowerDbm(txPowerDbm DbValue, src, dst *Location) DbValue {
	return txPowerDbm - m.PathLoss(src, dst)
}

func (m *LogShadow) OnAdvanceTime(ts uint64) {
	m.fading.onAdvanceTime(ts)
}

// computeLogDistancePathLoss computes the deterministic part of the loss at distance dist (m).
// Distances below 1 m are treated as 1 m.
func computeLogDistancePathLoss(dist float64, params *RadioModelParams) DbValue {
	if dist < 1.0 {
		dist = 1.0
	}
	return params.RefLossDb + 10*params.PathLossExponent*math.Log10(dist/params.RefDistanceMeters)
}
