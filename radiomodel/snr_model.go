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

// thermalNoiseDbmPerHz is the thermal noise density at room temperature.
const thermalNoiseDbmPerHz DbValue = -174.0

// NoiseSnrModel computes SNR against the thermal noise floor of the receiver bandwidth.
type NoiseSnrModel struct {
	NoiseFigureDb DbValue
}

func NewSnrModel(params *RadioModelParams) *NoiseSnrModel {
	return &NoiseSnrModel{NoiseFigureDb: params.NoiseFigureDb}
}

// NoiseFloorDbm returns the noise power (dBm) in a bandwidth given in kHz.
func (m *NoiseSnrModel) NoiseFloorDbm(bwKHz int) DbValue {
	return thermalNoiseDbmPerHz + 10*math.Log10(float64(bwKHz)*1000) + m.NoiseFigureDb
}

func (m *NoiseSnrModel) Snr(rssDbm DbValue, bwKHz int) DbValue {
	return rssDbm - m.NoiseFloorDbm(bwKHz)
}
