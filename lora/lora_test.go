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

package lora

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeOnAir(t *testing.T) {
	p := NewParameters(DefaultChannels[0], 7)
	p.CrcEnabled = true

	// SF7 BW125, 23 byte PHY payload: 12.25 preamble + 8 + ceil(200/28)*5 = 48 symbols of 1.024 ms.
	assert.InDelta(t, (12.25+48)*1.024, p.TimeOnAirMs(23), 1e-9)

	p.SF = 12
	tSym := math.Pow(2, 12) / 125
	// ceil(180/48) = 4
	assert.InDelta(t, (12.25+8+4*5)*tSym, p.TimeOnAirMs(23), 1e-9)
}

func TestTimeOnAirMonotonic(t *testing.T) {
	for _, sf := range SpreadingFactors {
		p := NewParameters(DefaultChannels[1], sf)
		prev := 0.0
		for pl := 5 + PhyOverheadBytes; pl <= 50+PhyOverheadBytes; pl += 5 {
			toa := p.TimeOnAirMs(pl)
			assert.True(t, toa >= prev)
			prev = toa
		}
	}
	slow := NewParameters(DefaultChannels[0], 12).TimeOnAirMs(20)
	fast := NewParameters(DefaultChannels[0], 7).TimeOnAirMs(20)
	assert.True(t, slow > fast)
}

func TestSensitivityAndSnr(t *testing.T) {
	assert.Equal(t, -126.5, Sensitivity(7, 125))
	assert.Equal(t, -133.25, Sensitivity(12, 125))
	assert.InDelta(t, -126.5+3.0103, Sensitivity(7, 250), 1e-3)
	assert.Equal(t, -7.5, RequiredSnr(7))
	assert.Equal(t, -20.0, RequiredSnr(12))
	assert.Equal(t, -20.0, RequiredSnr(13))
}

func TestValidate(t *testing.T) {
	p := NewParameters(DefaultChannels[2], 9)
	assert.Nil(t, p.Validate())

	bad := p
	bad.SF = 6
	assert.NotNil(t, bad.Validate())

	bad = p
	bad.BW = 100
	assert.NotNil(t, bad.Validate())

	bad = p
	bad.TP = 20
	assert.NotNil(t, bad.Validate())

	assert.Equal(t, "freq=868500000 sf=9 bw=125 cr=4/5 tp=14", p.String())
}
