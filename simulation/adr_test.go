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

package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kevinalini/LoRaEnergySim/lora"
)

func TestAdrNeedsFullHistory(t *testing.T) {
	adr := newAdrEngine(20, 10)
	cur := lora.NewParameters(lora.DefaultChannels[0], 12)
	for i := 0; i < 19; i++ {
		adr.record(1, 20)
		assert.Nil(t, adr.evaluate(1, cur))
	}
	adr.record(1, 20)
	assert.NotNil(t, adr.evaluate(1, cur))
	// history is cleared after a command
	assert.Nil(t, adr.evaluate(1, cur))
}

func TestAdrLowersSfThenTp(t *testing.T) {
	adr := newAdrEngine(3, 10)
	cur := lora.NewParameters(lora.DefaultChannels[0], 9)
	for _, snr := range []float64{-5, 10, 2} {
		adr.record(1, snr)
	}
	// margin = 10 - (-12.5) - 10 = 12.5 -> 4 steps: SF 9->7, then TP 14->8
	s := adr.evaluate(1, cur)
	assert.Equal(t, &AdrSettings{SF: 7, TP: 8}, s)
}

func TestAdrRaisesTpOnNegativeMargin(t *testing.T) {
	adr := newAdrEngine(2, 10)
	cur := lora.NewParameters(lora.DefaultChannels[0], 7)
	cur.TP = 5
	adr.record(2, -20)
	adr.record(2, -19)
	// margin = -19 + 7.5 - 10 = -21.5 -> -7 steps, TP capped at 14
	assert.Equal(t, &AdrSettings{SF: 7, TP: 14}, adr.evaluate(2, cur))
}

func TestAdrNoChange(t *testing.T) {
	adr := newAdrEngine(2, 10)
	cur := lora.NewParameters(lora.DefaultChannels[0], 7)
	adr.record(3, 1)
	adr.record(3, 2)
	// margin = 2 + 7.5 - 10 = -0.5 -> 0 steps
	assert.Nil(t, adr.evaluate(3, cur))
}

func TestAdrHistoryIsBounded(t *testing.T) {
	adr := newAdrEngine(4, 10)
	for i := 0; i < 10; i++ {
		adr.record(1, float64(i))
	}
	assert.Equal(t, []float64{6, 7, 8, 9}, adr.history[1])
}
