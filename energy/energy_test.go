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

package energy

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/kevinalini/LoRaEnergySim/types"
)

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()
	assert.Nil(t, p.Validate([]int{2, 5, 8, 11, 14}))
	assert.Equal(t, []int{2, 5, 8, 11, 14}, p.TxCodes())
	assert.Equal(t, 39.0, p.RxPowerMw())
	assert.InDelta(t, 8.2*3.4/1000+8.3*10.7/1000, p.RxOverheadMj(), 1e-12)

	p.Rx.LnaOn = false
	assert.Equal(t, 34.0, p.RxPowerMw())
}

func TestProfileValidate(t *testing.T) {
	p := DefaultProfile()
	delete(p.TxPowerMw, 8)
	assert.NotNil(t, p.Validate([]int{2, 5, 8, 11, 14}))

	p = DefaultProfile()
	p.Rx.PreMs = -1
	assert.NotNil(t, p.Validate(nil))
}

func TestNewProfileCopiesTable(t *testing.T) {
	table := map[int]float64{14: 100}
	p := NewProfile(1, 2, table, RxProfile{})
	table[14] = 0
	assert.Equal(t, 100.0, p.TxPowerMw[14])
}

func TestNodeEnergyAccounting(t *testing.T) {
	ea := NewEnergyAnalyser(DefaultProfile())
	node := ea.AddNode(1, 14, 0)
	assert.Same(t, node, ea.AddNode(1, 2, 0))

	node.SetRadioState(RadioProcessing, 1*Second)
	node.SetRadioState(RadioTx, 2*Second)
	node.SetRadioState(RadioRx, 3*Second)
	node.SetRadioState(RadioSleep, 4*Second)
	node.SetTxPower(2, 4*Second)
	node.SetRadioState(RadioTx, 5*Second)
	ea.Finalize(6 * Second)

	c := node.GetConsumption()
	p := ea.Profile()
	assert.InDelta(t, 2*p.SleepPowerMw, c.Sleep, 1e-9)
	assert.InDelta(t, 15.0, c.Proc, 1e-9)
	assert.InDelta(t, 146.5+91.8, c.Tx, 1e-9)
	assert.InDelta(t, 39+p.RxOverheadMj(), c.Rx, 1e-9)
	assert.InDelta(t, c.Sleep+c.Proc+c.Tx+c.Rx, c.Total(), 1e-9)
	assert.InDelta(t, c.Tx+c.Rx, c.TxRx(), 1e-9)

	status := node.GetRadioStatus()
	assert.Equal(t, 2*Second, status.SpentTx)
	assert.Equal(t, RadioTx, node.GetRadioState())
}

func TestNetworkConsumption(t *testing.T) {
	ea := NewEnergyAnalyser(DefaultProfile())
	assert.Equal(t, Consumption{}, ea.GetNetworkConsumption())

	a := ea.AddNode(1, 14, 0)
	ea.AddNode(2, 14, 0)
	a.SetRadioState(RadioProcessing, 0)
	ea.Finalize(2 * Second)

	net := ea.GetNetworkConsumption()
	assert.InDelta(t, 15.0, net.Proc, 1e-9)

	var buf bytes.Buffer
	ea.SetTitle("run")
	assert.Nil(t, ea.WriteEnergyByNodes(&buf, 2*Second))
	assert.Contains(t, buf.String(), "(in milliseconds): 2000")
	assert.Contains(t, buf.String(), "1\t")
	assert.Contains(t, buf.String(), "2\t")
}

func TestUnknownTxPowerPanics(t *testing.T) {
	ea := NewEnergyAnalyser(DefaultProfile())
	node := ea.AddNode(1, 14, 0)
	assert.Panics(t, func() {
		node.SetTxPower(3, 0)
	})
}
