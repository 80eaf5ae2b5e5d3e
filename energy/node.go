// Copyright (c) 2022, The OTNS Authors.
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
	"github.com/kevinalini/LoRaEnergySim/logger"
	. "github.com/kevinalini/LoRaEnergySim/types"
)

type NodeEnergy struct {
	nodeId   int
	profile  *Profile
	radio    RadioStatus
	txPower  int
	consumed Consumption
}

// ComputeRadioState charges the time spent in the current state since the last update.
func (node *NodeEnergy) ComputeRadioState(timestamp uint64) {
	logger.AssertTrue(timestamp >= node.radio.Timestamp)
	delta := timestamp - node.radio.Timestamp
	switch node.radio.State {
	case RadioSleep:
		node.radio.SpentSlp += delta
		node.consumed.Sleep += energyMj(node.profile.SleepPowerMw, delta)
	case RadioProcessing:
		node.radio.SpentPrc += delta
		node.consumed.Proc += energyMj(node.profile.ProcPowerMw, delta)
	case RadioTx:
		node.radio.SpentTx += delta
		node.consumed.Tx += energyMj(node.profile.TxPowerMw[node.txPower], delta)
	case RadioRx:
		node.radio.SpentRx += delta
		node.consumed.Rx += energyMj(node.profile.RxPowerMw(), delta)
	default:
		logger.Panicf("unknown radio state: %v", node.radio.State)
	}
	node.radio.Timestamp = timestamp
}

func (node *NodeEnergy) SetRadioState(state RadioStates, timestamp uint64) {
	//Mandatory: compute energy consumed by the radio first.
	node.ComputeRadioState(timestamp)
	if state == RadioRx && node.radio.State != RadioRx {
		node.consumed.Rx += node.profile.RxOverheadMj()
	}
	node.radio.State = state
}

// SetTxPower selects the TX table entry used for subsequent transmit time.
func (node *NodeEnergy) SetTxPower(tp int, timestamp uint64) {
	node.ComputeRadioState(timestamp)
	if _, ok := node.profile.TxPowerMw[tp]; !ok {
		logger.Panicf("node %d: no tx power entry for code %d", node.nodeId, tp)
	}
	node.txPower = tp
}

func (node *NodeEnergy) Profile() *Profile {
	return node.profile
}

func (node *NodeEnergy) GetRadioState() RadioStates {
	return node.radio.State
}

func (node *NodeEnergy) GetRadioStatus() RadioStatus {
	return node.radio
}

// GetConsumption returns the energy charged up to the last state update.
func (node *NodeEnergy) GetConsumption() Consumption {
	return node.consumed
}

func newNode(nodeID int, profile *Profile, txPower int, timestamp uint64) *NodeEnergy {
	node := &NodeEnergy{
		nodeId:  nodeID,
		profile: profile,
		txPower: txPower,
		radio: RadioStatus{
			State:     RadioSleep,
			Timestamp: timestamp,
		},
	}
	return node
}
