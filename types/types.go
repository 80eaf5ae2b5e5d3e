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

package types

import (
	"fmt"
	"math"
)

type NodeId = int

// DbValue is a power level or ratio in dB (or dBm).
type DbValue = float64

const (
	InvalidNodeId NodeId = -1
	GatewayNodeId NodeId = 0
)

// GetNodeName returns the display name of a node, used as log prefix.
func GetNodeName(id NodeId) string {
	if id == GatewayNodeId {
		return "Gateway   "
	}
	return fmt.Sprintf("Node<%d> ", id)
}

// Virtual time is kept in microseconds.
const (
	Microsecond uint64 = 1
	Millisecond        = 1000 * Microsecond
	Second             = 1000 * Millisecond

	// Ever is a timestamp that is never reached.
	Ever uint64 = math.MaxUint64
)

// MsToUs converts a millisecond duration to virtual-time microseconds, rounded to the nearest unit.
func MsToUs(ms float64) uint64 {
	if ms <= 0 {
		return 0
	}
	return uint64(math.Round(ms * float64(Millisecond)))
}

// UsToMs converts virtual-time microseconds to milliseconds.
func UsToMs(us uint64) float64 {
	return float64(us) / float64(Millisecond)
}

type RadioStates byte

const (
	RadioSleep      RadioStates = 0
	RadioProcessing RadioStates = 1
	RadioRx         RadioStates = 2
	RadioTx         RadioStates = 3
)

func (s RadioStates) String() string {
	switch s {
	case RadioSleep:
		return "Slp"
	case RadioProcessing:
		return "Prc"
	case RadioRx:
		return "Rx_"
	case RadioTx:
		return "Tx_"
	default:
		return "invalid"
	}
}
