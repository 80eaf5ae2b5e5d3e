// Copyright (c) 2020-2026, The OTNS Authors.
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
	"math/rand"

	"github.com/pkg/errors"

	"github.com/kevinalini/LoRaEnergySim/lora"
	. "github.com/kevinalini/LoRaEnergySim/types"
)

const (
	DefaultMaxRetransmissions = 8
	DefaultDutyCycle          = 0.01
	DefaultJitterMaxMs        = 500.0
)

// NodeConfig is the configuration of one end node.
type NodeConfig struct {
	Id                 NodeId
	Location           Location
	Lora               lora.Parameters
	PayloadSize        int
	SleepTimeMs        float64
	ProcessTimeMs      float64
	Adr                bool
	Confirmed          bool
	MaxRetransmissions int
	DutyCycle          float64
	JitterMaxMs        float64
	Watch              bool // trace the node's life cycle with its own NodeLogger
}

// DefaultNodeConfig returns a node config with the default protocol settings; the caller sets
// identity, location, radio and timing.
func DefaultNodeConfig() *NodeConfig {
	return &NodeConfig{
		Id:                 InvalidNodeId,
		MaxRetransmissions: DefaultMaxRetransmissions,
		DutyCycle:          DefaultDutyCycle,
		JitterMaxMs:        DefaultJitterMaxMs,
	}
}

func (cfg *NodeConfig) Validate() error {
	if cfg.Id <= GatewayNodeId {
		return errors.Errorf("invalid node id %d", cfg.Id)
	}
	if err := cfg.Lora.Validate(); err != nil {
		return errors.Wrapf(err, "node %d", cfg.Id)
	}
	if cfg.PayloadSize <= 0 {
		return errors.Errorf("node %d: payload size must be positive", cfg.Id)
	}
	if cfg.SleepTimeMs <= 0 {
		return errors.Errorf("node %d: sleep time must be positive", cfg.Id)
	}
	if MsToUs(cfg.ProcessTimeMs) == 0 {
		return errors.Errorf("node %d: process time must be at least 1 us", cfg.Id)
	}
	if cfg.MaxRetransmissions < 0 {
		return errors.Errorf("node %d: negative retransmission bound", cfg.Id)
	}
	if cfg.DutyCycle <= 0 || cfg.DutyCycle > 1 {
		return errors.Errorf("node %d: duty cycle must be in (0, 1]", cfg.Id)
	}
	if cfg.JitterMaxMs < 0 {
		return errors.Errorf("node %d: negative jitter", cfg.Id)
	}
	return nil
}

// RandomLoraParameters draws a channel and a spreading factor uniformly from the default sets.
func RandomLoraParameters(rnd *rand.Rand) lora.Parameters {
	freq := lora.DefaultChannels[rnd.Intn(len(lora.DefaultChannels))]
	sf := lora.SpreadingFactors[rnd.Intn(len(lora.SpreadingFactors))]
	return lora.NewParameters(freq, sf)
}

// SleepTimeMs returns the sleep time of a node sending payloadSize bytes at the given transmission
// rate (bits per ms).
func SleepTimeMs(payloadSize int, transmissionRate float64) float64 {
	return 8 * float64(payloadSize) / transmissionRate
}
