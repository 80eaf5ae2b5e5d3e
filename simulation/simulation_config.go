// Copyright (c) 2020, The OTNS Authors.
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
	"io"

	"github.com/pkg/errors"

	"github.com/kevinalini/LoRaEnergySim/energy"
	"github.com/kevinalini/LoRaEnergySim/lora"
	"github.com/kevinalini/LoRaEnergySim/pcap"
	"github.com/kevinalini/LoRaEnergySim/prng"
	"github.com/kevinalini/LoRaEnergySim/radiomodel"
	. "github.com/kevinalini/LoRaEnergySim/types"
)

const (
	DefaultPayloadSize      = 5
	DefaultTransmissionRate = 0.02e-3 // bits per ms
	DefaultProcessTimeMs    = 5.0
	DefaultCellSize         = 1000.0 // m
	DefaultHorizonBits      = 1000 * 50
	heartbeatParts          = 10
)

// Config is the immutable configuration of one simulated universe. The node count is the number
// of Locations.
type Config struct {
	Id                 int
	PayloadSize        int
	HorizonUs          uint64
	TransmissionRate   float64
	ProcessTimeMs      float64
	Adr                bool
	Confirmed          bool
	MaxRetransmissions int
	DutyCycle          float64
	JitterMaxMs        float64
	CellSize           float64
	Locations          []Location
	Energy             *energy.Profile
	Radio              *radiomodel.RadioModelParams
	Gateway            *GatewayConfig
	Seeds              prng.UniverseSeeds
	Heartbeat          io.Writer // if set, a dot is written every tenth of the horizon
	WatchNodes         []NodeId
	NodeLogDir         string
	StatsLogDir        string // if set, a CSV log of node state counts is written per universe
	PcapDir            string // if set, the uplinks of the universe are captured to a PCAP file
	PcapFrameType      pcap.FrameType
	TraceEvents        bool
}

// DefaultConfig returns the reference configuration, without node locations.
func DefaultConfig() *Config {
	return &Config{
		PayloadSize:        DefaultPayloadSize,
		HorizonUs:          MsToUs(DefaultHorizonBits / DefaultTransmissionRate),
		TransmissionRate:   DefaultTransmissionRate,
		ProcessTimeMs:      DefaultProcessTimeMs,
		Adr:                true,
		Confirmed:          true,
		MaxRetransmissions: DefaultMaxRetransmissions,
		DutyCycle:          DefaultDutyCycle,
		JitterMaxMs:        DefaultJitterMaxMs,
		CellSize:           DefaultCellSize,
		Energy:             energy.DefaultProfile(),
		Radio:              radiomodel.DefaultParams(),
		Gateway:            DefaultGatewayConfig(),
	}
}

func (cfg *Config) NodeCount() int {
	return len(cfg.Locations)
}

// SleepTimeMs returns the sleep time of every node of the universe.
func (cfg *Config) SleepTimeMs() float64 {
	return SleepTimeMs(cfg.PayloadSize, cfg.TransmissionRate)
}

func (cfg *Config) Validate() error {
	if len(cfg.Locations) == 0 {
		return errors.Errorf("no node locations")
	}
	if cfg.PayloadSize <= 0 {
		return errors.Errorf("payload size must be positive: %d", cfg.PayloadSize)
	}
	if cfg.TransmissionRate <= 0 {
		return errors.Errorf("transmission rate must be positive: %v", cfg.TransmissionRate)
	}
	if cfg.HorizonUs == 0 {
		return errors.Errorf("horizon must be positive")
	}
	if cfg.CellSize <= 0 {
		return errors.Errorf("cell size must be positive: %v", cfg.CellSize)
	}
	if cfg.Energy == nil || cfg.Radio == nil {
		return errors.Errorf("energy profile and radio parameters are required")
	}
	if err := cfg.Energy.Validate(lora.TxPowerCodes); err != nil {
		return errors.Wrapf(err, "energy profile")
	}
	if err := cfg.Radio.Validate(); err != nil {
		return errors.Wrapf(err, "radio model")
	}
	if cfg.PcapDir != "" && (cfg.PcapFrameType == pcap.FrameTypeOff || cfg.PcapFrameType == pcap.FrameTypeUnknown) {
		return errors.Errorf("invalid PCAP frame type: %d", cfg.PcapFrameType)
	}
	if cfg.Gateway != nil && cfg.Gateway.AdrHistoryLen <= 0 {
		return errors.Errorf("ADR history length must be positive: %d", cfg.Gateway.AdrHistoryLen)
	}
	return nil
}
