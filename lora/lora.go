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

// Package lora holds the LoRa physical layer parameters of a node and the tables derived from them:
// time on air, gateway sensitivity and the SNR required to demodulate a spreading factor.
package lora

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	. "github.com/kevinalini/LoRaEnergySim/types"
)

const (
	// PhyOverheadBytes is added to the application payload of every uplink (LoRaWAN MAC header,
	// frame header, port and MIC).
	PhyOverheadBytes = 13

	PreambleSymbols = 8

	MinSF     = 7
	MaxSF     = 12
	MinTP     = 2
	MaxTP     = 14
	TPStep    = 3
	DefaultBW = 125
	DefaultCR = 5
	DefaultTP = MaxTP
)

var (
	// DefaultChannels are the three mandatory EU868 uplink channels, in Hz.
	DefaultChannels = []int{868100000, 868300000, 868500000}

	SpreadingFactors = []int{7, 8, 9, 10, 11, 12}

	// TxPowerCodes are the transmit power settings (dBm) a node can use.
	TxPowerCodes = []int{2, 5, 8, 11, 14}

	// sensitivity125 is the gateway sensitivity in dBm at 125 kHz, indexed by SF-MinSF.
	sensitivity125 = []DbValue{-126.5, -127.25, -131.25, -132.75, -134.5, -133.25}

	// requiredSnr is the demodulation floor in dB, indexed by SF-MinSF.
	requiredSnr = []DbValue{-7.5, -10, -12.5, -15, -17.5, -20}
)

// Parameters are the radio settings of one node. BW is in kHz; CR is the coding rate denominator
// (5 for 4/5); TP is the transmit power code in dBm.
type Parameters struct {
	Freq           int  `yaml:"freq" json:"freq"`
	SF             int  `yaml:"sf" json:"sf"`
	BW             int  `yaml:"bw" json:"bw"`
	CR             int  `yaml:"cr" json:"cr"`
	CrcEnabled     bool `yaml:"crc" json:"crc"`
	DeEnabled      bool `yaml:"de" json:"de"`
	HeaderImplicit bool `yaml:"implicit_header" json:"implicit_header"`
	TP             int  `yaml:"tp" json:"tp"`
}

// NewParameters returns the default settings for the given channel and spreading factor.
func NewParameters(freq int, sf int) Parameters {
	return Parameters{
		Freq:       freq,
		SF:         sf,
		BW:         DefaultBW,
		CR:         DefaultCR,
		CrcEnabled: true,
		TP:         DefaultTP,
	}
}

func (p Parameters) String() string {
	return fmt.Sprintf("freq=%d sf=%d bw=%d cr=4/%d tp=%d", p.Freq, p.SF, p.BW, p.CR, p.TP)
}

func (p Parameters) Validate() error {
	if p.SF < MinSF || p.SF > MaxSF {
		return errors.Errorf("invalid spreading factor %d", p.SF)
	}
	if p.BW != 125 && p.BW != 250 && p.BW != 500 {
		return errors.Errorf("invalid bandwidth %d kHz", p.BW)
	}
	if p.CR < 5 || p.CR > 8 {
		return errors.Errorf("invalid coding rate 4/%d", p.CR)
	}
	if p.TP < MinTP || p.TP > MaxTP {
		return errors.Errorf("invalid transmit power %d dBm", p.TP)
	}
	return nil
}

// SymbolTimeMs returns the duration of one chirp symbol.
func (p Parameters) SymbolTimeMs() float64 {
	return math.Pow(2, float64(p.SF)) / float64(p.BW)
}

// TimeOnAirMs returns the airtime of a frame with the given PHY payload size (bytes).
func (p Parameters) TimeOnAirMs(phyPayload int) float64 {
	tSym := p.SymbolTimeMs()
	tPreamble := (PreambleSymbols + 4.25) * tSym

	crc, h, de := 0.0, 0.0, 0.0
	if p.CrcEnabled {
		crc = 1
	}
	if p.HeaderImplicit {
		h = 1
	}
	if p.DeEnabled {
		de = 1
	}
	sf := float64(p.SF)
	num := 8*float64(phyPayload) - 4*sf + 28 + 16*crc - 20*h
	den := 4 * (sf - 2*de)
	payloadSymbols := 8 + math.Max(math.Ceil(num/den)*float64(p.CR), 0)
	return tPreamble + payloadSymbols*tSym
}

// Sensitivity returns the weakest signal (dBm) a gateway decodes at the given SF and bandwidth.
func Sensitivity(sf int, bw int) DbValue {
	return sensitivity125[clampSF(sf)-MinSF] + 10*math.Log10(float64(bw)/DefaultBW)
}

// RequiredSnr returns the minimum SNR (dB) for demodulation at the given SF.
func RequiredSnr(sf int) DbValue {
	return requiredSnr[clampSF(sf)-MinSF]
}

func clampSF(sf int) int {
	if sf < MinSF {
		return MinSF
	}
	if sf > MaxSF {
		return MaxSF
	}
	return sf
}
