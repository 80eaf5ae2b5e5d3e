// Copyright (c) 2022-2023, The OTNS Authors.
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
	"sort"

	"github.com/pkg/errors"

	. "github.com/kevinalini/LoRaEnergySim/types"
)

// RxProfile describes the power drawn while receiving. Pre and post phases are fixed-length
// (ms) and charged once per receive window; the window itself is charged at LNA power.
type RxProfile struct {
	PreMw    float64 `yaml:"pre_mw" json:"pre_mw"`
	PreMs    float64 `yaml:"pre_ms" json:"pre_ms"`
	LnaOnMw  float64 `yaml:"lna_on_mw" json:"lna_on_mw"`
	LnaOffMw float64 `yaml:"lna_off_mw" json:"lna_off_mw"`
	PostMw   float64 `yaml:"post_mw" json:"post_mw"`
	PostMs   float64 `yaml:"post_ms" json:"post_ms"`
	LnaOn    bool    `yaml:"lna_on" json:"lna_on"`
}

// Profile is the power draw (mW) of a node per radio state. TxPowerMw maps a transmit power
// code (dBm) to the measured draw.
type Profile struct {
	SleepPowerMw float64         `yaml:"sleep_power_mw" json:"sleep_power_mw"`
	ProcPowerMw  float64         `yaml:"proc_power_mw" json:"proc_power_mw"`
	TxPowerMw    map[int]float64 `yaml:"tx_power_mw" json:"tx_power_mw"`
	Rx           RxProfile       `yaml:"rx" json:"rx"`
}

// Consumption is energy spent per radio state, in mJ.
type Consumption struct {
	Sleep float64
	Proc  float64
	Tx    float64
	Rx    float64
}

func (c Consumption) TxRx() float64 {
	return c.Tx + c.Rx
}

func (c Consumption) Total() float64 {
	return c.Sleep + c.Proc + c.Tx + c.Rx
}

type RadioStatus struct {
	State     RadioStates
	SpentSlp  uint64
	SpentPrc  uint64
	SpentTx   uint64
	SpentRx   uint64
	Timestamp uint64
}

// NewProfile copies the given TX table into a new profile.
func NewProfile(sleepMw, procMw float64, txPowerMw map[int]float64, rx RxProfile) *Profile {
	p := &Profile{
		SleepPowerMw: sleepMw,
		ProcPowerMw:  procMw,
		TxPowerMw:    make(map[int]float64, len(txPowerMw)),
		Rx:           rx,
	}
	for tp, mw := range txPowerMw {
		p.TxPowerMw[tp] = mw
	}
	return p
}

// DefaultProfile returns the measured profile of the reference LoRa end device.
func DefaultProfile() *Profile {
	return NewProfile(5.7e-3, 15, map[int]float64{
		2:  91.8,
		5:  95.9,
		8:  101.6,
		11: 120.8,
		14: 146.5,
	}, RxProfile{
		PreMw:    8.2,
		PreMs:    3.4,
		LnaOnMw:  39,
		LnaOffMw: 34,
		PostMw:   8.3,
		PostMs:   10.7,
		LnaOn:    true,
	})
}

// Validate checks that every transmit power code in tpCodes has an entry and no value is negative.
func (p *Profile) Validate(tpCodes []int) error {
	if p.SleepPowerMw < 0 || p.ProcPowerMw < 0 {
		return errors.Errorf("negative sleep or processing power")
	}
	for _, tp := range tpCodes {
		mw, ok := p.TxPowerMw[tp]
		if !ok {
			return errors.Errorf("tx power table misses code %d", tp)
		}
		if mw < 0 {
			return errors.Errorf("negative tx power for code %d", tp)
		}
	}
	rx := p.Rx
	if rx.PreMw < 0 || rx.PreMs < 0 || rx.PostMw < 0 || rx.PostMs < 0 || rx.LnaOnMw < 0 || rx.LnaOffMw < 0 {
		return errors.Errorf("negative rx profile value")
	}
	return nil
}

// TxCodes returns the transmit power codes of the profile, ascending.
func (p *Profile) TxCodes() []int {
	codes := make([]int, 0, len(p.TxPowerMw))
	for tp := range p.TxPowerMw {
		codes = append(codes, tp)
	}
	sort.Ints(codes)
	return codes
}

// RxPowerMw returns the draw during a receive window.
func (p *Profile) RxPowerMw() float64 {
	if p.Rx.LnaOn {
		return p.Rx.LnaOnMw
	}
	return p.Rx.LnaOffMw
}

// RxOverheadMj returns the fixed energy of the pre and post receive phases.
func (p *Profile) RxOverheadMj() float64 {
	return p.Rx.PreMw*p.Rx.PreMs/1000 + p.Rx.PostMw*p.Rx.PostMs/1000
}

// energyMj converts a power draw over a virtual time span to mJ.
func energyMj(mw float64, us uint64) float64 {
	return mw * float64(us) / float64(Second)
}
