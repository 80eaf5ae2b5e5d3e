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

package radiomodel

import (
	"github.com/pkg/errors"

	. "github.com/kevinalini/LoRaEnergySim/types"
)

// default radio model parameters, log-distance model fitted on an 868 MHz urban deployment.
const (
	defaultRefLossDb           DbValue = 128.95
	defaultRefDistanceMeters   float64 = 1000.0
	defaultPathLossExponent    float64 = 2.32
	defaultShadowFadingSigmaDb DbValue = 7.8
	defaultNoiseFigureDb       DbValue = 6.0
	defaultCaptureThresholdDb  DbValue = 6.0
)

// RadioModelParams stores model parameters for the radio model.
type RadioModelParams struct {
	RefLossDb            DbValue `yaml:"ref_loss_db"`             // path loss (dB) at the reference distance
	RefDistanceMeters    float64 `yaml:"ref_distance_m"`          // reference distance of the log-distance model
	PathLossExponent     float64 `yaml:"path_loss_exponent"`      // the exponent of the log-distance model
	IndoorLossDb         DbValue `yaml:"indoor_loss_db"`          // extra loss (dB) if either end of the link is indoor
	ShadowFadingSigmaDb  DbValue `yaml:"shadow_fading_sigma_db"`  // sigma (stddev) parameter for Shadow Fading (SF), in dB
	TimeFadingSigmaMaxDb DbValue `yaml:"time_fading_sigma_db"`    // max sigma (stddev) parameter for time-variant fading, in dB
	MeanTimeFadingChange float64 `yaml:"mean_time_fading_change"` // mean time in sec, when TV fading value changes
	NoiseFigureDb        DbValue `yaml:"noise_figure_db"`         // receiver noise figure, added to thermal noise
	CaptureThresholdDb   DbValue `yaml:"capture_threshold_db"`    // power margin a frame needs over each interferer
}

// DefaultParams gets a new set of parameters with default values, as a basis to configure further.
func DefaultParams() *RadioModelParams {
	return &RadioModelParams{
		RefLossDb:            defaultRefLossDb,
		RefDistanceMeters:    defaultRefDistanceMeters,
		PathLossExponent:     defaultPathLossExponent,
		IndoorLossDb:         0,
		ShadowFadingSigmaDb:  defaultShadowFadingSigmaDb,
		TimeFadingSigmaMaxDb: 0,
		MeanTimeFadingChange: 0,
		NoiseFigureDb:        defaultNoiseFigureDb,
		CaptureThresholdDb:   defaultCaptureThresholdDb,
	}
}

func (p *RadioModelParams) Validate() error {
	if p.RefDistanceMeters <= 0 {
		return errors.Errorf("reference distance must be positive: %v", p.RefDistanceMeters)
	}
	if p.PathLossExponent <= 0 {
		return errors.Errorf("path loss exponent must be positive: %v", p.PathLossExponent)
	}
	if p.ShadowFadingSigmaDb < 0 || p.TimeFadingSigmaMaxDb < 0 {
		return errors.Errorf("fading sigma must not be negative")
	}
	if p.TimeFadingSigmaMaxDb > 0 && p.MeanTimeFadingChange <= 0 {
		return errors.Errorf("time-variant fading needs a positive mean change time")
	}
	if p.CaptureThresholdDb < 0 {
		return errors.Errorf("capture threshold must not be negative: %v", p.CaptureThresholdDb)
	}
	return nil
}
