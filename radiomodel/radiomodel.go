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

// Package radiomodel computes received signal power, SNR and the capture decision for
// transmissions between end nodes and the gateway.
package radiomodel

import (
	. "github.com/kevinalini/LoRaEnergySim/types"
)

// PropagationModel gives the received power of a transmission between two positions.
type PropagationModel interface {
	ReceivedPowerDbm(txPowerDbm DbValue, src, dst *Location) DbValue

	// OnAdvanceTime is called when virtual time moves forward.
	OnAdvanceTime(ts uint64)
}

// SNRModel converts a received power into an SNR.
type SNRModel interface {
	Snr(rssDbm DbValue, bwKHz int) DbValue
}

// CaptureSurvives returns true if a frame received at rss exceeds every interferer by at least
// thresholdDb. A frame without interferers always survives.
func CaptureSurvives(rss DbValue, interferers []DbValue, thresholdDb DbValue) bool {
	for _, p := range interferers {
		if rss-p < thresholdDb {
			return false
		}
	}
	return true
}
