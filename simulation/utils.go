// Copyright (c) 2020-2024, The OTNS Authors.
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
	"fmt"
	"io"
)

// heartbeat writes a dot each time virtual time crosses one of its interval boundaries. It only
// observes the clock.
type heartbeat struct {
	w        io.Writer
	interval uint64
	next     uint64
	left     uint64
}

func newHeartbeat(w io.Writer, horizon uint64, parts uint64) *heartbeat {
	interval := horizon / parts
	if interval == 0 {
		interval = 1
	}
	return &heartbeat{
		w:        w,
		interval: interval,
		next:     interval,
		left:     parts,
	}
}

func (hb *heartbeat) OnAdvanceTime(ts uint64) {
	for hb.left > 0 && ts >= hb.next {
		_, _ = hb.w.Write([]byte{'.'})
		hb.next += hb.interval
		hb.left--
	}
}

func (hb *heartbeat) done() {
	_, _ = hb.w.Write([]byte{'\n'})
}

func getPcapFileName(outputDir string, simId int) string {
	return fmt.Sprintf("%s/%d_air.pcap", outputDir, simId)
}
