// Copyright (c) 2024, The OTNS Authors.
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

package dispatcher

import "fmt"

// Stats are the counters of one dispatcher run.
type Stats struct {
	AlarmsScheduled uint64
	AlarmsFired     uint64
	AlarmsDiscarded uint64 // still pending when the horizon was reached
	TimeAdvances    uint64
	MaxQueueLen     int
}

func (s Stats) String() string {
	return fmt.Sprintf("scheduled=%d fired=%d discarded=%d advances=%d maxQueue=%d",
		s.AlarmsScheduled, s.AlarmsFired, s.AlarmsDiscarded, s.TimeAdvances, s.MaxQueueLen)
}

func (d *Dispatcher) updateQueueStats() {
	if n := d.alarmMgr.Len(); n > d.stats.MaxQueueLen {
		d.stats.MaxQueueLen = n
	}
}

// GetStats returns the counters collected so far.
func (d *Dispatcher) GetStats() Stats {
	return d.stats
}
