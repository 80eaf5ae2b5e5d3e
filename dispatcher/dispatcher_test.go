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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameTimestampFiresInInsertionOrder(t *testing.T) {
	d := NewDispatcher(nil)
	var order []string
	d.PostAt(10, "c", func() { order = append(order, "c") })
	d.PostAt(5, "a", func() { order = append(order, "a") })
	d.PostAt(10, "d", func() { order = append(order, "d") })
	d.PostAt(5, "b", func() {
		order = append(order, "b")
		// scheduled later at the same time as c and d, so it fires after them
		d.PostAt(10, "e", func() { order = append(order, "e") })
	})
	d.RunUntil(100)

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, order)
	assert.Equal(t, uint64(100), d.CurTime)
}

func TestRunUntilHorizonIsExclusive(t *testing.T) {
	d := NewDispatcher(nil)
	fired := 0
	d.PostAt(99, "before", func() { fired++ })
	d.PostAt(100, "at", func() { fired += 10 })
	d.PostAt(200, "after", func() { fired += 100 })
	d.RunUntil(100)

	assert.Equal(t, 1, fired)
	assert.Equal(t, uint64(100), d.CurTime)
	assert.Equal(t, 2, d.Pending())
	assert.Equal(t, uint64(2), d.GetStats().AlarmsDiscarded)
}

func TestTimeListenerCalledBeforeAlarms(t *testing.T) {
	d := NewDispatcher(nil)
	var log []uint64
	d.AddTimeListener(TimeListenerFunc(func(ts uint64) {
		log = append(log, ts)
	}))
	d.PostAt(0, "zero", func() {
		assert.Empty(t, log)
	})
	d.PostAt(7, "seven", func() {
		assert.Equal(t, []uint64{7}, log)
	})
	d.PostAt(7, "seven-again", func() {
		assert.Equal(t, []uint64{7}, log)
	})
	d.RunUntil(20)

	assert.Equal(t, []uint64{7, 20}, log)
	assert.Equal(t, uint64(2), d.GetStats().TimeAdvances)
}

func TestPostAfter(t *testing.T) {
	d := NewDispatcher(&Config{SimulationId: 3, TraceEvents: true})
	var fired []uint64
	var a *Alarm
	d.PostAt(10, "start", func() {
		a = d.PostAfter(5, "later", func() { fired = append(fired, d.CurTime) })
		assert.Equal(t, uint64(15), a.Timestamp)
	})
	d.PostAt(12, "between", func() { fired = append(fired, d.CurTime) })
	d.RunUntil(50)

	assert.Equal(t, []uint64{12, 15}, fired)
	stats := d.GetStats()
	assert.Equal(t, uint64(3), stats.AlarmsScheduled)
	assert.Equal(t, uint64(3), stats.AlarmsFired)
	assert.Equal(t, uint64(0), stats.AlarmsDiscarded)
}

func TestPostInPastPanics(t *testing.T) {
	d := NewDispatcher(nil)
	d.RunUntil(100)
	assert.Panics(t, func() {
		d.PostAt(50, "past", func() {})
	})
}

func TestManyAlarmsStayOrdered(t *testing.T) {
	d := NewDispatcher(nil)
	var last uint64
	var lastSeq int
	for i := 0; i < 1000; i++ {
		ts := uint64((i * 7919) % 101)
		seq := i
		d.PostAt(ts, "n", func() {
			assert.True(t, d.CurTime >= last)
			if d.CurTime == last {
				assert.True(t, seq > lastSeq)
			}
			last, lastSeq = d.CurTime, seq
		})
	}
	lastSeq = -1
	d.RunUntil(1000)
	assert.Equal(t, 1000, d.GetStats().MaxQueueLen)
}
