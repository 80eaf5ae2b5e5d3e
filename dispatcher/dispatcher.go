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

// Package dispatcher is the virtual clock of a simulated universe. It keeps a min-heap of alarms
// ordered by (timestamp, sequence number): alarms due at the same virtual time fire in the order
// they were scheduled. Exactly one alarm executes at a time; an alarm suspends its owner only by
// scheduling a continuation.
package dispatcher

import (
	"github.com/kevinalini/LoRaEnergySim/logger"
)

// TimeListener is notified whenever the virtual clock moves to a strictly later time, before any
// alarm of that time fires.
type TimeListener interface {
	OnAdvanceTime(ts uint64)
}

// TimeListenerFunc adapts a function to a TimeListener.
type TimeListenerFunc func(ts uint64)

func (f TimeListenerFunc) OnAdvanceTime(ts uint64) {
	f(ts)
}

// Config identifies the universe a dispatcher drives. A nil Config is universe 0 without tracing.
type Config struct {
	SimulationId int
	TraceEvents  bool // log every executed alarm at trace level
}

type Dispatcher struct {
	cfg       Config
	CurTime   uint64
	alarmMgr  *alarmMgr
	listeners []TimeListener
	stats     Stats
}

func NewDispatcher(cfg *Config) *Dispatcher {
	d := &Dispatcher{
		alarmMgr: newAlarmMgr(),
	}
	if cfg != nil {
		d.cfg = *cfg
	}
	return d
}

// AddTimeListener registers l. Listeners are called in registration order.
func (d *Dispatcher) AddTimeListener(l TimeListener) {
	logger.AssertNotNil(l)
	d.listeners = append(d.listeners, l)
}

// PostAt schedules task at the absolute virtual time ts, which must not be in the past.
func (d *Dispatcher) PostAt(ts uint64, name string, task func()) *Alarm {
	logger.AssertTruef(ts >= d.CurTime, "alarm %s scheduled in the past: %d < %d", name, ts, d.CurTime)
	a := d.alarmMgr.Schedule(name, ts, task)
	d.stats.AlarmsScheduled++
	d.updateQueueStats()
	return a
}

// PostAfter schedules task delay microseconds after the current virtual time.
func (d *Dispatcher) PostAfter(delay uint64, name string, task func()) *Alarm {
	return d.PostAt(d.CurTime+delay, name, task)
}

// Pending returns the number of alarms waiting to fire.
func (d *Dispatcher) Pending() int {
	return d.alarmMgr.Len()
}

// RunUntil fires every alarm with a timestamp before horizon, then advances the clock to horizon.
// Alarms at or after the horizon never fire.
func (d *Dispatcher) RunUntil(horizon uint64) {
	logger.AssertTrue(horizon >= d.CurTime)
	for {
		next := d.alarmMgr.NextTimestamp()
		if next >= horizon {
			break
		}
		if next > d.CurTime {
			d.advanceTime(next)
		}

		a := d.alarmMgr.PopNext()
		d.stats.AlarmsFired++
		if d.cfg.TraceEvents {
			logger.SimLogf(logger.TraceLevel, d.CurTime, "sim %d alarm %s", d.cfg.SimulationId, a.Name)
		}
		a.task()
	}
	if horizon > d.CurTime {
		d.advanceTime(horizon)
	}
	d.stats.AlarmsDiscarded = uint64(d.alarmMgr.Len())
}

func (d *Dispatcher) advanceTime(ts uint64) {
	logger.AssertTrue(ts > d.CurTime)
	d.CurTime = ts
	d.stats.TimeAdvances++
	for _, l := range d.listeners {
		l.OnAdvanceTime(ts)
	}
}
