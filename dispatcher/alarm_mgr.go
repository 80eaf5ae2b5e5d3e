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

package dispatcher

import (
	"container/heap"

	"github.com/kevinalini/LoRaEnergySim/logger"
	. "github.com/kevinalini/LoRaEnergySim/types"
)

// Alarm is a scheduled task. Alarms with equal Timestamp fire in the order they were scheduled.
type Alarm struct {
	Name      string
	Timestamp uint64 // timestamp of the alarm

	seq   uint64
	task  func()
	index int
}

type alarmQueue []*Alarm

func (aq alarmQueue) Len() int {
	return len(aq)
}

func (aq alarmQueue) Less(i, j int) bool {
	if aq[i].Timestamp != aq[j].Timestamp {
		return aq[i].Timestamp < aq[j].Timestamp
	}
	return aq[i].seq < aq[j].seq
}

func (aq alarmQueue) Swap(i, j int) {
	a, b := aq[i], aq[j]
	if a.index != i && b.index != j {
		logger.Panicf("wrong index")
	}

	aq[i], aq[j] = b, a             // swap the elements
	aq[i].index, aq[j].index = i, j // fix the indexes
}

func (aq *alarmQueue) Push(x interface{}) {
	e := x.(*Alarm)
	*aq = append(*aq, e)
	e.index = len(*aq) - 1
}

func (aq *alarmQueue) Pop() (elem interface{}) {
	eqlen := len(*aq)
	e := (*aq)[eqlen-1]
	(*aq)[eqlen-1] = nil
	*aq = (*aq)[:eqlen-1]
	e.index = -1
	return e
}

type alarmMgr struct {
	q       alarmQueue
	nextSeq uint64
}

func newAlarmMgr() *alarmMgr {
	mgr := &alarmMgr{
		q: alarmQueue{},
	}

	heap.Init(&mgr.q)
	return mgr
}

func (am *alarmMgr) Schedule(name string, timestamp uint64, task func()) *Alarm {
	logger.AssertNotNil(task)
	e := &Alarm{
		Name:      name,
		Timestamp: timestamp,
		seq:       am.nextSeq,
		task:      task,
	}
	am.nextSeq++
	heap.Push(&am.q, e)
	return e
}

func (am *alarmMgr) NextTimestamp() uint64 {
	if len(am.q) == 0 {
		return Ever
	}

	return am.q[0].Timestamp
}

func (am *alarmMgr) PopNext() *Alarm {
	return heap.Pop(&am.q).(*Alarm)
}

func (am *alarmMgr) Len() int {
	return len(am.q)
}
