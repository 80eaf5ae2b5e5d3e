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
	"gonum.org/v1/gonum/floats"

	"github.com/kevinalini/LoRaEnergySim/lora"
	. "github.com/kevinalini/LoRaEnergySim/types"
)

const adrStepDb = 3.0

// adrEngine is the network side of adaptive data rate: it keeps the SNR of the last uplinks of every
// node and, once the history is full, derives new SF and TP settings from the link margin.
type adrEngine struct {
	historyLen int
	marginDb   DbValue
	history    map[NodeId][]DbValue
}

func newAdrEngine(historyLen int, marginDb DbValue) *adrEngine {
	return &adrEngine{
		historyLen: historyLen,
		marginDb:   marginDb,
		history:    map[NodeId][]DbValue{},
	}
}

func (a *adrEngine) record(id NodeId, snr DbValue) {
	h := append(a.history[id], snr)
	if len(h) > a.historyLen {
		h = h[len(h)-a.historyLen:]
	}
	a.history[id] = h
}

// evaluate returns new settings for the node, or nil if the history is not full yet or nothing
// changes. The history is cleared when new settings are returned.
func (a *adrEngine) evaluate(id NodeId, cur lora.Parameters) *AdrSettings {
	h := a.history[id]
	if len(h) < a.historyLen {
		return nil
	}
	margin := floats.Max(h) - lora.RequiredSnr(cur.SF) - a.marginDb
	nstep := int(margin / adrStepDb)

	sf, tp := cur.SF, cur.TP
	for nstep > 0 && sf > lora.MinSF {
		sf--
		nstep--
	}
	for nstep > 0 && tp > lora.MinTP {
		tp -= lora.TPStep
		nstep--
	}
	for nstep < 0 && tp < lora.MaxTP {
		tp += lora.TPStep
		nstep++
	}
	if tp < lora.MinTP {
		tp = lora.MinTP
	} else if tp > lora.MaxTP {
		tp = lora.MaxTP
	}

	if sf == cur.SF && tp == cur.TP {
		return nil
	}
	delete(a.history, id)
	return &AdrSettings{SF: sf, TP: tp}
}
