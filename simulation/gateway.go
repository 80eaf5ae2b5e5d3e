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
	"github.com/kevinalini/LoRaEnergySim/dispatcher"
	"github.com/kevinalini/LoRaEnergySim/kpi"
	"github.com/kevinalini/LoRaEnergySim/logger"
	"github.com/kevinalini/LoRaEnergySim/lora"
	. "github.com/kevinalini/LoRaEnergySim/types"
)

const (
	defaultAdrHistoryLen = 20
	defaultAdrMarginDb   = 10.0
)

type GatewayConfig struct {
	AdrHistoryLen int     `yaml:"adr_history"`
	AdrMarginDb   DbValue `yaml:"adr_margin_db"`
}

func DefaultGatewayConfig() *GatewayConfig {
	return &GatewayConfig{
		AdrHistoryLen: defaultAdrHistoryLen,
		AdrMarginDb:   defaultAdrMarginDb,
	}
}

type GatewayCounters struct {
	PacketsReceived       int
	UniquePacketsReceived int
	UniqueBytesReceived   int
	WeakPackets           int
	DLPackets             int
	AdrCommands           int
}

// Gateway decodes the uplinks that survive the air interface, acknowledges confirmed ones and runs
// the network side of ADR.
type Gateway struct {
	Location  Location
	d         *dispatcher.Dispatcher
	adr       *adrEngine
	lastFrame map[NodeId]int
	counters  GatewayCounters
}

func NewGateway(d *dispatcher.Dispatcher, location Location, cfg *GatewayConfig) *Gateway {
	if cfg == nil {
		cfg = DefaultGatewayConfig()
	}
	return &Gateway{
		Location:  location,
		d:         d,
		adr:       newAdrEngine(cfg.AdrHistoryLen, cfg.AdrMarginDb),
		lastFrame: map[NodeId]int{},
	}
}

// receive handles a packet that was not lost to a collision.
func (gw *Gateway) receive(p *Packet) {
	logger.AssertTrue(p.Resolved && !p.Collided)
	gw.counters.PacketsReceived++

	if p.Rss < lora.Sensitivity(p.Lora.SF, p.Lora.BW) {
		gw.counters.WeakPackets++
		logger.SimLogf(logger.TraceLevel, gw.d.CurTime, "gateway: too weak %v", p)
		return
	}

	if last, ok := gw.lastFrame[p.NodeId]; !ok || last != p.FrameCounter {
		gw.lastFrame[p.NodeId] = p.FrameCounter
		gw.counters.UniquePacketsReceived++
		gw.counters.UniqueBytesReceived += p.PayloadSize
	}

	if p.Adr {
		gw.adr.record(p.NodeId, p.Snr)
	}
	if !p.Confirmed {
		return
	}

	dl := &Downlink{}
	if p.Adr {
		if dl.Adr = gw.adr.evaluate(p.NodeId, p.Lora); dl.Adr != nil {
			gw.counters.AdrCommands++
		}
	}
	p.Ack = dl
	gw.counters.DLPackets++
}

func (gw *Gateway) Counters() GatewayCounters {
	return gw.counters
}

func (gw *Gateway) GetSimulationData(name int) kpi.Series {
	s := kpi.NewSeries(name, kpi.GatewayColumns)
	s.Set(kpi.PacketsReceived, float64(gw.counters.PacketsReceived))
	s.Set(kpi.UniquePacketsReceived, float64(gw.counters.UniquePacketsReceived))
	s.Set(kpi.UniqueBytesReceived, float64(gw.counters.UniqueBytesReceived))
	s.Set(kpi.WeakPackets, float64(gw.counters.WeakPackets))
	s.Set(kpi.DLPackets, float64(gw.counters.DLPackets))
	s.Set(kpi.AdrCommands, float64(gw.counters.AdrCommands))
	return s
}
