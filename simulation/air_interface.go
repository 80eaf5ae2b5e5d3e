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
	"sort"

	"github.com/kevinalini/LoRaEnergySim/dispatcher"
	"github.com/kevinalini/LoRaEnergySim/kpi"
	"github.com/kevinalini/LoRaEnergySim/logger"
	"github.com/kevinalini/LoRaEnergySim/pcap"
	"github.com/kevinalini/LoRaEnergySim/radiomodel"
	. "github.com/kevinalini/LoRaEnergySim/types"
)

type AirCounters struct {
	TransmittedPackets int
	CollidedPackets    int
	CapturedPackets    int
	AirtimeUs          uint64
}

// AirInterface is the shared channel. A packet is classified once virtual time has moved strictly
// past its end, when every packet overlapping it has been registered, so the outcome does not depend
// on the order of events with the same timestamp. Packets still on air at the horizon are never
// classified.
type AirInterface struct {
	CaptureThresholdDb DbValue

	d            *dispatcher.Dispatcher
	gw           *Gateway
	prop         radiomodel.PropagationModel
	snr          radiomodel.SNRModel
	inAir        []*Packet
	nextPacketId uint64
	counters     AirCounters
	capture      pcap.File
}

// NewAirInterface creates the air interface and registers it as time listener of d.
func NewAirInterface(gw *Gateway, prop radiomodel.PropagationModel, snr radiomodel.SNRModel,
	d *dispatcher.Dispatcher) *AirInterface {
	air := &AirInterface{
		CaptureThresholdDb: radiomodel.DefaultParams().CaptureThresholdDb,
		d:                  d,
		gw:                 gw,
		prop:               prop,
		snr:                snr,
	}
	d.AddTimeListener(air)
	return air
}

// PacketInAir registers a packet at the start of its transmission and computes its reception at the
// gateway.
func (air *AirInterface) PacketInAir(p *Packet) {
	logger.AssertTrue(p.Start == air.d.CurTime && p.End > p.Start)
	p.Id = air.nextPacketId
	air.nextPacketId++
	p.Rss = air.prop.ReceivedPowerDbm(DbValue(p.Lora.TP), &p.Location, &air.gw.Location)
	p.Snr = air.snr.Snr(p.Rss, p.Lora.BW)
	air.inAir = append(air.inAir, p)
	air.captureFrame(p)
}

// SetCapture writes every packet put on air to f, until closed with CloseCapture.
func (air *AirInterface) SetCapture(f pcap.File) {
	air.capture = f
}

func (air *AirInterface) CloseCapture() {
	if air.capture == nil {
		return
	}
	if err := air.capture.Close(); err != nil {
		logger.Warnf("close packet capture: %v", err)
	}
	air.capture = nil
}

func (air *AirInterface) captureFrame(p *Packet) {
	if air.capture == nil {
		return
	}
	err := air.capture.AppendFrame(pcap.Frame{
		Timestamp: p.Start,
		Data: pcap.Uplink{
			DevAddr:      uint32(p.NodeId),
			FrameCounter: p.FrameCounter,
			Confirmed:    p.Confirmed,
			Adr:          p.Adr,
			PayloadSize:  p.PayloadSize,
		}.PhyPayload(),
		FreqHz: p.Lora.Freq,
		BwKHz:  p.Lora.BW,
		SF:     p.Lora.SF,
		Rssi:   p.Rss,
		Snr:    p.Snr,
	})
	if err != nil {
		logger.Warnf("packet capture stopped: %v", err)
		air.CloseCapture()
	}
}

// OnAdvanceTime classifies every packet that ended before ts, in order of end time.
func (air *AirInterface) OnAdvanceTime(ts uint64) {
	var done []*Packet
	for _, p := range air.inAir {
		if !p.Resolved && p.End < ts {
			done = append(done, p)
		}
	}
	if len(done) == 0 {
		return
	}
	sort.Slice(done, func(i, j int) bool {
		if done[i].End != done[j].End {
			return done[i].End < done[j].End
		}
		return done[i].Id < done[j].Id
	})
	for _, p := range done {
		air.resolve(p)
	}
	air.prune(ts)
}

func (air *AirInterface) resolve(p *Packet) {
	var interferers []DbValue
	for _, o := range air.inAir {
		if o != p && p.interferesWith(o) {
			interferers = append(interferers, o.Rss)
		}
	}
	p.Resolved = true
	p.Collided = !radiomodel.CaptureSurvives(p.Rss, interferers, air.CaptureThresholdDb)
	p.Captured = !p.Collided && len(interferers) > 0

	air.counters.TransmittedPackets++
	air.counters.AirtimeUs += p.Airtime()
	if p.Collided {
		air.counters.CollidedPackets++
	} else if p.Captured {
		air.counters.CapturedPackets++
	}

	if p.owner != nil {
		p.owner.onPacketResolved(p)
	}
	if !p.Collided {
		air.gw.receive(p)
	}
}

// prune drops resolved packets that can no longer overlap a packet that is still unresolved or yet
// to start.
func (air *AirInterface) prune(ts uint64) {
	minStart := ts
	for _, p := range air.inAir {
		if !p.Resolved && p.Start < minStart {
			minStart = p.Start
		}
	}
	kept := air.inAir[:0]
	for _, p := range air.inAir {
		if !p.Resolved || p.End >= minStart {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(air.inAir); i++ {
		air.inAir[i] = nil
	}
	air.inAir = kept
}

// InAir returns the number of packets kept for classification.
func (air *AirInterface) InAir() int {
	return len(air.inAir)
}

func (air *AirInterface) Counters() AirCounters {
	return air.counters
}

func (air *AirInterface) GetSimulationData(name int) kpi.Series {
	s := kpi.NewSeries(name, kpi.AirColumns)
	s.Set(kpi.TransmittedPackets, float64(air.counters.TransmittedPackets))
	s.Set(kpi.AirCollidedPackets, float64(air.counters.CollidedPackets))
	s.Set(kpi.CapturedPackets, float64(air.counters.CapturedPackets))
	s.Set(kpi.AirtimeMs, UsToMs(air.counters.AirtimeUs))
	return s
}
