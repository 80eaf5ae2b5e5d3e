// Copyright (c) 2020-2023, The OTNS Authors.
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
	"math/rand"

	"github.com/pkg/errors"

	"github.com/kevinalini/LoRaEnergySim/dispatcher"
	"github.com/kevinalini/LoRaEnergySim/energy"
	"github.com/kevinalini/LoRaEnergySim/kpi"
	"github.com/kevinalini/LoRaEnergySim/logger"
	"github.com/kevinalini/LoRaEnergySim/lora"
	. "github.com/kevinalini/LoRaEnergySim/types"
)

type NodeCounters struct {
	UniquePackets        int
	CollidedPackets      int
	RetransmittedPackets int
	NoDLReceived         int
	TotalPackets         int
	TotalBytes           int
	WaitTimeDCUs         uint64
	AdrChanges           int
}

// Node is an end node. Its life cycle is a chain of dispatcher alarms:
// SLEEP -> PREPARE -> [WAIT_DC] -> TRANSMIT -> [WAIT_ACK -> (PREPARE on missing ack)] -> SLEEP.
type Node struct {
	Id NodeId

	cfg           NodeConfig
	d             *dispatcher.Dispatcher
	gw            *Gateway
	air           *AirInterface
	rnd           *rand.Rand
	energy        *energy.NodeEnergy
	log           *logger.NodeLogger
	lora          lora.Parameters
	state         NodeState
	retries       int
	frameCounter  int
	nextTxAllowed uint64
	packet        *Packet
	counters      NodeCounters
}

// NewNode creates a node and its energy account in ea. rnd is used for the start offset and the
// per-cycle jitter.
func NewNode(cfg *NodeConfig, d *dispatcher.Dispatcher, gw *Gateway, air *AirInterface,
	ea *energy.EnergyAnalyser, rnd *rand.Rand) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, ok := ea.Profile().TxPowerMw[cfg.Lora.TP]; !ok {
		return nil, errors.Errorf("node %d: energy profile has no tx power entry for %d dBm", cfg.Id, cfg.Lora.TP)
	}
	node := &Node{
		Id:     cfg.Id,
		cfg:    *cfg,
		d:      d,
		gw:     gw,
		air:    air,
		rnd:    rnd,
		energy: ea.AddNode(cfg.Id, cfg.Lora.TP, d.CurTime),
		lora:   cfg.Lora,
		state:  NodeSleep,
	}
	return node, nil
}

// Run schedules the first cycle after a random offset in [0, sleep time).
func (node *Node) Run() {
	offset := MsToUs(node.rnd.Float64() * node.cfg.SleepTimeMs)
	node.d.PostAfter(offset, "start", node.sleep)
}

func (node *Node) sleep() {
	node.setState(NodeSleep)
	jitter := node.rnd.Float64() * node.cfg.JitterMaxMs
	node.d.PostAfter(MsToUs(node.cfg.SleepTimeMs+jitter), "wake", node.prepare)
}

func (node *Node) prepare() {
	node.setState(NodePrepare)
	node.d.PostAfter(MsToUs(node.cfg.ProcessTimeMs), "prepared", node.transmitWhenAllowed)
}

func (node *Node) transmitWhenAllowed() {
	now := node.d.CurTime
	if now < node.nextTxAllowed {
		node.counters.WaitTimeDCUs += node.nextTxAllowed - now
		node.setState(NodeWaitDutyCycle)
		node.d.PostAt(node.nextTxAllowed, "dc", node.transmit)
		return
	}
	node.transmit()
}

func (node *Node) transmit() {
	if node.retries == 0 {
		node.frameCounter++
	}
	now := node.d.CurTime
	phyPayload := node.cfg.PayloadSize + lora.PhyOverheadBytes
	airtime := MsToUs(node.lora.TimeOnAirMs(phyPayload))
	node.packet = &Packet{
		NodeId:       node.Id,
		Location:     node.cfg.Location,
		Lora:         node.lora,
		PayloadSize:  node.cfg.PayloadSize,
		FrameCounter: node.frameCounter,
		Confirmed:    node.cfg.Confirmed,
		Adr:          node.cfg.Adr,
		Start:        now,
		End:          now + airtime,
		owner:        node,
	}
	node.energy.SetTxPower(node.lora.TP, now)
	node.setState(NodeTransmit)
	node.air.PacketInAir(node.packet)
	node.tracef("tx %v", node.packet)
	node.d.PostAt(node.packet.End, "txdone", node.onTxDone)
}

func (node *Node) onTxDone() {
	p := node.packet
	node.nextTxAllowed = p.End + uint64(float64(p.Airtime())*(1/node.cfg.DutyCycle-1))
	if !node.cfg.Confirmed {
		node.sleep()
		return
	}
	node.setState(NodeWaitAck)
	node.d.PostAfter(MsToUs(node.cfg.ProcessTimeMs), "rxwindow", node.onAckWindowEnd)
}

func (node *Node) onAckWindowEnd() {
	p := node.packet
	logger.AssertTruef(p.Resolved, "node %d: packet not resolved at end of ack window", node.Id)

	if p.Ack != nil {
		node.tracef("ack received, fcnt=%d", p.FrameCounter)
		if p.Ack.Adr != nil && node.cfg.Adr {
			node.applyAdr(p.Ack.Adr)
		}
		node.retries = 0
		node.sleep()
		return
	}

	node.counters.NoDLReceived++
	if node.retries < node.cfg.MaxRetransmissions {
		node.retries++
		node.counters.RetransmittedPackets++
		node.tracef("no ack, retransmission %d", node.retries)
		node.prepare()
		return
	}
	node.tracef("no ack, giving up fcnt=%d", p.FrameCounter)
	node.retries = 0
	node.sleep()
}

func (node *Node) applyAdr(s *AdrSettings) {
	if s.SF == node.lora.SF && s.TP == node.lora.TP {
		return
	}
	if _, ok := node.energy.Profile().TxPowerMw[s.TP]; !ok {
		logger.Warnf("node %d: ignoring ADR command with tx power %d", node.Id, s.TP)
		return
	}
	node.tracef("ADR sf %d->%d tp %d->%d", node.lora.SF, s.SF, node.lora.TP, s.TP)
	node.lora.SF = s.SF
	node.lora.TP = s.TP
	node.counters.AdrChanges++
}

// onPacketResolved is called by the air interface when the current packet was classified.
func (node *Node) onPacketResolved(p *Packet) {
	node.counters.TotalPackets++
	node.counters.TotalBytes += p.PayloadSize
	if p.Collided {
		node.counters.CollidedPackets++
	} else {
		node.counters.UniquePackets++
	}
}

func (node *Node) setState(state NodeState) {
	if state != node.state {
		node.tracef("%v -> %v", node.state, state)
	}
	node.state = state
	node.energy.SetRadioState(state.RadioState(), node.d.CurTime)
}

func (node *Node) tracef(format string, args ...interface{}) {
	if node.log == nil {
		return
	}
	node.log.Tracef(format, args...)
	node.log.DisplayPendingLogEntries(node.d.CurTime)
}

func (node *Node) State() NodeState {
	return node.state
}

func (node *Node) Lora() lora.Parameters {
	return node.lora
}

func (node *Node) Config() NodeConfig {
	return node.cfg
}

func (node *Node) Counters() NodeCounters {
	return node.counters
}

func (node *Node) Energy() *energy.NodeEnergy {
	return node.energy
}

// GetSimulationData returns the counters and the energy of the node.
func (node *Node) GetSimulationData(name int) kpi.Series {
	c := node.energy.GetConsumption()
	s := kpi.NewSeries(name, kpi.NodeColumns)
	s.Set(kpi.UniquePackets, float64(node.counters.UniquePackets))
	s.Set(kpi.CollidedPackets, float64(node.counters.CollidedPackets))
	s.Set(kpi.RetransmittedPackets, float64(node.counters.RetransmittedPackets))
	s.Set(kpi.NoDLReceived, float64(node.counters.NoDLReceived))
	s.Set(kpi.TotalPackets, float64(node.counters.TotalPackets))
	s.Set(kpi.TotalBytes, float64(node.counters.TotalBytes))
	s.Set(kpi.WaitTimeDC, UsToMs(node.counters.WaitTimeDCUs))
	s.Set(kpi.AdrChanges, float64(node.counters.AdrChanges))
	s.Set(kpi.SleepEnergy, c.Sleep)
	s.Set(kpi.ProcEnergy, c.Proc)
	s.Set(kpi.TxEnergy, c.Tx)
	s.Set(kpi.RxEnergy, c.Rx)
	s.Set(kpi.TxRxEnergy, c.TxRx())
	s.Set(kpi.TotalEnergy, c.Total())
	return s
}

// SumNodeData sums the series of all nodes; dividing by the node count gives the mean per node.
func SumNodeData(nodes []*Node, name int) kpi.Series {
	sum := kpi.NewSeries(name, kpi.NodeColumns)
	for _, node := range nodes {
		sum.Add(node.GetSimulationData(name))
	}
	return sum
}
