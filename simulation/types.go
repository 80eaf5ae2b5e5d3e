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
	"fmt"

	"github.com/kevinalini/LoRaEnergySim/lora"
	. "github.com/kevinalini/LoRaEnergySim/types"
)

type NodeState byte

const (
	NodeSleep NodeState = iota
	NodePrepare
	NodeWaitDutyCycle
	NodeTransmit
	NodeWaitAck
)

func (s NodeState) String() string {
	switch s {
	case NodeSleep:
		return "SLEEP"
	case NodePrepare:
		return "PREPARE"
	case NodeWaitDutyCycle:
		return "WAIT_DC"
	case NodeTransmit:
		return "TRANSMIT"
	case NodeWaitAck:
		return "WAIT_ACK"
	default:
		return fmt.Sprintf("NodeState(%d)", byte(s))
	}
}

// RadioState returns the radio state the energy accounting charges for s.
func (s NodeState) RadioState() RadioStates {
	switch s {
	case NodePrepare:
		return RadioProcessing
	case NodeTransmit:
		return RadioTx
	case NodeWaitAck:
		return RadioRx
	default:
		return RadioSleep
	}
}

// AdrSettings are the radio settings an ADR command asks a node to use.
type AdrSettings struct {
	SF int
	TP int
}

// Downlink is the acknowledgment of a confirmed uplink.
type Downlink struct {
	Adr *AdrSettings
}

type packetOwner interface {
	onPacketResolved(p *Packet)
}

// Packet is one uplink transmission on air. Start and End are virtual times in us.
type Packet struct {
	Id           uint64
	NodeId       NodeId
	Location     Location
	Lora         lora.Parameters
	PayloadSize  int
	FrameCounter int
	Confirmed    bool
	Adr          bool
	Start        uint64
	End          uint64
	Rss          DbValue
	Snr          DbValue

	Resolved bool
	Collided bool
	Captured bool
	Ack      *Downlink

	owner packetOwner
}

func (p *Packet) Airtime() uint64 {
	return p.End - p.Start
}

// interferesWith returns true if o shares channel and SF with p and their closed time intervals overlap.
func (p *Packet) interferesWith(o *Packet) bool {
	return p.Lora.Freq == o.Lora.Freq && p.Lora.SF == o.Lora.SF && p.Start <= o.End && o.Start <= p.End
}

func (p *Packet) String() string {
	return fmt.Sprintf("pkt#%d node=%d fcnt=%d %s [%d,%d] rss=%.1f snr=%.1f", p.Id, p.NodeId, p.FrameCounter,
		p.Lora, p.Start, p.End, p.Rss, p.Snr)
}
