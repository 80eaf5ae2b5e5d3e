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

// Package simulation builds and runs one simulated LoRa network: end nodes, the air interface and
// the gateway, all driven by one virtual clock up to a fixed horizon.
package simulation

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/kevinalini/LoRaEnergySim/dispatcher"
	"github.com/kevinalini/LoRaEnergySim/energy"
	"github.com/kevinalini/LoRaEnergySim/kpi"
	"github.com/kevinalini/LoRaEnergySim/logger"
	"github.com/kevinalini/LoRaEnergySim/pcap"
	"github.com/kevinalini/LoRaEnergySim/radiomodel"
	. "github.com/kevinalini/LoRaEnergySim/types"
)

type Simulation struct {
	cfg    Config
	d      *dispatcher.Dispatcher
	gw     *Gateway
	air    *AirInterface
	prop   *radiomodel.LogShadow
	energy *energy.EnergyAnalyser
	nodes  []*Node
	hb     *heartbeat
	stats  *statsLog
	ran    bool
}

// NewSimulation builds a universe: gateway at the cell centre, one node per configured location with
// ids 1..N, and a channel and SF drawn for every node.
func NewSimulation(cfg *Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg: *cfg,
		d: dispatcher.NewDispatcher(&dispatcher.Config{
			SimulationId: cfg.Id,
			TraceEvents:  cfg.TraceEvents,
		}),
		energy: energy.NewEnergyAnalyser(cfg.Energy),
	}
	s.energy.SetTitle(fmt.Sprintf("nodes=%d payload=%d", cfg.NodeCount(), cfg.PayloadSize))

	// listeners are called in this order: fading first, then packet classification.
	s.prop = radiomodel.NewLogShadow(cfg.Radio, int64(cfg.Seeds.RadioModel))
	s.d.AddTimeListener(s.prop)
	gwLocation := NewLocation(cfg.CellSize/2, cfg.CellSize/2, false)
	s.gw = NewGateway(s.d, gwLocation, cfg.Gateway)
	s.air = NewAirInterface(s.gw, s.prop, radiomodel.NewSnrModel(cfg.Radio), s.d)
	s.air.CaptureThresholdDb = cfg.Radio.CaptureThresholdDb
	if cfg.Heartbeat != nil {
		s.hb = newHeartbeat(cfg.Heartbeat, cfg.HorizonUs, heartbeatParts)
		s.d.AddTimeListener(s.hb)
	}

	watch := map[NodeId]struct{}{}
	for _, id := range cfg.WatchNodes {
		watch[id] = struct{}{}
	}

	rnd := cfg.Seeds.Nodes.NewRand()
	sleepTime := cfg.SleepTimeMs()
	for i, loc := range cfg.Locations {
		nodeCfg := DefaultNodeConfig()
		nodeCfg.Id = i + 1
		nodeCfg.Location = loc
		nodeCfg.Lora = RandomLoraParameters(rnd)
		nodeCfg.PayloadSize = cfg.PayloadSize
		nodeCfg.SleepTimeMs = sleepTime
		nodeCfg.ProcessTimeMs = cfg.ProcessTimeMs
		nodeCfg.Adr = cfg.Adr
		nodeCfg.Confirmed = cfg.Confirmed
		nodeCfg.MaxRetransmissions = cfg.MaxRetransmissions
		nodeCfg.DutyCycle = cfg.DutyCycle
		nodeCfg.JitterMaxMs = cfg.JitterMaxMs
		_, nodeCfg.Watch = watch[nodeCfg.Id]

		node, err := NewNode(nodeCfg, s.d, s.gw, s.air, s.energy, rnd)
		if err != nil {
			return nil, errors.Wrapf(err, "simulation %d", cfg.Id)
		}
		if nodeCfg.Watch {
			node.log = logger.GetNodeLogger(cfg.NodeLogDir, cfg.Id, node.Id)
			node.log.SetDisplayLevel(logger.TraceLevel)
			node.log.SetFileLevel(logger.TraceLevel)
		}
		s.nodes = append(s.nodes, node)
	}

	if cfg.PcapDir != "" {
		f, err := pcap.NewFile(getPcapFileName(cfg.PcapDir, cfg.Id), cfg.PcapFrameType)
		if err != nil {
			return nil, errors.Wrapf(err, "simulation %d", cfg.Id)
		}
		s.air.SetCapture(f)
	}
	if cfg.StatsLogDir != "" {
		s.stats = newStatsLog(cfg.StatsLogDir, cfg.Id, s.nodes, s.air)
		s.stats.init()
		s.d.AddTimeListener(s.stats)
	}
	return s, nil
}

// Run starts every node and runs the universe to the horizon. A universe runs once.
func (s *Simulation) Run() {
	logger.AssertFalse(s.ran, "simulation already ran")
	s.ran = true
	for _, node := range s.nodes {
		node.Run()
	}
	s.d.RunUntil(s.cfg.HorizonUs)
	s.energy.Finalize(s.d.CurTime)
	if s.hb != nil {
		s.hb.done()
	}
	if s.stats != nil {
		s.stats.stop()
	}
	s.air.CloseCapture()
	for _, node := range s.nodes {
		if node.log != nil {
			node.log.Close()
		}
	}
	logger.Debugf("simulation %d: nodes=%d payload=%d done at %d us, dispatcher %v, %d packets on air discarded",
		s.cfg.Id, len(s.nodes), s.cfg.PayloadSize, s.d.CurTime, s.d.GetStats(), s.air.InAir())
}

// GetSimulationData returns the summed node data, the gateway data and the air interface data,
// each named by the payload size.
func (s *Simulation) GetSimulationData() (node kpi.Series, gateway kpi.Series, air kpi.Series) {
	name := s.cfg.PayloadSize
	return SumNodeData(s.nodes, name), s.gw.GetSimulationData(name), s.air.GetSimulationData(name)
}

// WriteEnergyReport writes the per-node energy of the universe.
func (s *Simulation) WriteEnergyReport(w io.Writer) error {
	return s.energy.WriteEnergyByNodes(w, s.d.CurTime)
}

func (s *Simulation) Nodes() []*Node {
	return s.nodes
}

func (s *Simulation) Gateway() *Gateway {
	return s.gw
}

func (s *Simulation) AirInterface() *AirInterface {
	return s.air
}

func (s *Simulation) Dispatcher() *dispatcher.Dispatcher {
	return s.d
}

func (s *Simulation) GetEnergyAnalyser() *energy.EnergyAnalyser {
	return s.energy
}

func (s *Simulation) GetConfig() *Config {
	return &s.cfg
}
