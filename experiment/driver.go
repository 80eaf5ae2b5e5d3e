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

// Package experiment runs a sweep: every configuration (node count, payload size, replicate) is
// simulated in a fresh universe, and the normalized results are collected per node count.
package experiment

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kevinalini/LoRaEnergySim/kpi"
	"github.com/kevinalini/LoRaEnergySim/logger"
	"github.com/kevinalini/LoRaEnergySim/pcap"
	"github.com/kevinalini/LoRaEnergySim/prng"
	"github.com/kevinalini/LoRaEnergySim/simulation"
	. "github.com/kevinalini/LoRaEnergySim/types"
)

// Run identifies one configuration of a sweep.
type Run struct {
	Index       int
	NodeCount   int
	PayloadSize int
	Replicate   int
}

func (r Run) String() string {
	return fmt.Sprintf("run %d (nodes=%d payload=%d replicate=%d)", r.Index, r.NodeCount, r.PayloadSize, r.Replicate)
}

// Observer is called after every completed configuration.
type Observer func(run Run, sim *simulation.Simulation)

type Driver struct {
	cfg       Config
	heartbeat io.Writer
	observers []Observer
}

// NewDriver validates cfg and creates a driver for it. The heartbeat, if enabled, goes to stdout.
func NewDriver(cfg *Config) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Driver{
		cfg: *cfg,
	}
	if cfg.Heartbeat {
		d.heartbeat = os.Stdout
	}
	return d, nil
}

// SetHeartbeatOutput redirects the heartbeat; nil disables it.
func (d *Driver) SetHeartbeatOutput(w io.Writer) {
	d.heartbeat = w
}

func (d *Driver) Observe(o Observer) {
	d.observers = append(d.observers, o)
}

func (d *Driver) Config() *Config {
	return &d.cfg
}

// Run executes all configurations in order. The context is checked between configurations; the
// first error aborts the sweep.
func (d *Driver) Run(ctx context.Context) (*kpi.Results, error) {
	cfg := &d.cfg
	src := prng.New(cfg.Seed)
	pool := NewLocationPool(cfg.MaxNodeCount(), cfg.CellSize, src.Locations())
	agg := kpi.NewAggregator(cfg.Replicates)
	info := d.sweepInfo(src.RootSeed())
	logger.Infof("sweep %s: seed %d, %d node counts × %d payload sizes × %d replicates", info.SweepId,
		info.Seed, len(cfg.NodeCounts), len(cfg.PayloadSizes), cfg.Replicates)

	for _, dir := range []string{cfg.EnergyReportDir, cfg.NodeLogDir, cfg.StatsLogDir, cfg.PcapDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "create output directory %s", dir)
		}
	}

	index := 0
	for _, nodeCount := range cfg.NodeCounts {
		for _, payload := range cfg.PayloadSizes {
			for r := 0; r < cfg.Replicates; r++ {
				if err := ctx.Err(); err != nil {
					return nil, errors.Wrapf(err, "sweep %s cancelled", info.SweepId)
				}
				run := Run{Index: index, NodeCount: nodeCount, PayloadSize: payload, Replicate: r}
				if err := d.runOne(run, pool, src, agg); err != nil {
					return nil, errors.Wrapf(err, "%v", run)
				}
				index++
			}
		}

		nr, err := agg.Finalize(nodeCount)
		if err != nil {
			return nil, err
		}
		d.logResult(nr)
	}

	res := agg.Results()
	res.Info = info
	return res, nil
}

func (d *Driver) runOne(run Run, pool *LocationPool, src *prng.Source, agg *kpi.Aggregator) error {
	cfg := &d.cfg
	pool.Shuffle()
	locations, err := pool.Take(run.NodeCount)
	if err != nil {
		return err
	}

	sim, err := simulation.NewSimulation(d.simulationConfig(run, locations, src.NewUniverseSeeds()))
	if err != nil {
		return err
	}
	logger.Infof("%v: running simulator for %v", run, time.Duration(cfg.HorizonMs()*float64(time.Millisecond)))
	sim.Run()
	logger.Infof("%v: simulator is done", run)

	node, gateway, air := sim.GetSimulationData()
	if err := agg.Add(run.NodeCount, node, gateway, air); err != nil {
		return err
	}
	if cfg.EnergyReportDir != "" {
		if err := writeEnergyReport(sim, filepath.Join(cfg.EnergyReportDir,
			fmt.Sprintf("energy_%d_%d_%d.txt", run.NodeCount, run.PayloadSize, run.Replicate))); err != nil {
			return err
		}
	}
	for _, o := range d.observers {
		o(run, sim)
	}
	return nil
}

func (d *Driver) simulationConfig(run Run, locations []Location, seeds prng.UniverseSeeds) *simulation.Config {
	cfg := &d.cfg
	simCfg := simulation.DefaultConfig()
	simCfg.Id = run.Index
	simCfg.PayloadSize = run.PayloadSize
	simCfg.HorizonUs = MsToUs(cfg.HorizonMs())
	simCfg.TransmissionRate = cfg.TransmissionRate
	simCfg.ProcessTimeMs = cfg.ProcessTimeMs
	simCfg.Adr = cfg.Adr
	simCfg.Confirmed = cfg.Confirmed
	simCfg.MaxRetransmissions = cfg.MaxRetransmissions
	simCfg.DutyCycle = cfg.DutyCycle
	simCfg.JitterMaxMs = cfg.JitterMaxMs
	simCfg.CellSize = cfg.CellSize
	simCfg.Locations = locations
	simCfg.Energy = cfg.Energy
	simCfg.Radio = cfg.Radio
	if cfg.Gateway != nil {
		simCfg.Gateway = cfg.Gateway
	}
	simCfg.Seeds = seeds
	simCfg.Heartbeat = d.heartbeat
	simCfg.WatchNodes = cfg.WatchNodes
	simCfg.NodeLogDir = cfg.NodeLogDir
	simCfg.StatsLogDir = cfg.StatsLogDir
	simCfg.PcapDir = cfg.PcapDir
	simCfg.PcapFrameType = pcap.ParseFrameTypeStr(cfg.PcapFormat)
	return simCfg
}

func (d *Driver) sweepInfo(seed int64) kpi.SweepInfo {
	cfg := &d.cfg
	return kpi.SweepInfo{
		SweepId:          uuid.NewString(),
		Created:          time.Now().UTC().Format(time.RFC3339),
		Seed:             seed,
		NodeCounts:       append([]int(nil), cfg.NodeCounts...),
		PayloadSizes:     append([]int(nil), cfg.PayloadSizes...),
		Replicates:       cfg.Replicates,
		CellSize:         cfg.CellSize,
		TransmissionRate: cfg.TransmissionRate,
		HorizonMs:        cfg.HorizonMs(),
		Adr:              cfg.Adr,
		Confirmed:        cfg.Confirmed,
	}
}

func (d *Driver) logResult(nr *kpi.NodeCountResult) {
	cfg := &d.cfg
	for _, t := range nr.Tables() {
		logger.Infof("%d nodes:\n%s", nr.NodeCount, t)
	}
	logger.Infof("%d nodes in network", nr.NodeCount)
	logger.Infof("%v transmission rate", cfg.TransmissionRate)
	logger.Infof("%v ADR", cfg.Adr)
	logger.Infof("%v confirmed msgs", cfg.Confirmed)
	logger.Infof("%vm cell size", cfg.CellSize)
}

func writeEnergyReport(sim *simulation.Simulation, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create energy report")
	}
	if err := sim.WriteEnergyReport(f); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "write energy report %s", path)
	}
	return f.Close()
}
