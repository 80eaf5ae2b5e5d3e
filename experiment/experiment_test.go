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

package experiment

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinalini/LoRaEnergySim/kpi"
	"github.com/kevinalini/LoRaEnergySim/simulation"
	. "github.com/kevinalini/LoRaEnergySim/types"
)

// testConfig is the reference sweep with a horizon ten times shorter.
func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.HorizonBits = 5000
	cfg.Heartbeat = false
	cfg.Seed = 1
	return cfg
}

func runSweep(t *testing.T, cfg *Config) *kpi.Results {
	d, err := NewDriver(cfg)
	require.Nil(t, err)
	res, err := d.Run(context.Background())
	require.Nil(t, err)
	return res
}

func TestLocationPool(t *testing.T) {
	pool := NewLocationPool(50, 1000, rand.New(rand.NewSource(1)))
	assert.Equal(t, 50, pool.Len())

	before, err := pool.Take(50)
	require.Nil(t, err)
	for _, l := range before {
		assert.True(t, l.X >= 0 && l.X <= 1000 && l.Y >= 0 && l.Y <= 1000)
		assert.False(t, l.Indoor)
	}

	pool.Shuffle()
	after, err := pool.Take(50)
	require.Nil(t, err)
	assert.Equal(t, 50, pool.Len())
	assert.ElementsMatch(t, before, after)
	assert.NotEqual(t, before, after)

	first, err := pool.Take(10)
	require.Nil(t, err)
	assert.Equal(t, after[:10], first)
	first[0] = NewLocation(-1, -1, true)
	again, _ := pool.Take(1)
	assert.Equal(t, after[0], again[0])

	_, err = pool.Take(51)
	assert.NotNil(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Nil(t, cfg.Validate())
	assert.Equal(t, []int{5, 10, 15, 20, 25, 30, 35, 40, 45, 50}, cfg.PayloadSizes)
	assert.Equal(t, []int{100}, cfg.NodeCounts)
	assert.InDelta(t, 2.5e9, cfg.HorizonMs(), 1e-3)
	assert.Equal(t, 146.5, cfg.Energy.TxPowerMw[14])
}

func TestConfigValidation(t *testing.T) {
	for name, mutate := range map[string]func(cfg *Config){
		"no node counts":    func(cfg *Config) { cfg.NodeCounts = nil },
		"zero nodes":        func(cfg *Config) { cfg.NodeCounts = []int{10, 0} },
		"no payloads":       func(cfg *Config) { cfg.PayloadSizes = nil },
		"negative payload":  func(cfg *Config) { cfg.PayloadSizes = []int{-5} },
		"duplicate nodes":   func(cfg *Config) { cfg.NodeCounts = []int{10, 20, 10} },
		"duplicate payload": func(cfg *Config) { cfg.PayloadSizes = []int{5, 10, 5} },
		"no replicates":     func(cfg *Config) { cfg.Replicates = 0 },
		"cell size":         func(cfg *Config) { cfg.CellSize = 0 },
		"rate":              func(cfg *Config) { cfg.TransmissionRate = 0 },
		"horizon":           func(cfg *Config) { cfg.HorizonBits = -1 },
		"process time":      func(cfg *Config) { cfg.ProcessTimeMs = 0 },
		"duty cycle":        func(cfg *Config) { cfg.DutyCycle = 0 },
		"missing tx power":  func(cfg *Config) { delete(cfg.Energy.TxPowerMw, 8) },
		"missing energy":    func(cfg *Config) { cfg.Energy = nil },
		"negative exponent": func(cfg *Config) { cfg.Radio.PathLossExponent = -2 },
	} {
		cfg := DefaultConfig()
		mutate(cfg)
		assert.NotNil(t, cfg.Validate(), name)
		_, err := NewDriver(cfg)
		assert.NotNil(t, err, name)
	}
}

func TestLoadConfigFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "sweep.yaml")
	require.Nil(t, os.WriteFile(fn, []byte(`
node_counts: [100, 500]
payload_sizes: [10, 20]
replicates: 3
confirmed_messages: false
seed: 42
energy:
  tx_power_mw:
    14: 150
radio:
  shadow_fading_sigma_db: 0
`), 0644))

	cfg, err := LoadConfigFile(fn)
	require.Nil(t, err)
	require.Nil(t, cfg.Validate())
	assert.Equal(t, []int{100, 500}, cfg.NodeCounts)
	assert.Equal(t, []int{10, 20}, cfg.PayloadSizes)
	assert.Equal(t, 3, cfg.Replicates)
	assert.False(t, cfg.Confirmed)
	assert.True(t, cfg.Adr)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 150.0, cfg.Energy.TxPowerMw[14])
	assert.Equal(t, 91.8, cfg.Energy.TxPowerMw[2])
	assert.Equal(t, 15.0, cfg.Energy.ProcPowerMw)
	assert.Equal(t, DbValue(0), cfg.Radio.ShadowFadingSigmaDb)
	assert.Equal(t, 2.32, cfg.Radio.PathLossExponent)
	assert.Equal(t, 500, cfg.MaxNodeCount())

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(t, err)
	_, err = ParseConfig([]byte("node_counts: {"))
	assert.NotNil(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LORASIM_SEED", "99")
	t.Setenv("LORASIM_REPLICATES", "4")
	cfg, err := ParseConfig([]byte("seed: 1\n"))
	require.Nil(t, err)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, 4, cfg.Replicates)
}

func TestReferenceSweep(t *testing.T) {
	cfg := testConfig()
	var runs []Run
	d, err := NewDriver(cfg)
	require.Nil(t, err)
	d.Observe(func(run Run, sim *simulation.Simulation) {
		assert.Equal(t, run.NodeCount, len(sim.Nodes()))
		runs = append(runs, run)
	})
	res, err := d.Run(context.Background())
	require.Nil(t, err)
	require.Len(t, runs, 10)
	assert.Equal(t, 9, runs[9].Index)

	nr := res.Get(100)
	require.NotNil(t, nr)
	for _, table := range nr.Tables() {
		assert.Equal(t, cfg.PayloadSizes, table.PayloadSizes())
		for _, row := range table.Rows {
			for i, v := range row.Values {
				assert.True(t, v >= 0, "%s %d %s", table.Name, row.PayloadSize, table.Columns[i])
			}
		}
	}
	for _, payload := range cfg.PayloadSizes {
		unique, _ := nr.Node.Get(payload, kpi.UniquePackets)
		uniqueBytes, _ := nr.Node.Get(payload, kpi.UniqueBytes)
		collided, _ := nr.Node.Get(payload, kpi.CollidedPackets)
		total, _ := nr.Node.Get(payload, kpi.TotalPackets)
		transmitted, _ := nr.Air.Get(payload, kpi.TransmittedPackets)
		assert.True(t, unique > 0)
		assert.Equal(t, unique*float64(payload), uniqueBytes)
		assert.InDelta(t, total, unique+collided, 1e-9)
		assert.InDelta(t, total, transmitted, 1e-9)
	}

	assert.Equal(t, int64(1), res.Info.Seed)
	assert.NotEmpty(t, res.Info.SweepId)
	assert.Equal(t, cfg.HorizonMs(), res.Info.HorizonMs)
}

func TestUnconfirmedSweep(t *testing.T) {
	cfg := testConfig()
	cfg.NodeCounts = []int{50}
	cfg.PayloadSizes = []int{5, 25}
	cfg.Confirmed = false
	res := runSweep(t, cfg)

	nr := res.Get(50)
	for _, v := range nr.Node.Column(kpi.RetransmittedPackets) {
		assert.Equal(t, 0.0, v)
	}
	for _, v := range nr.Node.Column(kpi.NoDLReceived) {
		assert.Equal(t, 0.0, v)
	}
}

func TestSweepIsReproducible(t *testing.T) {
	cfg := testConfig()
	cfg.NodeCounts = []int{20, 40}
	cfg.PayloadSizes = []int{10, 30}
	cfg.Replicates = 2
	r1 := runSweep(t, cfg)
	r2 := runSweep(t, cfg)
	assert.Equal(t, r1.Results, r2.Results)
	assert.NotEqual(t, r1.Info.SweepId, r2.Info.SweepId)

	cfg.Seed = 2
	r3 := runSweep(t, cfg)
	assert.NotEqual(t, r1.Results, r3.Results)
}

func TestReplicatesAreAveraged(t *testing.T) {
	cfg := testConfig()
	cfg.NodeCounts = []int{30}
	cfg.PayloadSizes = []int{10}
	cfg.Replicates = 3
	var perRun []float64
	d, err := NewDriver(cfg)
	require.Nil(t, err)
	d.Observe(func(run Run, sim *simulation.Simulation) {
		node, _, _ := sim.GetSimulationData()
		perRun = append(perRun, node.Get(kpi.TotalPackets))
	})
	res, err := d.Run(context.Background())
	require.Nil(t, err)
	require.Len(t, perRun, 3)

	total, ok := res.Get(30).Node.Get(10, kpi.TotalPackets)
	require.True(t, ok)
	assert.InDelta(t, (perRun[0]+perRun[1]+perRun[2])/(30*3), total, 1e-9)
	assert.Len(t, res.Get(30).Node.Rows, 1)
}

func TestHeartbeatOutput(t *testing.T) {
	cfg := testConfig()
	cfg.NodeCounts = []int{10}
	cfg.PayloadSizes = []int{5, 10}
	quiet := runSweep(t, cfg)

	cfg.Heartbeat = true
	d, err := NewDriver(cfg)
	require.Nil(t, err)
	out := &countingWriter{}
	d.SetHeartbeatOutput(out)
	loud, err := d.Run(context.Background())
	require.Nil(t, err)
	assert.Equal(t, 20, out.dots)
	assert.Equal(t, quiet.Results, loud.Results)
}

type countingWriter struct {
	dots int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	for _, b := range p {
		if b == '.' {
			w.dots++
		}
	}
	return len(p), nil
}

func TestCancelledSweep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d, err := NewDriver(testConfig())
	require.Nil(t, err)
	_, err = d.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()
	cfg := testConfig()
	cfg.NodeCounts = []int{10}
	d, err = NewDriver(cfg)
	require.Nil(t, err)
	count := 0
	d.Observe(func(run Run, sim *simulation.Simulation) {
		count++
		if run.Index == 2 {
			cancel()
		}
	})
	_, err = d.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, count)
}

func TestEnergyReports(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "energy")
	cfg := testConfig()
	cfg.NodeCounts = []int{5}
	cfg.PayloadSizes = []int{5, 10}
	cfg.EnergyReportDir = dir
	runSweep(t, cfg)

	for _, name := range []string{"energy_5_5_0.txt", "energy_5_10_0.txt"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.Nil(t, err)
		assert.Contains(t, string(data), "Sleep (mJ)")
	}
}

func TestPacketCaptures(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pcap")
	cfg := testConfig()
	cfg.NodeCounts = []int{5}
	cfg.PayloadSizes = []int{5, 10}
	cfg.PcapDir = dir
	runSweep(t, cfg)

	for _, name := range []string{"0_air.pcap", "1_air.pcap"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.Nil(t, err)
		assert.True(t, info.Size() >= 24)
	}

	cfg.PcapFormat = "pcapng"
	assert.NotNil(t, cfg.Validate())
}
