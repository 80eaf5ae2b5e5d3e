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
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinalini/LoRaEnergySim/kpi"
	"github.com/kevinalini/LoRaEnergySim/logger"
	"github.com/kevinalini/LoRaEnergySim/lora"
	"github.com/kevinalini/LoRaEnergySim/pcap"
	"github.com/kevinalini/LoRaEnergySim/prng"
	. "github.com/kevinalini/LoRaEnergySim/types"
)

// testConfig returns a universe with a sleep time of 1 s per payload byte.
func testConfig(nodes int, payload int, seed int64) *Config {
	cfg := DefaultConfig()
	cfg.PayloadSize = payload
	cfg.TransmissionRate = 8e-3
	cfg.HorizonUs = 2000 * Second
	src := prng.New(seed)
	for i := 0; i < nodes; i++ {
		cfg.Locations = append(cfg.Locations, NewRandomLocation(src.Locations(), 0, cfg.CellSize, false))
	}
	cfg.Seeds = src.NewUniverseSeeds()
	return cfg
}

func runSimulation(t *testing.T, cfg *Config) (*Simulation, kpi.Series, kpi.Series, kpi.Series) {
	sim, err := NewSimulation(cfg)
	require.Nil(t, err)
	sim.Run()
	node, gw, air := sim.GetSimulationData()
	return sim, node, gw, air
}

func TestPacketConservation(t *testing.T) {
	sim, node, gw, air := runSimulation(t, testConfig(30, 10, 1))

	total := node.Get(kpi.TotalPackets)
	assert.True(t, total > 0)
	assert.Equal(t, total, node.Get(kpi.UniquePackets)+node.Get(kpi.CollidedPackets))
	assert.Equal(t, total, air.Get(kpi.TransmittedPackets))
	assert.Equal(t, node.Get(kpi.CollidedPackets), air.Get(kpi.AirCollidedPackets))
	assert.Equal(t, node.Get(kpi.UniquePackets), gw.Get(kpi.PacketsReceived))
	assert.Equal(t, total*10, node.Get(kpi.TotalBytes))

	for _, s := range []kpi.Series{node, gw, air} {
		assert.Equal(t, 10, s.Name)
		for i, v := range s.Values {
			assert.True(t, v >= 0, "%s", s.Columns[i])
		}
	}

	var sum int
	for _, n := range sim.Nodes() {
		c := n.Counters()
		assert.Equal(t, c.TotalPackets, c.UniquePackets+c.CollidedPackets)
		assert.True(t, c.RetransmittedPackets <= c.NoDLReceived)
		sum += c.TotalPackets
	}
	assert.Equal(t, float64(sum), total)
}

func TestUnconfirmedMessagesNeverWaitForAck(t *testing.T) {
	cfg := testConfig(30, 10, 2)
	cfg.Confirmed = false
	_, node, gw, _ := runSimulation(t, cfg)

	assert.True(t, node.Get(kpi.TotalPackets) > 0)
	assert.Equal(t, 0.0, node.Get(kpi.RetransmittedPackets))
	assert.Equal(t, 0.0, node.Get(kpi.NoDLReceived))
	assert.Equal(t, 0.0, node.Get(kpi.RxEnergy))
	assert.Equal(t, 0.0, gw.Get(kpi.DLPackets))
}

func TestSameSeedSameResults(t *testing.T) {
	_, n1, g1, a1 := runSimulation(t, testConfig(20, 15, 3))
	_, n2, g2, a2 := runSimulation(t, testConfig(20, 15, 3))
	assert.Equal(t, n1, n2)
	assert.Equal(t, g1, g2)
	assert.Equal(t, a1, a2)

	_, n3, _, _ := runSimulation(t, testConfig(20, 15, 4))
	assert.NotEqual(t, n1.Values, n3.Values)
}

func TestHeartbeatDoesNotChangeResults(t *testing.T) {
	_, n1, g1, a1 := runSimulation(t, testConfig(20, 10, 5))

	cfg := testConfig(20, 10, 5)
	var buf bytes.Buffer
	cfg.Heartbeat = &buf
	_, n2, g2, a2 := runSimulation(t, cfg)

	assert.Equal(t, n1, n2)
	assert.Equal(t, g1, g2)
	assert.Equal(t, a1, a2)
	assert.Equal(t, 10, strings.Count(buf.String(), "."))
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestSleepTime(t *testing.T) {
	assert.InDelta(t, 2e6, SleepTimeMs(5, 0.02e-3), 1e-6)
	prev := 0.0
	for payload := 5; payload <= 50; payload += 5 {
		st := SleepTimeMs(payload, DefaultTransmissionRate)
		assert.InDelta(t, 8*float64(payload)/DefaultTransmissionRate, st, 1e-6)
		assert.True(t, st > prev)
		prev = st
	}

	cfg := testConfig(5, 25, 6)
	sim, err := NewSimulation(cfg)
	require.Nil(t, err)
	for _, n := range sim.Nodes() {
		assert.Equal(t, 8*25/8e-3, n.Config().SleepTimeMs)
	}
}

func TestInitialRadioSettings(t *testing.T) {
	sim, err := NewSimulation(testConfig(200, 10, 7))
	require.Nil(t, err)
	sfs := map[int]int{}
	freqs := map[int]int{}
	for i, n := range sim.Nodes() {
		assert.Equal(t, i+1, n.Id)
		p := n.Lora()
		sfs[p.SF]++
		freqs[p.Freq]++
		assert.Equal(t, lora.MaxTP, p.TP)
		assert.Equal(t, 125, p.BW)
	}
	assert.Equal(t, len(lora.SpreadingFactors), len(sfs))
	assert.Equal(t, len(lora.DefaultChannels), len(freqs))
	assert.Equal(t, NewLocation(500, 500, false), sim.Gateway().Location)
}

func TestRetransmissionBound(t *testing.T) {
	cfg := testConfig(1, 10, 8)
	cfg.Locations[0] = NewLocation(cfg.CellSize/2, 1e6, false)
	cfg.Radio.ShadowFadingSigmaDb = 0
	cfg.HorizonUs = 20000 * Second
	sim, node, gw, _ := runSimulation(t, cfg)

	n := sim.Nodes()[0]
	c := n.Counters()
	total := node.Get(kpi.TotalPackets)
	assert.True(t, total > 9)
	assert.Equal(t, total, gw.Get(kpi.WeakPackets))
	assert.Equal(t, total, node.Get(kpi.UniquePackets))
	assert.True(t, total-node.Get(kpi.NoDLReceived) <= 1)

	giveUps := c.NoDLReceived - c.RetransmittedPackets
	assert.True(t, giveUps == n.frameCounter || giveUps == n.frameCounter-1)
	assert.True(t, c.RetransmittedPackets <= DefaultMaxRetransmissions*n.frameCounter)
	assert.True(t, c.RetransmittedPackets >= DefaultMaxRetransmissions*giveUps)
}

func TestAdrLowersSettingsOfNearbyNode(t *testing.T) {
	cfg := testConfig(1, 10, 9)
	cfg.Locations[0] = NewLocation(cfg.CellSize/2+10, cfg.CellSize/2, false)
	cfg.Radio.ShadowFadingSigmaDb = 0
	cfg.HorizonUs = 20000 * Second
	sim, node, gw, _ := runSimulation(t, cfg)

	n := sim.Nodes()[0]
	assert.Equal(t, 7, n.Lora().SF)
	assert.Equal(t, lora.MinTP, n.Lora().TP)
	assert.True(t, node.Get(kpi.AdrChanges) >= 1)
	// a command sent just before the horizon may not be applied
	pending := gw.Get(kpi.AdrCommands) - node.Get(kpi.AdrChanges)
	assert.True(t, pending == 0 || pending == 1)
	assert.Equal(t, 0.0, node.Get(kpi.NoDLReceived))
}

func TestAdrDisabledKeepsSettings(t *testing.T) {
	cfg := testConfig(1, 10, 9)
	cfg.Locations[0] = NewLocation(cfg.CellSize/2+10, cfg.CellSize/2, false)
	cfg.Adr = false
	cfg.HorizonUs = 20000 * Second
	sim, node, gw, _ := runSimulation(t, cfg)

	assert.Equal(t, lora.MaxTP, sim.Nodes()[0].Lora().TP)
	assert.Equal(t, 0.0, node.Get(kpi.AdrChanges))
	assert.Equal(t, 0.0, gw.Get(kpi.AdrCommands))
}

func TestEnergyAccounting(t *testing.T) {
	sim, node, _, _ := runSimulation(t, testConfig(10, 20, 10))

	parts := node.Get(kpi.SleepEnergy) + node.Get(kpi.ProcEnergy) + node.Get(kpi.TxEnergy) + node.Get(kpi.RxEnergy)
	assert.InDelta(t, parts, node.Get(kpi.TotalEnergy), 1e-6)
	assert.InDelta(t, node.Get(kpi.TxEnergy)+node.Get(kpi.RxEnergy), node.Get(kpi.TxRxEnergy), 1e-6)
	assert.True(t, node.Get(kpi.SleepEnergy) > 0)
	assert.True(t, node.Get(kpi.TxEnergy) > 0)
	assert.True(t, node.Get(kpi.RxEnergy) > 0)

	for _, n := range sim.Nodes() {
		status := n.Energy().GetRadioStatus()
		assert.Equal(t, uint64(2000*Second), status.SpentSlp+status.SpentPrc+status.SpentTx+status.SpentRx)
	}

	var buf bytes.Buffer
	require.Nil(t, sim.WriteEnergyReport(&buf))
	assert.Contains(t, buf.String(), "nodes=10 payload=20")
}

func TestDutyCycleWait(t *testing.T) {
	cfg := testConfig(10, 5, 11)
	cfg.JitterMaxMs = 0
	_, node, _, _ := runSimulation(t, cfg)
	// a 5 s sleep is shorter than 99 airtimes at SF8 and above
	assert.True(t, node.Get(kpi.WaitTimeDC) > 0)

	cfg = testConfig(10, 5, 11)
	cfg.JitterMaxMs = 0
	cfg.DutyCycle = 1
	_, node, _, _ = runSimulation(t, cfg)
	assert.Equal(t, 0.0, node.Get(kpi.WaitTimeDC))
}

func TestWatchedNodeLogFile(t *testing.T) {
	defer logger.CloseNodeLoggers()
	dir := t.TempDir()
	cfg := testConfig(3, 10, 12)
	cfg.Id = 4
	cfg.HorizonUs = 100 * Second
	cfg.WatchNodes = []NodeId{2}
	cfg.NodeLogDir = dir
	runSimulation(t, cfg)

	data, err := os.ReadFile(filepath.Join(dir, "4_2.log"))
	require.Nil(t, err)
	assert.Contains(t, string(data), "TRANSMIT")
	_, err = os.Stat(filepath.Join(dir, "4_1.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestInvalidConfig(t *testing.T) {
	cfg := testConfig(0, 10, 1)
	_, err := NewSimulation(cfg)
	assert.NotNil(t, err)

	cfg = testConfig(2, 10, 1)
	cfg.ProcessTimeMs = 0
	_, err = NewSimulation(cfg)
	assert.NotNil(t, err)

	cfg = testConfig(2, 10, 1)
	delete(cfg.Energy.TxPowerMw, 11)
	_, err = NewSimulation(cfg)
	assert.NotNil(t, err)
}

func TestRunTwicePanics(t *testing.T) {
	sim, _, _, _ := runSimulation(t, testConfig(2, 10, 13))
	assert.Panics(t, func() {
		sim.Run()
	})
}

func TestStatsLog(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(10, 10, 14)
	cfg.Id = 3
	cfg.HorizonUs = 200 * Second
	cfg.StatsLogDir = dir
	_, node, _, _ := runSimulation(t, cfg)

	data, err := os.ReadFile(filepath.Join(dir, "3_stats.csv"))
	require.Nil(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "timeSec,nNodes,nSleep,nPrepare,nWaitDC,nTransmit,nWaitAck,nInAir", lines[0])
	require.True(t, len(lines) > 3)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[1]), "0.000000,   10,   10,"))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "200.000000,   10,"))

	transmitting := 0
	for _, l := range lines[1:] {
		fields := strings.Split(l, ",")
		require.Len(t, fields, 8)
		if strings.TrimSpace(fields[5]) != "0" {
			transmitting++
		}
	}
	assert.True(t, transmitting > 0)
	assert.True(t, node.Get(kpi.TotalPackets) > 0)
}

func TestPacketCapture(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(10, 10, 15)
	cfg.Id = 4
	cfg.HorizonUs = 300 * Second
	cfg.PcapDir = dir
	cfg.PcapFrameType = pcap.FrameTypeLoraTap
	_, _, _, air := runSimulation(t, cfg)

	data, err := os.ReadFile(filepath.Join(dir, "4_air.pcap"))
	require.Nil(t, err)
	require.True(t, len(data) > 24)

	frames := 0
	var lastTs uint64
	for off := 24; off < len(data); {
		require.True(t, off+16 <= len(data))
		ts := uint64(binary.LittleEndian.Uint32(data[off:]))*1000000 + uint64(binary.LittleEndian.Uint32(data[off+4:]))
		assert.True(t, ts >= lastTs)
		lastTs = ts
		plen := int(binary.LittleEndian.Uint32(data[off+8:]))
		assert.Equal(t, 15+pcap.UplinkOverhead+10, plen)
		sf := data[off+16+9]
		assert.True(t, sf >= lora.MinSF && sf <= lora.MaxSF)
		off += 16 + plen
		frames++
	}
	assert.True(t, frames > 0)
	assert.True(t, float64(frames) >= air.Get(kpi.TransmittedPackets))

	cfg = testConfig(2, 10, 15)
	cfg.PcapDir = dir
	_, err = NewSimulation(cfg)
	assert.NotNil(t, err)
}
