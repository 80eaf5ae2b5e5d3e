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
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/kevinalini/LoRaEnergySim/energy"
	"github.com/kevinalini/LoRaEnergySim/lora"
	"github.com/kevinalini/LoRaEnergySim/pcap"
	"github.com/kevinalini/LoRaEnergySim/radiomodel"
	"github.com/kevinalini/LoRaEnergySim/simulation"
	. "github.com/kevinalini/LoRaEnergySim/types"
)

const (
	DefaultNodeCount  = 100
	DefaultReplicates = 1
)

// Config describes a sweep: every node count is simulated with every payload size, Replicates
// times each. It is not modified once a Driver was created from it.
type Config struct {
	NodeCounts         []int                        `yaml:"node_counts"`
	PayloadSizes       []int                        `yaml:"payload_sizes"`
	Replicates         int                          `yaml:"replicates"`
	CellSize           float64                      `yaml:"cell_size"`
	TransmissionRate   float64                      `yaml:"transmission_rate"` // bits per ms
	HorizonBits        float64                      `yaml:"horizon_bits"`
	ProcessTimeMs      float64                      `yaml:"process_time_ms"`
	Adr                bool                         `yaml:"adr"`
	Confirmed          bool                         `yaml:"confirmed_messages"`
	MaxRetransmissions int                          `yaml:"max_retransmissions"`
	DutyCycle          float64                      `yaml:"duty_cycle"`
	JitterMaxMs        float64                      `yaml:"jitter_max_ms"`
	Seed               int64                        `yaml:"seed"`
	Heartbeat          bool                         `yaml:"heartbeat"`
	LogLevel           string                       `yaml:"log_level"`
	WatchNodes         []NodeId                     `yaml:"watch_nodes"`
	NodeLogDir         string                       `yaml:"node_log_dir"`
	StatsLogDir        string                       `yaml:"stats_log_dir"`
	EnergyReportDir    string                       `yaml:"energy_report_dir"`
	PcapDir            string                       `yaml:"pcap_dir"`
	PcapFormat         string                       `yaml:"pcap_format"` // lorawan or loratap
	Energy             *energy.Profile              `yaml:"energy"`
	Radio              *radiomodel.RadioModelParams `yaml:"radio"`
	Gateway            *simulation.GatewayConfig    `yaml:"gateway"`
}

// DefaultConfig returns the reference experiment: 100 nodes, payloads 5..50 bytes in steps of 5,
// one replicate.
func DefaultConfig() *Config {
	payloads := make([]int, 0, 10)
	for p := 5; p <= 50; p += 5 {
		payloads = append(payloads, p)
	}
	return &Config{
		NodeCounts:         []int{DefaultNodeCount},
		PayloadSizes:       payloads,
		Replicates:         DefaultReplicates,
		CellSize:           simulation.DefaultCellSize,
		TransmissionRate:   simulation.DefaultTransmissionRate,
		HorizonBits:        simulation.DefaultHorizonBits,
		ProcessTimeMs:      simulation.DefaultProcessTimeMs,
		Adr:                true,
		Confirmed:          true,
		MaxRetransmissions: simulation.DefaultMaxRetransmissions,
		DutyCycle:          simulation.DefaultDutyCycle,
		JitterMaxMs:        simulation.DefaultJitterMaxMs,
		Heartbeat:          true,
		LogLevel:           "info",
		PcapFormat:         pcap.FrameTypeLoraTapStr,
		Energy:             energy.DefaultProfile(),
		Radio:              radiomodel.DefaultParams(),
		Gateway:            simulation.DefaultGatewayConfig(),
	}
}

// LoadConfigFile loads a YAML sweep file over the defaults. Environment overrides are applied
// after the file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config file")
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config file %s", path)
	}
	return cfg, nil
}

// ParseConfig parses YAML over the defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config")
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LORASIM_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
	if v := os.Getenv("LORASIM_REPLICATES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Replicates = n
		}
	}
	if v := os.Getenv("LORASIM_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func (cfg *Config) Validate() error {
	if len(cfg.NodeCounts) == 0 {
		return errors.Errorf("node_counts is empty")
	}
	seenNodes := map[int]bool{}
	for _, n := range cfg.NodeCounts {
		if n <= 0 {
			return errors.Errorf("node count must be positive: %d", n)
		}
		if seenNodes[n] {
			return errors.Errorf("duplicate node count: %d", n)
		}
		seenNodes[n] = true
	}
	if len(cfg.PayloadSizes) == 0 {
		return errors.Errorf("payload_sizes is empty")
	}
	seenPayloads := map[int]bool{}
	for _, p := range cfg.PayloadSizes {
		if p <= 0 {
			return errors.Errorf("payload size must be positive: %d", p)
		}
		if seenPayloads[p] {
			return errors.Errorf("duplicate payload size: %d", p)
		}
		seenPayloads[p] = true
	}
	if cfg.Replicates < 1 {
		return errors.Errorf("replicates must be at least 1: %d", cfg.Replicates)
	}
	if cfg.CellSize <= 0 {
		return errors.Errorf("cell_size must be positive: %v", cfg.CellSize)
	}
	if cfg.TransmissionRate <= 0 {
		return errors.Errorf("transmission_rate must be positive: %v", cfg.TransmissionRate)
	}
	if cfg.HorizonBits <= 0 {
		return errors.Errorf("horizon_bits must be positive: %v", cfg.HorizonBits)
	}
	if cfg.ProcessTimeMs <= 0 {
		return errors.Errorf("process_time_ms must be positive: %v", cfg.ProcessTimeMs)
	}
	if cfg.MaxRetransmissions < 0 {
		return errors.Errorf("max_retransmissions must not be negative: %d", cfg.MaxRetransmissions)
	}
	if cfg.DutyCycle <= 0 || cfg.DutyCycle > 1 {
		return errors.Errorf("duty_cycle must be in (0, 1]: %v", cfg.DutyCycle)
	}
	if cfg.PcapDir != "" {
		if tp := pcap.ParseFrameTypeStr(cfg.PcapFormat); tp == pcap.FrameTypeOff || tp == pcap.FrameTypeUnknown {
			return errors.Errorf("pcap_format must be lorawan or loratap: %q", cfg.PcapFormat)
		}
	}
	if cfg.Energy == nil {
		return errors.Errorf("energy profile is missing")
	}
	if err := cfg.Energy.Validate(lora.TxPowerCodes); err != nil {
		return errors.Wrapf(err, "energy profile")
	}
	if cfg.Radio == nil {
		return errors.Errorf("radio parameters are missing")
	}
	if err := cfg.Radio.Validate(); err != nil {
		return errors.Wrapf(err, "radio")
	}
	return nil
}

// HorizonMs returns the simulated time of every configuration.
func (cfg *Config) HorizonMs() float64 {
	return cfg.HorizonBits / cfg.TransmissionRate
}

// MaxNodeCount is the size of the location pool.
func (cfg *Config) MaxNodeCount() int {
	max := 0
	for _, n := range cfg.NodeCounts {
		if n > max {
			max = n
		}
	}
	return max
}
