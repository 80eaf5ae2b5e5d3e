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

package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kevinalini/LoRaEnergySim/experiment"
	"github.com/kevinalini/LoRaEnergySim/kpi"
	"github.com/kevinalini/LoRaEnergySim/logger"
	"github.com/kevinalini/LoRaEnergySim/visualize"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation sweep",
		Long: `Run simulates every node count with every payload size, averages the replicates,
and prints the result tables and a comparison chart.

Without --config the reference experiment is run: 100 nodes, payloads of 5 to 50
bytes, one replicate. Flags override the config file.

Example:
  lorasim run --nodes 100,200 --replicates 5 --seed 42 --xlsx results.xlsx --db results.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunConfig(cmd)
			if err != nil {
				return err
			}
			if err := setLogLevel(cmd, cfg.LogLevel); err != nil {
				return err
			}

			driver, err := experiment.NewDriver(cfg)
			if err != nil {
				return err
			}
			if cfg.Heartbeat {
				driver.SetHeartbeatOutput(cmd.OutOrStdout())
			}

			ctx := newProgCtx(cmd)
			defer ctx.Wait()
			defer ctx.Cancel("done")

			res, err := driver.Run(ctx)
			if err != nil {
				return err
			}
			if err := writeResults(cmd, res); err != nil {
				return err
			}

			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
				if err := st.SaveResults(ctx, res); err != nil {
					return err
				}
				logger.Infof("sweep %s stored in %s", res.Info.SweepId, st.Path())
			}

			if console, _ := cmd.Flags().GetBool("console"); console {
				history, _ := cmd.Flags().GetString("history")
				if st != nil {
					return runConsole(ctx, res, st, history)
				}
				return runConsole(ctx, res, nil, history)
			}
			return nil
		},
	}

	cmd.Flags().StringP("config", "c", "", "Sweep config file (YAML)")
	cmd.Flags().Int64("seed", 0, "Root seed; 0 seeds from the clock")
	cmd.Flags().IntSlice("nodes", nil, "Node counts, e.g. 100,200")
	cmd.Flags().IntSlice("payloads", nil, "Payload sizes in bytes, e.g. 5,10,20")
	cmd.Flags().Int("replicates", 0, "Replicates per configuration")
	cmd.Flags().Bool("no-adr", false, "Disable adaptive data rate")
	cmd.Flags().Bool("unconfirmed", false, "Send unconfirmed uplinks")
	cmd.Flags().Bool("no-heartbeat", false, "Do not print the progress heartbeat")
	cmd.Flags().String("xlsx", "", "Write the results workbook to this file")
	cmd.Flags().String("csv", "", "Write csv results into this directory")
	cmd.Flags().String("json", "", "Write the results as JSON to this file")
	cmd.Flags().String("pcap-dir", "", "Capture the uplinks of every run into this directory")
	cmd.Flags().Bool("no-chart", false, "Do not print the comparison chart")
	cmd.Flags().Bool("console", false, "Open the results console after the sweep")
	cmd.Flags().String("history", "", "Console history file")

	return cmd
}

// loadRunConfig reads the config file, or the defaults, and applies the command line flags.
func loadRunConfig(cmd *cobra.Command) (*experiment.Config, error) {
	var cfg *experiment.Config
	var err error
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = experiment.LoadConfigFile(path)
	} else {
		cfg, err = experiment.ParseConfig(nil)
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("nodes") {
		cfg.NodeCounts, _ = flags.GetIntSlice("nodes")
	}
	if flags.Changed("payloads") {
		cfg.PayloadSizes, _ = flags.GetIntSlice("payloads")
	}
	if flags.Changed("replicates") {
		cfg.Replicates, _ = flags.GetInt("replicates")
	}
	if v, _ := flags.GetBool("no-adr"); v {
		cfg.Adr = false
	}
	if v, _ := flags.GetBool("unconfirmed"); v {
		cfg.Confirmed = false
	}
	if flags.Changed("pcap-dir") {
		cfg.PcapDir, _ = flags.GetString("pcap-dir")
	}
	if v, _ := flags.GetBool("no-heartbeat"); v {
		cfg.Heartbeat = false
	}
	return cfg, nil
}

// writeResults prints the chart and writes the requested export files.
func writeResults(cmd *cobra.Command, res *kpi.Results) error {
	if noChart, _ := cmd.Flags().GetBool("no-chart"); !noChart {
		if err := visualize.RenderResults(cmd.OutOrStdout(), res); err != nil {
			return errors.Wrapf(err, "render chart")
		}
	}
	if fn, _ := cmd.Flags().GetString("xlsx"); fn != "" {
		if err := res.SaveXlsx(fn); err != nil {
			return err
		}
		logger.Infof("results written to %s", fn)
	}
	if dir, _ := cmd.Flags().GetString("csv"); dir != "" {
		if err := res.SaveCSV(dir); err != nil {
			return err
		}
		logger.Infof("results written to %s", dir)
	}
	if fn, _ := cmd.Flags().GetString("json"); fn != "" {
		if err := res.SaveJSON(fn); err != nil {
			return err
		}
		logger.Infof("results written to %s", fn)
	}
	return nil
}
