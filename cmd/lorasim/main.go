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
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kevinalini/LoRaEnergySim/cli"
	"github.com/kevinalini/LoRaEnergySim/kpi"
	"github.com/kevinalini/LoRaEnergySim/logger"
	"github.com/kevinalini/LoRaEnergySim/progctx"
	"github.com/kevinalini/LoRaEnergySim/store"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lorasim",
		Short: "LoRa network energy simulation",
		Long: `lorasim simulates a single-gateway LoRa network for a sweep of node counts and
payload sizes, and reports per-node packet and energy statistics.

Results can be written to xlsx, csv and json files, stored in a result database,
and inspected in an interactive console.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("log", "", "Log level: trace, debug, info, warn, error or off")
	rootCmd.PersistentFlags().String("db", "", "Result database file")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newShowCmd(),
		newListCmd(),
		newDeleteCmd(),
	)
	return rootCmd
}

// setLogLevel applies the --log flag, falling back to def when the flag is not given.
func setLogLevel(cmd *cobra.Command, def string) error {
	level, _ := cmd.Flags().GetString("log")
	if level == "" {
		level = def
	}
	if level == "" {
		return nil
	}
	lv, err := logger.ParseLevelString(level)
	if err != nil {
		return err
	}
	logger.SetLevel(lv)
	return nil
}

// newProgCtx returns the program context of a command, cancelled by the usual signals.
func newProgCtx(cmd *cobra.Command) *progctx.ProgCtx {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx := progctx.New(parent)
	ctx.HandleSignals()
	return ctx
}

// openStore opens the database named by --db, or returns nil when none is given.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		return nil, nil
	}
	return store.Open(path)
}

// runConsole starts the results console and blocks until it exits.
func runConsole(ctx *progctx.ProgCtx, res *kpi.Results, st cli.ResultStore, history string) error {
	rt := cli.NewCmdRunner(ctx, res, st)
	opts := cli.DefaultCliOptions()
	opts.HistoryFile = history
	err := cli.Cli.Run(rt, opts)
	if err != nil {
		return errors.Wrapf(err, "console exit")
	}
	return nil
}
