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
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kevinalini/LoRaEnergySim/kpi"
	"github.com/kevinalini/LoRaEnergySim/visualize"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the results of a stored sweep",
		Long: `Show prints the result tables of a sweep from the result database, or from a
JSON results file. Without --sweep the latest stored sweep is shown.

Example:
  lorasim show --db results.db --sweep 3f1c5a52-63a4-4a1b-9e0a-5d1d0c2b6a10 --console`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setLogLevel(cmd, ""); err != nil {
				return err
			}
			ctx := newProgCtx(cmd)
			defer ctx.Wait()
			defer ctx.Cancel("done")

			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
			}
			var res *kpi.Results
			if fn, _ := cmd.Flags().GetString("file"); fn != "" {
				res, err = kpi.LoadJSON(fn)
			} else if st != nil {
				id, _ := cmd.Flags().GetString("sweep")
				res, err = st.LoadResults(ctx, id)
			} else {
				err = errors.Errorf("either --db or --file is required")
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sweep %s (seed %d)\n", res.Info.SweepId, res.Info.Seed)
			for _, nr := range res.Results {
				for _, t := range nr.Tables() {
					fmt.Fprintf(out, "%d nodes\n%s", nr.NodeCount, t)
				}
			}
			if chart, _ := cmd.Flags().GetBool("chart"); chart {
				if err := visualize.RenderResults(out, res); err != nil {
					return err
				}
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

	cmd.Flags().String("sweep", "", "Sweep id; the latest sweep when empty")
	cmd.Flags().String("file", "", "Read the results from a JSON file instead of the database")
	cmd.Flags().Bool("chart", false, "Print the comparison chart")
	cmd.Flags().Bool("console", false, "Open the results console")
	cmd.Flags().String("history", "", "Console history file")

	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the sweeps of the result database",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			if st == nil {
				return errors.Errorf("--db is required")
			}
			defer st.Close()

			sweeps, err := st.ListSweeps(cmd.Context())
			if err != nil {
				return err
			}
			for _, info := range sweeps {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tseed=%d\tnodes=%v\treplicates=%d\n", info.SweepId,
					info.Created, info.Seed, info.NodeCounts, info.Replicates)
			}
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <sweep-id>",
		Short: "Delete a sweep from the result database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			if st == nil {
				return errors.Errorf("--db is required")
			}
			defer st.Close()

			if err := st.DeleteSweep(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sweep %s deleted\n", args[0])
			return nil
		},
	}
}
