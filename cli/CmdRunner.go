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

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/kevinalini/LoRaEnergySim/kpi"
	"github.com/kevinalini/LoRaEnergySim/logger"
	"github.com/kevinalini/LoRaEnergySim/progctx"
	"github.com/kevinalini/LoRaEnergySim/visualize"
)

const (
	Prompt = "> "
)

// ResultStore gives the console access to stored sweeps.
type ResultStore interface {
	ListSweeps(ctx context.Context) ([]kpi.SweepInfo, error)
	LoadResults(ctx context.Context, id string) (*kpi.Results, error)
}

type CommandContext struct {
	*Command
	rt     *CmdRunner
	err    error
	output io.Writer
}

func (cc *CommandContext) outputStr(msg string) {
	_, _ = fmt.Fprint(cc.output, msg)
}

func (cc *CommandContext) outputf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cc.output, format, args...)
}

func (cc *CommandContext) errorf(format string, args ...interface{}) {
	cc.error(errors.Errorf(format, args...))
}

func (cc *CommandContext) error(err error) {
	if err != nil {
		if cc.err != nil { // if previous error, print it now and keep the last.
			cc.outputf("Error: %s\n", cc.err)
		}
		cc.err = err
	}
}

// Err returns the last error that occurred during command execution.
func (cc *CommandContext) Err() error {
	return cc.err
}

func (cc *CommandContext) outputItemsAsYaml(items interface{}) {
	var itemsYaml yaml.Node

	err := itemsYaml.Encode(items)
	logger.PanicIfError(err)

	flowSequences(&itemsYaml)

	data, err := yaml.Marshal(&itemsYaml)
	logger.PanicIfError(err)

	_, err = cc.output.Write(data)
	logger.PanicIfError(err)
}

// flowSequences puts all sequences below node on one line.
func flowSequences(node *yaml.Node) {
	for _, content := range node.Content {
		if content.Kind == yaml.SequenceNode {
			content.Style = yaml.FlowStyle
		}
		flowSequences(content)
	}
}

// CmdRunner executes console commands on the results of one sweep.
type CmdRunner struct {
	ctx       *progctx.ProgCtx
	results   *kpi.Results
	store     ResultStore
	nodeCount int
	help      Help
}

// NewCmdRunner creates a runner on results; store may be nil. The smallest node count is selected.
func NewCmdRunner(ctx *progctx.ProgCtx, results *kpi.Results, store ResultStore) *CmdRunner {
	rt := &CmdRunner{
		ctx:   ctx,
		store: store,
		help:  newHelp(),
	}
	rt.setResults(results)
	return rt
}

func (rt *CmdRunner) setResults(results *kpi.Results) {
	rt.results = results
	rt.nodeCount = 0
	if results != nil {
		if counts := sortedNodeCounts(results); len(counts) > 0 {
			rt.nodeCount = counts[0]
		}
	}
}

func (rt *CmdRunner) HandleCommand(cmdline string, output io.Writer) error {
	if rt.ctx.Err() == nil {
		cmd := Command{}
		if err := parseBytes([]byte(cmdline), &cmd); err != nil {
			if _, err := fmt.Fprintf(output, "Error: %v\n", err); err != nil {
				return err
			}
		} else {
			rt.execute(&cmd, output)
		}
	}
	return rt.ctx.Err()
}

func (rt *CmdRunner) GetPrompt() string {
	if rt.nodeCount == 0 {
		return Prompt
	}
	return fmt.Sprintf("nodes %d%s", rt.nodeCount, Prompt)
}

// Selected returns the selected node count, or 0.
func (rt *CmdRunner) Selected() int {
	return rt.nodeCount
}

func (rt *CmdRunner) Results() *kpi.Results {
	return rt.results
}

// AutoCompleter completes command keywords and their arguments; help completes command names.
func (rt *CmdRunner) AutoCompleter() readline.AutoCompleter {
	names := rt.help.commandNames()
	items := make([]readline.PrefixCompleterInterface, 0, len(rt.help.commands))
	for _, c := range rt.help.commands {
		args := c.args
		if c.name == "help" {
			args = names
		}
		children := make([]readline.PrefixCompleterInterface, 0, len(args))
		for _, arg := range args {
			children = append(children, readline.PcItem(arg))
		}
		items = append(items, readline.PcItem(c.name, children...))
	}
	return readline.NewPrefixCompleter(items...)
}

func (rt *CmdRunner) execute(cmd *Command, output io.Writer) {
	cc := &CommandContext{
		Command: cmd,
		rt:      rt,
		output:  output,
	}

	defer func() {
		if cc.Err() != nil {
			cc.outputf("Error: %v\n", cc.Err())
		} else {
			cc.outputf("Done\n")
		}
	}()

	defer func() {
		rerr := recover()

		if rerr != nil {
			if err, ok := rerr.(error); ok {
				cc.err = errors.Wrapf(err, "panic: %v", err)
			} else {
				cc.err = errors.Errorf("panic: %v", rerr)
			}
		}
	}()

	if cmd.Config != nil {
		rt.executeConfig(cc)
	} else if cmd.Exit != nil {
		rt.executeExit(cc)
	} else if cmd.Export != nil {
		rt.executeExport(cc, cmd.Export)
	} else if cmd.Help != nil {
		rt.executeHelp(cc, cmd.Help)
	} else if cmd.Load != nil {
		rt.executeLoad(cc, cmd.Load)
	} else if cmd.LogLevel != nil {
		rt.executeLogLevel(cc, cmd.LogLevel)
	} else if cmd.Nodes != nil {
		rt.executeLsNodes(cc)
	} else if cmd.Plot != nil {
		rt.executePlot(cc, cmd.Plot)
	} else if cmd.Select != nil {
		rt.executeSelect(cc, cmd.Select)
	} else if cmd.Sweeps != nil {
		rt.executeSweeps(cc)
	} else if cmd.Table != nil {
		rt.executeTable(cc, cmd.Table)
	} else {
		logger.Panicf("unimplemented command: %#v", cmd)
	}
}

// selected returns the result of the selected node count, or reports an error.
func (rt *CmdRunner) selected(cc *CommandContext) *kpi.NodeCountResult {
	if rt.results == nil {
		cc.errorf("no results loaded")
		return nil
	}
	nr := rt.results.Get(rt.nodeCount)
	if nr == nil {
		cc.errorf("no node count selected")
	}
	return nr
}

func (rt *CmdRunner) executeConfig(cc *CommandContext) {
	if rt.results == nil {
		cc.errorf("no results loaded")
		return
	}
	cc.outputItemsAsYaml(rt.results.Info)
}

func (rt *CmdRunner) executeExit(cc *CommandContext) {
	rt.ctx.Cancel("exit")
}

func (rt *CmdRunner) executeExport(cc *CommandContext, cmd *ExportCmd) {
	if rt.results == nil {
		cc.errorf("no results loaded")
		return
	}
	path := unquote(cmd.Path)
	var err error
	switch cmd.Format {
	case "xlsx":
		err = rt.results.SaveXlsx(path)
	case "csv":
		err = rt.results.SaveCSV(path)
	case "json":
		err = rt.results.SaveJSON(path)
	}
	if err != nil {
		cc.error(err)
		return
	}
	cc.outputf("%s written to %s\n", cmd.Format, path)
}

func (rt *CmdRunner) executeHelp(cc *CommandContext, cmd *HelpCmd) {
	if len(cmd.HelpTopic) > 0 {
		s, err := rt.help.outputCommandHelp(cmd.HelpTopic)
		if err != nil {
			cc.error(err)
			return
		}
		cc.outputStr(s)
	} else {
		cc.outputStr(rt.help.outputGeneralHelp())
	}
}

func (rt *CmdRunner) executeLoad(cc *CommandContext, cmd *LoadCmd) {
	if rt.store == nil {
		cc.errorf("no result database")
		return
	}
	id := ""
	if cmd.SweepId != nil {
		id = unquote(*cmd.SweepId)
	}
	res, err := rt.store.LoadResults(rt.ctx, id)
	if err != nil {
		cc.error(err)
		return
	}
	rt.setResults(res)
	cc.outputf("sweep %s loaded\n", res.Info.SweepId)
}

func (rt *CmdRunner) executeLogLevel(cc *CommandContext, cmd *LogLevelCmd) {
	if cmd.Level == "" {
		cc.outputf("%v\n", logger.GetLevelString(logger.GetLevel()))
		return
	}
	level, err := logger.ParseLevelString(cmd.Level)
	if err != nil {
		cc.error(err)
		return
	}
	logger.SetLevel(level)
}

func (rt *CmdRunner) executeLsNodes(cc *CommandContext) {
	if rt.results == nil {
		cc.errorf("no results loaded")
		return
	}
	for _, n := range sortedNodeCounts(rt.results) {
		nr := rt.results.Get(n)
		mark := ""
		if n == rt.nodeCount {
			mark = "\t*"
		}
		cc.outputf("nodes=%d\tpayloads=%v%s\n", n, nr.Node.PayloadSizes(), mark)
	}
}

func (rt *CmdRunner) executePlot(cc *CommandContext, cmd *PlotCmd) {
	nr := rt.selected(cc)
	if nr == nil {
		return
	}
	columns := cmd.Columns
	if len(columns) == 0 {
		if cmd.Table != nil && cmd.Table.Val != "node" {
			cc.errorf("plot %s needs column names", cmd.Table.Val)
			return
		}
		columns = kpi.ChartColumns
	}
	cc.error(visualize.RenderGroupedBarsWidth(cc.output, tableOf(nr, cmd.Table), columns, int(rt.help.width())))
}

func (rt *CmdRunner) executeSelect(cc *CommandContext, cmd *SelectCmd) {
	if rt.results == nil || rt.results.Get(cmd.NodeCount) == nil {
		cc.errorf("no results for %d nodes", cmd.NodeCount)
		return
	}
	rt.nodeCount = cmd.NodeCount
}

func (rt *CmdRunner) executeSweeps(cc *CommandContext) {
	if rt.store == nil {
		cc.errorf("no result database")
		return
	}
	sweeps, err := rt.store.ListSweeps(rt.ctx)
	if err != nil {
		cc.error(err)
		return
	}
	for _, info := range sweeps {
		var line strings.Builder
		line.WriteString(fmt.Sprintf("id=%s\tcreated=%s\tseed=%d", info.SweepId, info.Created, info.Seed))
		line.WriteString(fmt.Sprintf("\tnodes=%v\tpayloads=%v\treplicates=%d", info.NodeCounts, info.PayloadSizes,
			info.Replicates))
		if rt.results != nil && info.SweepId == rt.results.Info.SweepId {
			line.WriteString("\t*")
		}
		cc.outputf("%s\n", line.String())
	}
}

func (rt *CmdRunner) executeTable(cc *CommandContext, cmd *TableCmd) {
	nr := rt.selected(cc)
	if nr == nil {
		return
	}
	cc.outputStr(tableOf(nr, cmd.Table).String())
}
