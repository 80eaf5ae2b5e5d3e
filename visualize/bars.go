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

// Package visualize renders result tables as text charts for the terminal.
package visualize

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/kevinalini/LoRaEnergySim/kpi"
)

const (
	DefaultWidth = 80
	minBarWidth  = 10
	valueWidth   = 12
)

var barFills = []rune{'#', '=', '*', '+', '~', 'o'}

// TerminalWidth returns the width of stdout if it is a terminal, or DefaultWidth.
func TerminalWidth() int {
	fdTerm := int(os.Stdout.Fd())
	if term.IsTerminal(fdTerm) {
		if width, _, err := term.GetSize(fdTerm); err == nil && width > 0 {
			return width
		}
	}
	return DefaultWidth
}

// RenderGroupedBars draws one group of horizontal bars per payload size of table, one bar per
// column in series, scaled to the terminal width.
func RenderGroupedBars(w io.Writer, table *kpi.Table, series []string) error {
	return RenderGroupedBarsWidth(w, table, series, TerminalWidth())
}

// RenderGroupedBarsWidth is RenderGroupedBars for a given line width. All bars share one scale, the
// largest value spanning the full bar width.
func RenderGroupedBarsWidth(w io.Writer, table *kpi.Table, series []string, width int) error {
	if len(series) == 0 {
		return errors.Errorf("no series to plot")
	}
	columns := make([][]float64, len(series))
	labelWidth := 0
	max := 0.0
	for i, name := range series {
		if columns[i] = table.Column(name); columns[i] == nil {
			return errors.Errorf("table %s has no column %s", table.Name, name)
		}
		if len(name) > labelWidth {
			labelWidth = len(name)
		}
		for _, v := range columns[i] {
			if v > max {
				max = v
			}
		}
	}

	barWidth := width - labelWidth - valueWidth - 4
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	var sb strings.Builder
	sb.WriteString(table.Name)
	for i, name := range series {
		sb.WriteString(fmt.Sprintf("  %c %s", barFills[i%len(barFills)], name))
	}
	sb.WriteString("\n")
	for r, payload := range table.PayloadSizes() {
		sb.WriteString(fmt.Sprintf("payload %d\n", payload))
		for i, name := range series {
			v := columns[i][r]
			sb.WriteString(fmt.Sprintf("  %-*s %s %*.4g\n", labelWidth, name,
				bar(barFills[i%len(barFills)], v, max, barWidth), valueWidth, v))
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// bar returns a bar of length v/max × width, padded to width.
func bar(fill rune, v, max float64, width int) string {
	n := 0
	if max > 0 && v > 0 {
		n = int(math.Round(v / max * float64(width)))
	}
	return strings.Repeat(string(fill), n) + strings.Repeat(" ", width-n)
}

// RenderResults plots the chart columns of the node table of every node count.
func RenderResults(w io.Writer, res *kpi.Results) error {
	for _, nr := range res.Results {
		if _, err := fmt.Fprintf(w, "%d nodes\n", nr.NodeCount); err != nil {
			return err
		}
		if err := RenderGroupedBars(w, nr.Node, kpi.ChartColumns); err != nil {
			return err
		}
	}
	return nil
}
