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

package kpi

import (
	"github.com/pkg/errors"
)

// Record is one table cell in long format.
type Record struct {
	NodeCount   int     `csv:"node_count"`
	Table       string  `csv:"table"`
	PayloadSize int     `csv:"payload_size"`
	Metric      string  `csv:"metric"`
	Value       float64 `csv:"value"`
}

// Records flattens the results; the order is node count, table, row, column.
func (r *Results) Records() []Record {
	var records []Record
	for _, nr := range r.Results {
		for _, t := range nr.Tables() {
			records = append(records, t.records(nr.NodeCount)...)
		}
	}
	return records
}

func (t *Table) records(nodeCount int) []Record {
	records := make([]Record, 0, len(t.Rows)*len(t.Columns))
	for _, row := range t.Rows {
		for i, c := range t.Columns {
			records = append(records, Record{
				NodeCount:   nodeCount,
				Table:       t.Name,
				PayloadSize: row.PayloadSize,
				Metric:      c,
				Value:       row.Values[i],
			})
		}
	}
	return records
}

// ResultsFromRecords rebuilds results from flattened records. Node counts, rows and columns keep
// the order of their first appearance.
func ResultsFromRecords(info SweepInfo, records []Record) (*Results, error) {
	res := &Results{Info: info}
	for _, rec := range records {
		nr := res.Get(rec.NodeCount)
		if nr == nil {
			nr = &NodeCountResult{
				NodeCount: rec.NodeCount,
				Node:      &Table{Name: NodeTableName},
				Gateway:   &Table{Name: GatewayTableName},
				Air:       &Table{Name: AirTableName},
			}
			res.Results = append(res.Results, nr)
		}
		var t *Table
		switch rec.Table {
		case NodeTableName:
			t = nr.Node
		case GatewayTableName:
			t = nr.Gateway
		case AirTableName:
			t = nr.Air
		default:
			return nil, errors.Errorf("unknown table %q", rec.Table)
		}
		t.set(rec.PayloadSize, rec.Metric, rec.Value)
	}
	return res, nil
}

func (t *Table) set(payloadSize int, column string, value float64) {
	ci := t.ColumnIndex(column)
	if ci < 0 {
		t.Columns = append(t.Columns, column)
		ci = len(t.Columns) - 1
		for i := range t.Rows {
			t.Rows[i].Values = append(t.Rows[i].Values, 0)
		}
	}
	for i := range t.Rows {
		if t.Rows[i].PayloadSize == payloadSize {
			t.Rows[i].Values[ci] = value
			return
		}
	}
	values := make([]float64, len(t.Columns))
	values[ci] = value
	t.Rows = append(t.Rows, Row{PayloadSize: payloadSize, Values: values})
}
