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

// DerivedColumn is appended to a materialized table with value From × payload size.
type DerivedColumn struct {
	Name string
	From string
}

// Row is one payload size of a table.
type Row struct {
	PayloadSize int       `json:"payload_size"`
	Values      []float64 `json:"values"`
}

// Table holds the rows of one entity kind for one node count, indexed by payload size.
type Table struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Collector is an append-only list of series, materialized once into a Table.
type Collector struct {
	columns      []string
	series       []Series
	materialized bool
}

func NewCollector(columns []string) *Collector {
	return &Collector{
		columns: columns,
	}
}

func (c *Collector) Append(s Series) error {
	if c.materialized {
		return errors.Errorf("collector already materialized")
	}
	if !sameColumns(c.columns, s.Columns) {
		return errors.Errorf("series %d has columns %v, expected %v", s.Name, s.Columns, c.columns)
	}
	c.series = append(c.series, s)
	return nil
}

func (c *Collector) Len() int {
	return len(c.series)
}

// Materialize builds the table. Series with equal payload size are summed into one row; rows keep the
// order in which their payload size was first appended.
func (c *Collector) Materialize(name string, derived ...DerivedColumn) (*Table, error) {
	if c.materialized {
		return nil, errors.Errorf("collector already materialized")
	}
	c.materialized = true

	t := &Table{
		Name:    name,
		Columns: make([]string, 0, len(c.columns)+len(derived)),
	}
	t.Columns = append(t.Columns, c.columns...)
	sources := make([]int, len(derived))
	for i, d := range derived {
		src := indexOf(c.columns, d.From)
		if src < 0 {
			return nil, errors.Errorf("derived column %s: no source column %s", d.Name, d.From)
		}
		sources[i] = src
		t.Columns = append(t.Columns, d.Name)
	}

	rowIndex := map[int]int{}
	for _, s := range c.series {
		i, ok := rowIndex[s.Name]
		if !ok {
			i = len(t.Rows)
			rowIndex[s.Name] = i
			t.Rows = append(t.Rows, Row{
				PayloadSize: s.Name,
				Values:      make([]float64, len(t.Columns)),
			})
		}
		row := t.Rows[i].Values
		for j, v := range s.Values {
			row[j] += v
		}
	}

	for _, row := range t.Rows {
		for i, src := range sources {
			row.Values[len(c.columns)+i] = row.Values[src] * float64(row.PayloadSize)
		}
	}
	c.series = nil
	return t, nil
}

// ColumnIndex returns the position of column, or -1.
func (t *Table) ColumnIndex(column string) int {
	return indexOf(t.Columns, column)
}

// Get returns the value at (payload size, column).
func (t *Table) Get(payloadSize int, column string) (float64, bool) {
	ci := t.ColumnIndex(column)
	if ci < 0 {
		return 0, false
	}
	for _, row := range t.Rows {
		if row.PayloadSize == payloadSize {
			return row.Values[ci], true
		}
	}
	return 0, false
}

// Column returns the values of column in row order, or nil if there is no such column.
func (t *Table) Column(column string) []float64 {
	ci := t.ColumnIndex(column)
	if ci < 0 {
		return nil
	}
	values := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row.Values[ci]
	}
	return values
}

func (t *Table) PayloadSizes() []int {
	sizes := make([]int, len(t.Rows))
	for i, row := range t.Rows {
		sizes[i] = row.PayloadSize
	}
	return sizes
}

func indexOf(columns []string, column string) int {
	for i, c := range columns {
		if c == column {
			return i
		}
	}
	return -1
}
