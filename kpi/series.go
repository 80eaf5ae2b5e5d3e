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
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/kevinalini/LoRaEnergySim/logger"
)

// Series is the end-of-run snapshot of one entity (or a sum over entities), named by the payload
// size of the run.
type Series struct {
	Name    int
	Columns []string
	Values  []float64
}

func NewSeries(name int, columns []string) Series {
	return Series{
		Name:    name,
		Columns: columns,
		Values:  make([]float64, len(columns)),
	}
}

// Index returns the position of column, or -1.
func (s Series) Index(column string) int {
	return indexOf(s.Columns, column)
}

func (s Series) Get(column string) float64 {
	i := s.Index(column)
	logger.AssertTruef(i >= 0, "series has no column %s", column)
	return s.Values[i]
}

func (s Series) Set(column string, value float64) {
	i := s.Index(column)
	logger.AssertTruef(i >= 0, "series has no column %s", column)
	s.Values[i] = value
}

// Add adds the values of other, which must have the same columns, to s.
func (s Series) Add(other Series) {
	logger.AssertTrue(s.SameColumns(other))
	floats.Add(s.Values, other.Values)
}

// Div returns a copy of s with every value divided by divisor.
func (s Series) Div(divisor float64) Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)
	floats.Scale(1/divisor, values)
	return Series{
		Name:    s.Name,
		Columns: s.Columns,
		Values:  values,
	}
}

func (s Series) SameColumns(other Series) bool {
	return sameColumns(s.Columns, other.Columns)
}

func (s Series) String() string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("%d:", s.Name))
	for i, c := range s.Columns {
		sb.WriteString(fmt.Sprintf(" %s=%g", c, s.Values[i]))
	}
	return sb.String()
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
