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
	"sort"

	"github.com/pkg/errors"
)

// SweepInfo describes the experiment that produced a set of results.
type SweepInfo struct {
	SweepId          string  `json:"sweep_id" yaml:"sweep_id"`
	Created          string  `json:"created" yaml:"created"`
	Seed             int64   `json:"seed" yaml:"seed"`
	NodeCounts       []int   `json:"node_counts" yaml:"node_counts"`
	PayloadSizes     []int   `json:"payload_sizes" yaml:"payload_sizes"`
	Replicates       int     `json:"replicates" yaml:"replicates"`
	CellSize         float64 `json:"cell_size" yaml:"cell_size"`
	TransmissionRate float64 `json:"transmission_rate" yaml:"transmission_rate"`
	HorizonMs        float64 `json:"horizon_ms" yaml:"horizon_ms"`
	Adr              bool    `json:"adr" yaml:"adr"`
	Confirmed        bool    `json:"confirmed_messages" yaml:"confirmed_messages"`
}

// NodeCountResult holds the three tables of one node count.
type NodeCountResult struct {
	NodeCount int    `json:"node_count"`
	Node      *Table `json:"node"`
	Gateway   *Table `json:"gateway"`
	Air       *Table `json:"air_interface"`
}

// Tables returns the node, gateway and air interface tables.
func (r *NodeCountResult) Tables() []*Table {
	return []*Table{r.Node, r.Gateway, r.Air}
}

// Results are all finalized tables of a sweep, in the order the node counts were finalized.
type Results struct {
	Info    SweepInfo          `json:"info"`
	Results []*NodeCountResult `json:"results"`
}

func (r *Results) Get(nodeCount int) *NodeCountResult {
	for _, nr := range r.Results {
		if nr.NodeCount == nodeCount {
			return nr
		}
	}
	return nil
}

func (r *Results) NodeCounts() []int {
	counts := make([]int, len(r.Results))
	for i, nr := range r.Results {
		counts[i] = nr.NodeCount
	}
	return counts
}

type collectorSet struct {
	node    *Collector
	gateway *Collector
	air     *Collector
}

// Aggregator normalizes the series of every run and accumulates them per node count.
type Aggregator struct {
	replicates int
	pending    map[int]*collectorSet
	results    *Results
}

func NewAggregator(replicates int) *Aggregator {
	return &Aggregator{
		replicates: replicates,
		pending:    map[int]*collectorSet{},
		results:    &Results{},
	}
}

// Add divides every value of the three series by nodeCount × replicates and appends them to the
// collectors of nodeCount.
func (a *Aggregator) Add(nodeCount int, node, gateway, air Series) error {
	if node.Name != gateway.Name || node.Name != air.Name {
		return errors.Errorf("series names differ: %d, %d, %d", node.Name, gateway.Name, air.Name)
	}
	if a.results.Get(nodeCount) != nil {
		return errors.Errorf("node count %d already finalized", nodeCount)
	}
	set, ok := a.pending[nodeCount]
	if !ok {
		set = &collectorSet{
			node:    NewCollector(NodeColumns),
			gateway: NewCollector(GatewayColumns),
			air:     NewCollector(AirColumns),
		}
		a.pending[nodeCount] = set
	}

	divisor := float64(nodeCount * a.replicates)
	if err := set.node.Append(node.Div(divisor)); err != nil {
		return errors.Wrapf(err, "node series")
	}
	if err := set.gateway.Append(gateway.Div(divisor)); err != nil {
		return errors.Wrapf(err, "gateway series")
	}
	if err := set.air.Append(air.Div(divisor)); err != nil {
		return errors.Wrapf(err, "air interface series")
	}
	return nil
}

// Finalize materializes the tables of nodeCount and derives the byte columns of the node table.
func (a *Aggregator) Finalize(nodeCount int) (*NodeCountResult, error) {
	set, ok := a.pending[nodeCount]
	if !ok {
		return nil, errors.Errorf("no data for node count %d", nodeCount)
	}
	delete(a.pending, nodeCount)

	nr := &NodeCountResult{NodeCount: nodeCount}
	var err error
	if nr.Node, err = set.node.Materialize(NodeTableName, NodeDerivedColumns...); err != nil {
		return nil, err
	}
	if nr.Gateway, err = set.gateway.Materialize(GatewayTableName); err != nil {
		return nil, err
	}
	if nr.Air, err = set.air.Materialize(AirTableName); err != nil {
		return nil, err
	}
	a.results.Results = append(a.results.Results, nr)
	return nr, nil
}

// Pending returns the node counts with data that was not finalized yet.
func (a *Aggregator) Pending() []int {
	counts := make([]int, 0, len(a.pending))
	for n := range a.pending {
		counts = append(counts, n)
	}
	sort.Ints(counts)
	return counts
}

func (a *Aggregator) Results() *Results {
	return a.results
}
