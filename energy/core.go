// Copyright (c) 2022, The OTNS Authors.
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

package energy

import (
	"fmt"
	"io"
	"sort"

	"github.com/kevinalini/LoRaEnergySim/logger"
)

// EnergyAnalyser keeps the energy accounting of all nodes of one simulated universe.
type EnergyAnalyser struct {
	profile *Profile
	nodes   map[int]*NodeEnergy
	title   string
}

func (e *EnergyAnalyser) AddNode(nodeID int, txPower int, timestamp uint64) *NodeEnergy {
	if node, ok := e.nodes[nodeID]; ok {
		return node
	}
	node := newNode(nodeID, e.profile, txPower, timestamp)
	e.nodes[nodeID] = node
	return node
}

func (e *EnergyAnalyser) GetNode(nodeID int) *NodeEnergy {
	return e.nodes[nodeID]
}

func (e *EnergyAnalyser) Profile() *Profile {
	return e.profile
}

// Finalize charges every node up to the given timestamp.
func (e *EnergyAnalyser) Finalize(timestamp uint64) {
	for _, node := range e.nodes {
		node.ComputeRadioState(timestamp)
	}
}

// GetNetworkConsumption returns the mean consumption per node.
func (e *EnergyAnalyser) GetNetworkConsumption() Consumption {
	var net Consumption
	if len(e.nodes) == 0 {
		return net
	}
	netSize := float64(len(e.nodes))
	for _, node := range e.nodes {
		c := node.GetConsumption()
		net.Sleep += c.Sleep / netSize
		net.Proc += c.Proc / netSize
		net.Tx += c.Tx / netSize
		net.Rx += c.Rx / netSize
	}
	return net
}

// WriteEnergyByNodes writes a tab separated per-node energy report.
func (e *EnergyAnalyser) WriteEnergyByNodes(w io.Writer, timestamp uint64) error {
	if _, err := fmt.Fprintf(w, "# %s\n# Duration of the simulated network (in milliseconds): %d\n",
		e.title, timestamp/1000); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "ID\tSleep (mJ)\tProcessing (mJ)\tTransmitting (mJ)\tReceiving (mJ)\n"); err != nil {
		return err
	}

	sortedNodes := make([]int, 0, len(e.nodes))
	for id := range e.nodes {
		sortedNodes = append(sortedNodes, id)
	}
	sort.Ints(sortedNodes)

	for _, id := range sortedNodes {
		c := e.nodes[id].GetConsumption()
		if _, err := fmt.Fprintf(w, "%d\t%f\t%f\t%f\t%f\n", id, c.Sleep, c.Proc, c.Tx, c.Rx); err != nil {
			return err
		}
	}
	return nil
}

func (e *EnergyAnalyser) SetTitle(title string) {
	e.title = title
}

func NewEnergyAnalyser(profile *Profile) *EnergyAnalyser {
	logger.AssertNotNil(profile)
	ea := &EnergyAnalyser{
		profile: profile,
		nodes:   make(map[int]*NodeEnergy),
	}
	return ea
}
