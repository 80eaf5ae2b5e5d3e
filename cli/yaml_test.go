// Copyright (c) 2024, The OTNS Authors.
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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/kevinalini/LoRaEnergySim/kpi"
)

var testYamlArray = `
[4,5,6]
`

var testYamlSweep = `
sweep_id: abc
seed: 42
node_counts: [100, 200]
payload_sizes: [5, 10, 15]
replicates: 3
cell_size: 1000
adr: true
confirmed_messages: false
`

func TestYamlArrayUnmarshall(t *testing.T) {
	myArray := [3]int{0, 0, 0}
	err := yaml.Unmarshal([]byte(testYamlArray), &myArray)
	assert.Nil(t, err)
	assert.Equal(t, 4, myArray[0])
	assert.Equal(t, 5, myArray[1])
	assert.Equal(t, 6, myArray[2])
}

func TestYamlSweepInfoUnmarshall(t *testing.T) {
	info := kpi.SweepInfo{}
	err := yaml.Unmarshal([]byte(testYamlSweep), &info)
	assert.Nil(t, err)
	assert.Equal(t, "abc", info.SweepId)
	assert.Equal(t, int64(42), info.Seed)
	assert.Equal(t, []int{100, 200}, info.NodeCounts)
	assert.Equal(t, 3, len(info.PayloadSizes))
	assert.Equal(t, 1000.0, info.CellSize)
	assert.True(t, info.Adr)
	assert.False(t, info.Confirmed)
}

func TestOutputItemsAsYaml(t *testing.T) {
	var out bytes.Buffer
	cc := &CommandContext{output: &out}
	cc.outputItemsAsYaml(kpi.SweepInfo{SweepId: "abc", NodeCounts: []int{100, 200}, PayloadSizes: []int{5}})

	assert.Contains(t, out.String(), "sweep_id: abc\n")
	assert.Contains(t, out.String(), "node_counts: [100, 200]\n")
	assert.Contains(t, out.String(), "payload_sizes: [5]\n")

	info := kpi.SweepInfo{}
	assert.Nil(t, yaml.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, []int{100, 200}, info.NodeCounts)
}
