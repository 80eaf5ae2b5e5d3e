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

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinalini/LoRaEnergySim/kpi"
)

func constSeries(payload int, columns []string, v float64) kpi.Series {
	s := kpi.NewSeries(payload, columns)
	for i := range s.Values {
		s.Values[i] = v * float64(i+1)
	}
	return s
}

func testResults(t *testing.T, id string) *kpi.Results {
	agg := kpi.NewAggregator(2)
	for _, n := range []int{10, 20} {
		for _, payload := range []int{5, 10, 5} {
			require.Nil(t, agg.Add(n, constSeries(payload, kpi.NodeColumns, 3), constSeries(payload, kpi.GatewayColumns, 2),
				constSeries(payload, kpi.AirColumns, 1)))
		}
		_, err := agg.Finalize(n)
		require.Nil(t, err)
	}
	res := agg.Results()
	res.Info = kpi.SweepInfo{SweepId: id, Created: "2024-05-01T10:00:00Z", Seed: 7, NodeCounts: []int{10, 20},
		PayloadSizes: []int{5, 10}, Replicates: 2, CellSize: 1000, TransmissionRate: 0.02e-3, HorizonMs: 2.5e9,
		Adr: true, Confirmed: true}
	return res
}

func openTestStore(t *testing.T) *Store {
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.Nil(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	res := testResults(t, "sweep-1")
	require.Nil(t, s.SaveResults(ctx, res))

	loaded, err := s.LoadResults(ctx, "sweep-1")
	require.Nil(t, err)
	assert.Equal(t, res, loaded)

	v, ok := loaded.Get(20).Node.Get(5, kpi.UniqueBytes)
	assert.True(t, ok)
	assert.Equal(t, loaded.Get(20).Node.Column(kpi.UniquePackets)[0]*5, v)
}

func TestLoadLatest(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.Nil(t, s.SaveResults(ctx, testResults(t, "first")))
	require.Nil(t, s.SaveResults(ctx, testResults(t, "second")))

	loaded, err := s.LoadResults(ctx, "")
	require.Nil(t, err)
	assert.Equal(t, "second", loaded.Info.SweepId)

	sweeps, err := s.ListSweeps(ctx)
	require.Nil(t, err)
	require.Len(t, sweeps, 2)
	assert.Equal(t, "first", sweeps[0].SweepId)
	assert.Equal(t, "second", sweeps[1].SweepId)
}

func TestErrors(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.LoadResults(ctx, "")
	assert.True(t, errors.Is(err, ErrSweepNotFound))
	_, err = s.LoadResults(ctx, "missing")
	assert.True(t, errors.Is(err, ErrSweepNotFound))

	res := testResults(t, "dup")
	require.Nil(t, s.SaveResults(ctx, res))
	assert.True(t, errors.Is(s.SaveResults(ctx, res), ErrSweepExists))

	assert.NotNil(t, s.SaveResults(ctx, testResults(t, "")))
}

func TestDeleteSweep(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.Nil(t, s.SaveResults(ctx, testResults(t, "gone")))
	require.Nil(t, s.DeleteSweep(ctx, "gone"))

	_, err := s.LoadResults(ctx, "gone")
	assert.True(t, errors.Is(err, ErrSweepNotFound))
	assert.True(t, errors.Is(s.DeleteSweep(ctx, "gone"), ErrSweepNotFound))

	var n int
	require.Nil(t, s.db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	fn := filepath.Join(t.TempDir(), "results.db")
	s, err := Open(fn)
	require.Nil(t, err)
	require.Nil(t, s.SaveResults(ctx, testResults(t, "kept")))
	require.Nil(t, s.Close())

	s, err = Open(fn)
	require.Nil(t, err)
	defer s.Close()
	loaded, err := s.LoadResults(ctx, "kept")
	require.Nil(t, err)
	assert.Equal(t, []int{10, 20}, loaded.NodeCounts())
}
