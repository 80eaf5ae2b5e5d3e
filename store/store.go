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

// Package store keeps the results of finished sweeps in a SQLite database, so that they can be
// reloaded and browsed without running the sweep again.
package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/kevinalini/LoRaEnergySim/kpi"
)

var (
	ErrSweepExists   = errors.New("sweep already stored")
	ErrSweepNotFound = errors.New("sweep not found")
)

// Store is a result database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "open database %s", path)
	}
	db.SetMaxOpenConns(1)

	if err := InitSchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "initialize database %s", path)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Path() string {
	return s.path
}

// SaveResults stores the sweep info and every result cell in one transaction.
func (s *Store) SaveResults(ctx context.Context, res *kpi.Results) error {
	id := res.Info.SweepId
	if id == "" {
		return errors.Errorf("results have no sweep id")
	}
	info, err := json.Marshal(res.Info)
	if err != nil {
		return errors.Wrap(err, "encode sweep info")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM sweeps WHERE id = ?`, id).Scan(&n); err != nil {
		return errors.Wrap(err, "query sweep")
	}
	if n > 0 {
		return errors.Wrapf(ErrSweepExists, "sweep %s", id)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO sweeps (id, created, seed, info) VALUES (?, ?, ?, ?)`,
		id, res.Info.Created, res.Info.Seed, string(info)); err != nil {
		return errors.Wrapf(err, "insert sweep %s", id)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records
		(sweep_id, seq, node_count, table_name, payload_size, metric, value) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	for i, rec := range res.Records() {
		if _, err := stmt.ExecContext(ctx, id, i, rec.NodeCount, rec.Table, rec.PayloadSize, rec.Metric, rec.Value); err != nil {
			return errors.Wrapf(err, "insert record %d of sweep %s", i, id)
		}
	}
	return errors.Wrap(tx.Commit(), "commit results")
}

// LoadResults loads a stored sweep. An empty id loads the most recently stored sweep.
func (s *Store) LoadResults(ctx context.Context, id string) (*kpi.Results, error) {
	var row *sql.Row
	if id == "" {
		row = s.db.QueryRowContext(ctx, `SELECT id, info FROM sweeps ORDER BY rowid DESC LIMIT 1`)
	} else {
		row = s.db.QueryRowContext(ctx, `SELECT id, info FROM sweeps WHERE id = ?`, id)
	}
	var infoJson string
	if err := row.Scan(&id, &infoJson); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.Wrapf(ErrSweepNotFound, "sweep %q", id)
		}
		return nil, errors.Wrap(err, "query sweep")
	}
	var info kpi.SweepInfo
	if err := json.Unmarshal([]byte(infoJson), &info); err != nil {
		return nil, errors.Wrapf(err, "decode info of sweep %s", id)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT node_count, table_name, payload_size, metric, value
		FROM records WHERE sweep_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, errors.Wrapf(err, "query records of sweep %s", id)
	}
	defer rows.Close()

	var records []kpi.Record
	for rows.Next() {
		var rec kpi.Record
		if err := rows.Scan(&rec.NodeCount, &rec.Table, &rec.PayloadSize, &rec.Metric, &rec.Value); err != nil {
			return nil, errors.Wrap(err, "scan record")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "read records")
	}
	return kpi.ResultsFromRecords(info, records)
}

// ListSweeps returns the info of every stored sweep, oldest first.
func (s *Store) ListSweeps(ctx context.Context) ([]kpi.SweepInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT info FROM sweeps ORDER BY rowid`)
	if err != nil {
		return nil, errors.Wrap(err, "query sweeps")
	}
	defer rows.Close()

	var sweeps []kpi.SweepInfo
	for rows.Next() {
		var infoJson string
		if err := rows.Scan(&infoJson); err != nil {
			return nil, errors.Wrap(err, "scan sweep")
		}
		var info kpi.SweepInfo
		if err := json.Unmarshal([]byte(infoJson), &info); err != nil {
			return nil, errors.Wrap(err, "decode sweep info")
		}
		sweeps = append(sweeps, info)
	}
	return sweeps, errors.Wrap(rows.Err(), "read sweeps")
}

// DeleteSweep removes a sweep and its records.
func (s *Store) DeleteSweep(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sweeps WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "delete sweep %s", id)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Wrapf(ErrSweepNotFound, "sweep %q", id)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
