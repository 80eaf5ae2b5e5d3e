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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const infoSheet = "Info"

// SaveJSON writes the results as an indented JSON document.
func (r *Results) SaveJSON(fn string) error {
	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return errors.Wrapf(err, "marshal results")
	}
	if err = os.WriteFile(fn, data, 0644); err != nil {
		return errors.Wrapf(err, "write %s", fn)
	}
	return nil
}

func LoadJSON(fn string) (*Results, error) {
	data, err := os.ReadFile(fn)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", fn)
	}
	res := &Results{}
	if err = json.Unmarshal(data, res); err != nil {
		return nil, errors.Wrapf(err, "parse %s", fn)
	}
	return res, nil
}

// WriteCSV writes the records of all tables in long format.
func (r *Results) WriteCSV(w io.Writer) error {
	return writeRecords(w, r.Records())
}

// SaveCSV writes one long-format CSV file per table kind into dir.
func (r *Results) SaveCSV(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}
	byTable := map[string][]Record{}
	for _, rec := range r.Records() {
		byTable[rec.Table] = append(byTable[rec.Table], rec)
	}
	for _, name := range []string{NodeTableName, GatewayTableName, AirTableName} {
		fn := filepath.Join(dir, name+".csv")
		f, err := os.Create(fn)
		if err != nil {
			return errors.Wrapf(err, "create %s", fn)
		}
		err = writeRecords(f, byTable[name])
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return errors.Wrapf(err, "write %s", fn)
		}
	}
	return nil
}

func writeRecords(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if len(records) == 0 {
		if err := enc.EncodeHeader(Record{}); err != nil {
			return err
		}
	}
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads long-format records, as written by WriteCSV.
func ReadCSV(rd io.Reader) ([]Record, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(rd))
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	var records []Record
	for {
		var rec Record
		if err = dec.Decode(&rec); err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// SaveXlsx writes a workbook with an info sheet and one sheet per table kind. Each sheet holds one
// block per node count: a title row, a header row and one row per payload size.
func (r *Results) SaveXlsx(fn string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", infoSheet); err != nil {
		return errors.Wrapf(err, "xlsx")
	}
	info := [][]interface{}{
		{"SweepId", r.Info.SweepId},
		{"Created", r.Info.Created},
		{"Seed", r.Info.Seed},
		{"NodeCounts", fmt.Sprint(r.Info.NodeCounts)},
		{"PayloadSizes", fmt.Sprint(r.Info.PayloadSizes)},
		{"Replicates", r.Info.Replicates},
		{"CellSize", r.Info.CellSize},
		{"TransmissionRate", r.Info.TransmissionRate},
		{"HorizonMs", r.Info.HorizonMs},
		{"Adr", r.Info.Adr},
		{"ConfirmedMessages", r.Info.Confirmed},
	}
	for i, row := range info {
		row := row
		if err := f.SetSheetRow(infoSheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return errors.Wrapf(err, "xlsx")
		}
	}

	sheets := []string{NodeTableName, GatewayTableName, AirTableName}
	for _, sheet := range sheets {
		if _, err := f.NewSheet(sheet); err != nil {
			return errors.Wrapf(err, "xlsx")
		}
	}

	for si, sheet := range sheets {
		line := 1
		for _, nr := range r.Results {
			t := nr.Tables()[si]
			title := []interface{}{fmt.Sprintf("Nodes: %d", nr.NodeCount)}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", line), &title); err != nil {
				return errors.Wrapf(err, "xlsx")
			}
			header := make([]interface{}, 0, len(t.Columns)+1)
			header = append(header, "PayloadSize")
			for _, c := range t.Columns {
				header = append(header, c)
			}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", line+1), &header); err != nil {
				return errors.Wrapf(err, "xlsx")
			}
			line += 2
			for _, row := range t.Rows {
				cells := make([]interface{}, 0, len(row.Values)+1)
				cells = append(cells, row.PayloadSize)
				for _, v := range row.Values {
					cells = append(cells, v)
				}
				if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", line), &cells); err != nil {
					return errors.Wrapf(err, "xlsx")
				}
				line++
			}
			line++
		}
	}

	if err := f.SaveAs(fn); err != nil {
		return errors.Wrapf(err, "save %s", fn)
	}
	return nil
}
