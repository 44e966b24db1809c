// Copyright 2026
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package data

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
	"gopkg.in/yaml.v3"
)

// memberRow is the CSV layout used when a table has no financial columns
type memberRow struct {
	Index  string `csv:"index"`
	Code   string `csv:"code"`
	Name   string `csv:"name"`
	Sector string `csv:"sector"`
	Weight Number `csv:"weight"`
}

type parquetRow struct {
	Index     string   `parquet:"name=index, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Code      string   `parquet:"name=code, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Name      string   `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Sector    string   `parquet:"name=sector, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Weight    *float64 `parquet:"name=weight, type=DOUBLE, repetitiontype=OPTIONAL"`
	Date      *string  `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	PBR       *float64 `parquet:"name=pbr, type=DOUBLE, repetitiontype=OPTIONAL"`
	ROE       *float64 `parquet:"name=roe, type=DOUBLE, repetitiontype=OPTIONAL"`
	DY        *float64 `parquet:"name=dy, type=DOUBLE, repetitiontype=OPTIONAL"`
	MarketCap *float64 `parquet:"name=market_cap, type=DOUBLE, repetitiontype=OPTIONAL"`
}

// LoadTable reads a canonical table from CSV, YAML or JSON
func LoadTable(fn string) (*Table, error) {
	raw, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, fn)
		}
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(fn)) {
	case ".csv":
		return tableFromCSV(raw)
	case ".yaml", ".yml", ".json":
		var doc yaml.Node
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrSchema, fn, err)
		}
		return tableFromNode(&doc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, fn)
	}
}

func tableFromCSV(raw []byte) (*Table, error) {
	header, err := csv.NewReader(bytes.NewReader(raw)).Read()
	if errors.Is(err, io.EOF) {
		return &Table{Columns: []string{}, Rows: []Row{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}

	tbl := &Table{
		Columns: make([]string, 0, len(header)),
		Rows:    []Row{},
	}
	for _, col := range header {
		tbl.Columns = append(tbl.Columns, strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
	}

	if err := gocsv.UnmarshalBytes(raw, &tbl.Rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return tbl, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}

	return tbl, nil
}

func tableFromNode(doc *yaml.Node) (*Table, error) {
	records, err := tableRecords(doc)
	if err != nil {
		return nil, err
	}

	tbl := &Table{
		Columns: []string{},
		Rows:    make([]Row, 0, len(records)),
	}

	seen := make(map[string]bool)
	for _, rec := range records {
		for _, key := range rec.Keys {
			if !seen[key] {
				seen[key] = true
				tbl.Columns = append(tbl.Columns, key)
			}
		}
		tbl.Rows = append(tbl.Rows, rowFromRecord(rec))
	}

	return tbl, nil
}

// tableRecords accepts a `records` mapping, a mapping of group to list, a
// bare list, or a single mapping
func tableRecords(doc *yaml.Node) ([]Record, error) {
	node := Resolve(doc)
	if IsNull(node) {
		return nil, nil
	}

	switch node.Kind {
	case yaml.SequenceNode:
		return sequenceRecords(node), nil
	case yaml.MappingNode:
		rec, _ := RecordFromNode(node)
		if recs := rec.Fields["records"]; recs != nil && recs.Kind == yaml.SequenceNode {
			return sequenceRecords(recs), nil
		}

		grouped := len(rec.Keys) > 0
		for _, key := range rec.Keys {
			if rec.Fields[key].Kind != yaml.SequenceNode {
				grouped = false
				break
			}
		}
		if !grouped {
			return []Record{rec}, nil
		}

		records := make([]Record, 0)
		for _, group := range rec.Keys {
			for _, entry := range sequenceRecords(rec.Fields[group]) {
				if text, ok := entry.Text(ColIndex); !ok || text == "" {
					entry.Set(ColIndex, group)
				}
				records = append(records, entry)
			}
		}
		return records, nil
	default:
		return nil, fmt.Errorf("%w: document must be a list or a mapping", ErrSchema)
	}
}

func sequenceRecords(node *yaml.Node) []Record {
	records := make([]Record, 0, len(node.Content))
	for _, item := range node.Content {
		if rec, ok := RecordFromNode(item); ok {
			records = append(records, rec)
		}
	}
	return records
}

func rowFromRecord(rec Record) Row {
	row := Row{
		Weight:    rec.Number(ColWeight),
		PBR:       rec.Number(ColPBR),
		ROE:       rec.Number(ColROE),
		DY:        rec.Number(ColDY),
		MarketCap: rec.Number(ColMarketCap),
	}
	row.Index, _ = rec.Text(ColIndex)
	row.Code, _ = rec.Text(ColCode)
	row.Code = strings.TrimSpace(row.Code)
	row.Name, _ = rec.Text(ColName)
	row.Sector, _ = rec.Text(ColSector)
	if dt, ok := rec.Text(ColDate); ok {
		row.Date = FormatDate(ParseDate(dt))
	}
	return row
}

// DumpTable writes tbl to fn. The format follows the extension: YAML and
// JSON carry a generated_at stamp, parquet is ZSTD compressed and anything
// else is written as CSV.
func DumpTable(tbl *Table, fn string, generatedAt time.Time) error {
	if dir := filepath.Dir(fn); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	var err error
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".yaml", ".yml":
		err = dumpYAML(tbl, fn, generatedAt)
	case ".json":
		err = dumpJSON(tbl, fn, generatedAt)
	case ".parquet":
		err = dumpParquet(tbl, fn)
	default:
		err = dumpCSV(tbl, fn)
	}

	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("could not write table")
		return err
	}

	log.Info().Str("FileName", fn).Int("NumRecords", len(tbl.Rows)).Msg("wrote table")
	return nil
}

// OutputColumns is the canonical-ordered subset of columns the table carries
func (tbl *Table) OutputColumns() []string {
	if !tbl.hasFinancials() {
		return MemberColumns
	}
	return CanonicalColumns
}

func stamp(generatedAt time.Time) string {
	return generatedAt.UTC().Truncate(time.Second).Format(time.RFC3339)
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func numberNode(n Number) *yaml.Node {
	if !n.Valid {
		return scalar(nullTag, "null")
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatFloat(n.Value, 'f', -1, 64)}
}

func dumpYAML(tbl *Table, fn string, generatedAt time.Time) error {
	cols := tbl.OutputColumns()
	records := &yaml.Node{Kind: yaml.SequenceNode}

	for idx := range tbl.Rows {
		row := &tbl.Rows[idx]
		item := &yaml.Node{Kind: yaml.MappingNode}
		for _, col := range cols {
			var val *yaml.Node
			switch col {
			case ColWeight, ColPBR, ColROE, ColDY, ColMarketCap:
				val = numberNode(row.Value(col))
			case ColDate:
				if row.Date == "" {
					val = scalar(nullTag, "null")
				} else {
					val = scalar("!!str", row.Date)
				}
			default:
				val = scalar("!!str", row.Text(col))
			}
			item.Content = append(item.Content, scalar("!!str", col), val)
		}
		records.Content = append(records.Content, item)
	}

	doc := &yaml.Node{
		Kind: yaml.DocumentNode,
		Content: []*yaml.Node{{
			Kind: yaml.MappingNode,
			Content: []*yaml.Node{
				scalar("!!str", "generated_at"), scalar("!!str", stamp(generatedAt)),
				scalar("!!str", "records"), records,
			},
		}},
	}

	fh, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer fh.Close()

	enc := yaml.NewEncoder(fh)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func dumpJSON(tbl *Table, fn string, generatedAt time.Time) error {
	cols := tbl.OutputColumns()
	records := make([]map[string]any, 0, len(tbl.Rows))

	for idx := range tbl.Rows {
		row := &tbl.Rows[idx]
		item := make(map[string]any, len(cols))
		for _, col := range cols {
			switch col {
			case ColWeight, ColPBR, ColROE, ColDY, ColMarketCap:
				item[col] = row.Value(col)
			case ColDate:
				if row.Date == "" {
					item[col] = nil
				} else {
					item[col] = row.Date
				}
			default:
				item[col] = row.Text(col)
			}
		}
		records = append(records, item)
	}

	payload := map[string]any{
		"generated_at": stamp(generatedAt),
		"records":      records,
	}

	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fn, append(raw, '\n'), 0o644)
}

func dumpCSV(tbl *Table, fn string) error {
	var (
		raw []byte
		err error
	)

	if tbl.hasFinancials() {
		raw, err = gocsv.MarshalBytes(&tbl.Rows)
	} else {
		members := make([]memberRow, 0, len(tbl.Rows))
		for _, row := range tbl.Rows {
			members = append(members, memberRow{
				Index:  row.Index,
				Code:   row.Code,
				Name:   row.Name,
				Sector: row.Sector,
				Weight: row.Weight,
			})
		}
		raw, err = gocsv.MarshalBytes(&members)
	}

	if err != nil {
		return err
	}
	return os.WriteFile(fn, raw, 0o644)
}

func dumpParquet(tbl *Table, fn string) error {
	fh, err := local.NewLocalFileWriter(fn)
	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("cannot create local file")
		return err
	}
	defer fh.Close()

	pw, err := writer.NewParquetWriter(fh, new(parquetRow), 4)
	if err != nil {
		return err
	}

	pw.RowGroupSize = 128 * 1024 * 1024 // 128M
	pw.PageSize = 8 * 1024              // 8k
	pw.CompressionType = parquet.CompressionCodec_ZSTD

	for _, row := range tbl.Rows {
		rec := &parquetRow{
			Index:     row.Index,
			Code:      row.Code,
			Name:      row.Name,
			Sector:    row.Sector,
			Weight:    row.Weight.Ptr(),
			PBR:       row.PBR.Ptr(),
			ROE:       row.ROE.Ptr(),
			DY:        row.DY.Ptr(),
			MarketCap: row.MarketCap.Ptr(),
		}
		if row.Date != "" {
			dt := row.Date
			rec.Date = &dt
		}
		if err := pw.Write(rec); err != nil {
			log.Error().Err(err).Object("Row", &row).Msg("parquet write failed for record")
			return err
		}
	}

	return pw.WriteStop()
}
