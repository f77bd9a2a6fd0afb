// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package render prints query results and column metadata as a table, JSON or CSV.
package render

import (
	"bytes"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"adtbridge/cli/internal/wire"

	"github.com/pterm/pterm"
)

// Format is an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// ParseFormat validates a format name; empty means table.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatCSV:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown output format %q (use table, json or csv)", s)
}

// Renderer writes results to out.
type Renderer struct {
	out    io.Writer
	format Format
	// MaxRows truncates table output; 0 prints everything.
	MaxRows int
}

// NewRenderer creates a renderer instance.
func NewRenderer(out io.Writer, format Format) *Renderer {
	return &Renderer{out: out, format: format}
}

// Rows prints rs in the configured format.
func (r *Renderer) Rows(rs *wire.RowSet) error {
	switch r.format {
	case FormatJSON:
		return r.json(rs)
	case FormatCSV:
		return r.csv(rs)
	default:
		return r.table(rs)
	}
}

func (r *Renderer) table(rs *wire.RowSet) error {
	names := rs.ColumnNames()
	rows := rs.Rows
	if r.MaxRows > 0 && len(rows) > r.MaxRows {
		rows = rows[:r.MaxRows]
	}
	if len(names) > 0 {
		data := pterm.TableData{names}
		for _, row := range rows {
			line := make([]string, len(names))
			for i, n := range names {
				line[i] = Text(row[n])
			}
			data = append(data, line)
		}
		s, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, s)
	}
	fmt.Fprintln(r.out, Summary(rs, len(rows)))
	return nil
}

// Summary describes how many rows were printed out of how many exist.
func Summary(rs *wire.RowSet, shown int) string {
	s := fmt.Sprintf("%d row", shown)
	if shown != 1 {
		s += "s"
	}
	if shown < len(rs.Rows) {
		s += fmt.Sprintf(" shown of %d fetched", len(rs.Rows))
	}
	if rs.Total != nil {
		s += fmt.Sprintf(" (%d total)", *rs.Total)
	}
	return s
}

func (r *Renderer) csv(rs *wire.RowSet) error {
	w := csv.NewWriter(r.out)
	names := rs.ColumnNames()
	if err := w.Write(names); err != nil {
		return err
	}
	line := make([]string, len(names))
	for _, row := range rs.Rows {
		for i, n := range names {
			line[i] = Text(row[n])
		}
		if err := w.Write(line); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// json writes an array of objects with keys in column order.
func (r *Renderer) json(rs *wire.RowSet) error {
	names := rs.ColumnNames()
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range rs.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("\n  {")
		for j, n := range names {
			if j > 0 {
				buf.WriteString(", ")
			}
			k, _ := json.Marshal(n)
			v, err := json.Marshal(row[n])
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteString(": ")
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	if len(rs.Rows) > 0 {
		buf.WriteByte('\n')
	}
	buf.WriteString("]\n")
	_, err := r.out.Write(buf.Bytes())
	return err
}

// Columns prints column metadata.
func (r *Renderer) Columns(table string, cols []wire.Column) error {
	switch r.format {
	case FormatJSON:
		type column struct {
			Name        string `json:"name"`
			Type        string `json:"type"`
			DataType    string `json:"data_type"`
			Length      int    `json:"length"`
			Key         bool   `json:"key"`
			Description string `json:"description"`
		}
		out := make([]column, len(cols))
		for i, c := range cols {
			out[i] = column{c.Name, string(c.Type), c.Type.DataType(), c.Length, c.Key, c.Description}
		}
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case FormatCSV:
		w := csv.NewWriter(r.out)
		_ = w.Write([]string{"name", "type", "data_type", "length", "key", "description"})
		for _, c := range cols {
			_ = w.Write([]string{c.Name, string(c.Type), c.Type.DataType(), strconv.Itoa(c.Length), strconv.FormatBool(c.Key), c.Description})
		}
		w.Flush()
		return w.Error()
	}
	data := pterm.TableData{{"Column", "Type", "Data type", "Length", "Key", "Description"}}
	for _, c := range cols {
		key := ""
		if c.Key {
			key = "✓"
		}
		data = append(data, []string{c.Name, string(c.Type), c.Type.DataType(), strconv.Itoa(c.Length), key, c.Description})
	}
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s\n%s\n", table, s)
	return nil
}

// Text formats a cell for table and CSV output: nil is empty, bytes are hex.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return hex.EncodeToString(t)
	default:
		return fmt.Sprint(t)
	}
}
