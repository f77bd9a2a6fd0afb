// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package wire

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"adtbridge/cli/internal/logging"

	"github.com/pterm/pterm"
)

// Options control decoding.
type Options struct {
	// Offset is the number of leading rows to discard.
	Offset int
	// IncludeTime keeps the time part of 14-digit date values.
	IncludeTime bool
	Logger      *pterm.Logger
}

type payload struct {
	blocks        []ColumnBlock
	total         string
	hasTotal      bool
	query         string
	executionTime string
}

// Decode reads a data preview payload. Only a malformed document is an error;
// cells that do not fit their declared type are passed through as raw text.
func Decode(r io.Reader, opts Options) (*RowSet, error) {
	logger := logging.OrNop(opts.Logger)
	p, err := parse(r)
	if err != nil {
		return nil, err
	}

	rs := &RowSet{
		Columns:       make([]Column, len(p.blocks)),
		Query:         p.query,
		ExecutionTime: p.executionTime,
	}
	n := -1
	for i, b := range p.blocks {
		rs.Columns[i] = b.Column
		if n < 0 || len(b.Values) < n {
			n = len(b.Values)
		}
	}
	if n < 0 {
		n = 0
	}
	for _, b := range p.blocks {
		if len(b.Values) != n {
			logger.Debug("ragged column block", logger.Args("column", b.Name, "cells", len(b.Values), "rows", n))
		}
	}
	rs.Seen = n

	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	if offset < n {
		rs.Rows = make([]Row, 0, n-offset)
	}
	nz := normalizer{includeTime: opts.IncludeTime, logger: logger}
	for r := offset; r < n; r++ {
		row := make(Row, len(p.blocks))
		for _, b := range p.blocks {
			row[b.Name] = nz.value(b.Column, b.Values[r])
		}
		rs.Rows = append(rs.Rows, row)
	}

	if p.hasTotal {
		if v, err := strconv.Atoi(strings.TrimSpace(p.total)); err == nil {
			// The service sometimes reports 0 although rows were returned.
			if v == 0 && rs.Seen > 0 {
				logger.Debug("total row counter distrusted", logger.Args("reported", v, "decoded", rs.Seen))
				v = rs.Seen
			}
			rs.Total = &v
		} else {
			logger.Debug("total row counter not numeric", logger.Args("value", p.total))
		}
	}
	return rs, nil
}

// DecodeMetadata returns only the column metadata of a payload, e.g. a DDIC lookup.
func DecodeMetadata(r io.Reader) ([]Column, error) {
	p, err := parse(r)
	if err != nil {
		return nil, err
	}
	cols := make([]Column, len(p.blocks))
	for i, b := range p.blocks {
		cols[i] = b.Column
	}
	return cols, nil
}

func parse(r io.Reader) (*payload, error) {
	dec := xml.NewDecoder(r)
	p := &payload{}
	var cur *ColumnBlock
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return p, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode data preview payload: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "columns":
				p.blocks = append(p.blocks, ColumnBlock{})
				cur = &p.blocks[len(p.blocks)-1]
			case "metadata":
				if cur != nil {
					cur.Column = columnFrom(t.Attr)
				}
			case "data":
				text, err := readText(dec)
				if err != nil {
					return nil, fmt.Errorf("decode data preview payload: %w", err)
				}
				if cur != nil {
					cur.Values = append(cur.Values, text)
				}
			case "totalRows":
				if p.total, err = readText(dec); err != nil {
					return nil, fmt.Errorf("decode data preview payload: %w", err)
				}
				p.hasTotal = true
			case "executedQueryString":
				if p.query, err = readText(dec); err != nil {
					return nil, fmt.Errorf("decode data preview payload: %w", err)
				}
			case "queryExecutionTime":
				if p.executionTime, err = readText(dec); err != nil {
					return nil, fmt.Errorf("decode data preview payload: %w", err)
				}
			}
		case xml.EndElement:
			if t.Name.Local == "columns" {
				cur = nil
			}
		}
	}
}

// readText collects the character data up to the end of the current element.
func readText(dec *xml.Decoder) (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			sb.Write(t)
		}
	}
	return sb.String(), nil
}

func columnFrom(attrs []xml.Attr) Column {
	var c Column
	for _, a := range attrs {
		switch a.Name.Local {
		case "name":
			c.Name = a.Value
		case "type":
			c.Type = Kind(strings.TrimSpace(a.Value))
		case "description":
			c.Description = a.Value
		case "length":
			c.Length, _ = strconv.Atoi(strings.TrimSpace(a.Value))
		case "keyAttribute":
			c.Key, _ = strconv.ParseBool(strings.TrimSpace(a.Value))
		}
	}
	return c
}
