// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dialect rewrites generic SQL text into the OpenSQL accepted by the
// data preview service and emulates offset pagination on top of the only
// paging control the service understands: an absolute row ceiling.
//
// This is not a SQL parser. Every rewrite is a targeted textual change.
package dialect

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"adtbridge/cli/internal/endpoint"
	aerr "adtbridge/cli/internal/errors"
)

const (
	// MaxRows is the per-call row cap of the service and the default ceiling.
	MaxRows = 99999
	// MaxLineLength is the longest body line the service accepts.
	MaxLineLength = 255
	// RowNumberParam is the URL parameter carrying the ceiling.
	RowNumberParam = "rowNumber"
)

var (
	// reUpTo matches the paging clause. A plain "UP TO n ROWS" is valid OpenSQL and is left alone.
	reUpTo    = regexp.MustCompile(`(?i)[ \t]*\bUP\s+TO\s+(\d+)\s+OFFSET\s+(\d+)\b`)
	reAnyUpTo = regexp.MustCompile(`(?i)\bUP\s+TO\s+\d+`)
	reLimit   = regexp.MustCompile(`(?i)\bLIMIT\s+(\d+)(\s+OFFSET\s+\d+)?`)
)

// Query is a generic SQL string aimed at one endpoint.
type Query struct {
	SQL      string
	Endpoint endpoint.Endpoint
}

// Options tune the translation.
type Options struct {
	// Generic enables the generic-to-OpenSQL normalization (LIMIT to UP TO, identifier quotes removed).
	Generic bool
}

// Translated is the rewritten query and its pagination plan.
type Translated struct {
	SQL string
	// Ceiling is the number of rows requested from row 0.
	Ceiling int
	// Offset is the number of leading rows to discard locally.
	Offset int
}

// Params returns the URL parameters carrying the ceiling.
func (t Translated) Params() url.Values {
	return url.Values{RowNumberParam: {strconv.Itoa(t.Ceiling)}}
}

// Paged reports whether the source carried an explicit limit.
func (t Translated) Paged() bool { return t.Ceiling != MaxRows || t.Offset != 0 }

// Translate applies the rewrites in order: comment stripping, CRLF line
// breaks, UP TO / OFFSET extraction and word wrapping. The ceiling never
// exceeds MaxRows and is never below the offset.
func Translate(sql string, opts Options) Translated {
	if opts.Generic {
		sql = Normalize(sql)
	}
	sql = StripComments(sql)
	sql = NormalizeLineBreaks(sql)

	t := Translated{Ceiling: MaxRows}
	sql, t.Ceiling, t.Offset = extractPage(sql)

	t.SQL = WordWrap(strings.TrimRight(sql, " \t\r\n"), MaxLineLength)
	return t
}

// Normalize turns common generic SQL into OpenSQL: LIMIT n [OFFSET m] becomes
// UP TO n OFFSET m (m defaults to 0) and double-quoted identifiers lose their quotes.
func Normalize(sql string) string {
	sql = reLimit.ReplaceAllStringFunc(sql, func(m string) string {
		sub := reLimit.FindStringSubmatch(m)
		if sub[2] == "" {
			return "UP TO " + sub[1] + " OFFSET 0"
		}
		return "UP TO " + sub[1] + sub[2]
	})
	return strings.ReplaceAll(sql, `"`, "")
}

// HasPage reports whether sql already limits its rows with UP TO (or LIMIT in
// generic mode) outside of comments.
func HasPage(sql string, opts Options) bool {
	if opts.Generic {
		sql = Normalize(sql)
	}
	return reAnyUpTo.MatchString(StripComments(sql))
}

// StripComments removes "--" line comments. A "--" inside a single-quoted
// literal is kept.
func StripComments(sql string) string {
	var sb strings.Builder
	sb.Grow(len(sql))
	inQuote := false
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
		case c == '\n' || c == '\r':
			inQuote = false
		case !inQuote && c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			for i < len(sql) && sql[i] != '\n' && sql[i] != '\r' {
				i++
			}
			if i < len(sql) {
				sb.WriteByte(sql[i])
			}
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// NormalizeLineBreaks converts CRLF, CR and LF line breaks to CRLF.
func NormalizeLineBreaks(sql string) string {
	sql = strings.ReplaceAll(sql, "\r\n", "\n")
	sql = strings.ReplaceAll(sql, "\r", "\n")
	return strings.ReplaceAll(sql, "\n", "\r\n")
}

// extractPage removes the first UP TO n OFFSET m clause and returns the
// remaining text, the ceiling n+m and the offset m. Both numbers are clamped
// to MaxRows, and so is the ceiling; the clause is always removed.
func extractPage(sql string) (string, int, int) {
	loc := reUpTo.FindStringSubmatchIndex(sql)
	if loc == nil {
		return sql, MaxRows, 0
	}
	limit := pageNumber(sql[loc[2]:loc[3]])
	offset := pageNumber(sql[loc[4]:loc[5]])
	return sql[:loc[0]] + sql[loc[1]:], min(limit+offset, MaxRows), offset
}

// pageNumber parses a clause number; values above MaxRows or too large to parse yield MaxRows.
func pageNumber(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n > MaxRows {
		return MaxRows
	}
	return n
}

// WordWrap breaks every CRLF-separated line longer than width at whitespace.
// Tokens are never split; a token longer than width stays on its own line.
func WordWrap(sql string, width int) string {
	lines := strings.Split(sql, "\r\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\r\n")
}

func wrapLine(line string, width int) []string {
	var out []string
	for len(line) > width {
		cut := strings.LastIndexAny(line[:width+1], " \t")
		if cut <= 0 {
			next := strings.IndexAny(line[width:], " \t")
			if next < 0 {
				break
			}
			cut = width + next
		}
		out = append(out, line[:cut])
		line = line[cut+1:]
	}
	return append(out, line)
}

// WithPage appends an UP TO n OFFSET m clause on its own line, so a trailing
// line comment cannot swallow it. A non-positive limit returns sql unchanged.
func WithPage(sql string, limit, offset int) string {
	if limit <= 0 {
		return sql
	}
	sql = strings.TrimRight(strings.TrimSpace(sql), ";.")
	return fmt.Sprintf("%s\nUP TO %d OFFSET %d", sql, limit, max(offset, 0))
}

// CheckRowCount fails when n rows reached the per-call cap, since more rows may exist.
func CheckRowCount(n int) error {
	if n >= MaxRows {
		return aerr.New(aerr.ResultTooLarge, fmt.Sprintf(
			"query returns too many results: %d rows is the maximum for a single data preview call; add filters or pagination", MaxRows))
	}
	return nil
}
