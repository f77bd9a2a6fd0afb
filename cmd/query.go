// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"io"
	"os"
	"strings"

	"adtbridge/cli/internal/adt"
	"adtbridge/cli/internal/render"
	"adtbridge/cli/internal/terminal"

	"github.com/spf13/cobra"
)

var (
	queryFile        string
	queryLimit       int
	queryOffset      int
	queryGeneric     bool
	queryIncludeTime bool
	queryOutput      string
	queryMaxRows     int
)

// queryCmd runs one free-style SQL statement and prints the result.
var queryCmd = &cobra.Command{
	Use:   "query [SQL]",
	Short: "Run a free-style SQL statement",
	Long: `The query command sends one SQL statement to the data preview service and prints
the decoded rows. The statement is taken from the arguments, from --file, or
from stdin when neither is given.

Pagination is expressed either with --limit/--offset or directly in the
statement with "UP TO n OFFSET m"; the service always answers from row 0, so
the offset rows are fetched and dropped locally. With --generic, LIMIT n is
accepted as well and double-quoted identifiers are unquoted.

Examples:
  adtbridge query "SELECT carrid, connid FROM sflight" --limit 20
  adtbridge query -f report.sql -o csv > report.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkPageFlags(queryLimit, queryOffset); err != nil {
			return err
		}
		sql, err := readSQL(args, queryFile)
		if err != nil {
			return err
		}
		s, err := openSession()
		if err != nil {
			return report(err, "", "loading the configuration")
		}
		defer s.close()

		format := queryOutput
		if format == "" {
			format = s.cfg.Output
		}
		f, err := render.ParseFormat(format)
		if err != nil {
			return err
		}

		stop := startSpinner("running query")
		res, err := s.api.Query(cmd.Context(), sql, adt.QueryOptions{
			Limit:       queryLimit,
			Offset:      queryOffset,
			Generic:     queryGeneric,
			IncludeTime: queryIncludeTime,
		})
		stop()
		if err != nil {
			return report(err, s.host, "running the query")
		}
		s.logger.Debug("query finished", s.logger.Args(
			"rows", len(res.Rows),
			"seen", res.Seen,
			"ceiling", res.Translated.Ceiling,
			"offset", res.Translated.Offset,
			"server_time", res.ExecutionTime,
		))

		r := render.NewRenderer(os.Stdout, f)
		r.MaxRows = s.cfg.MaxRows
		if cmd.Flags().Changed("max-rows") {
			r.MaxRows = queryMaxRows
		}
		return r.Rows(res.RowSet)
	},
}

// readSQL returns the statement from args, file ("-" for stdin) or piped stdin.
func readSQL(args []string, file string) (string, error) {
	var sql string
	switch {
	case len(args) > 0:
		sql = strings.Join(args, " ")
	case file == "-" || (file == "" && !terminal.IsInteractive()):
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		sql = string(b)
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		sql = string(b)
	}
	if strings.TrimSpace(sql) == "" {
		return "", errors.New("no SQL statement given; pass it as an argument, with --file or on stdin")
	}
	return sql, nil
}

// checkPageFlags rejects --offset without --limit and negative values.
func checkPageFlags(limit, offset int) error {
	switch {
	case limit < 0 || offset < 0:
		return errors.New("--limit and --offset must not be negative")
	case offset > 0 && limit == 0:
		return errors.New("--offset requires --limit")
	}
	return nil
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&queryFile, "file", "f", "", "Read the statement from a file (- for stdin)")
	cmd.Flags().IntVar(&queryLimit, "limit", 0, "Maximum number of rows to return")
	cmd.Flags().IntVar(&queryOffset, "offset", 0, "Number of leading rows to skip (requires --limit)")
	cmd.Flags().BoolVar(&queryGeneric, "generic", false, "Accept LIMIT n and double-quoted identifiers")
	cmd.Flags().BoolVar(&queryIncludeTime, "include-time", false, "Keep the time part of date values")
}

func init() {
	rootCmd.AddCommand(queryCmd)
	addQueryFlags(queryCmd)
	queryCmd.Flags().StringVarP(&queryOutput, "output", "o", "", "Output format: table, json or csv")
	queryCmd.Flags().IntVar(&queryMaxRows, "max-rows", 0, "Truncate table output after n rows (0 prints all)")
}
