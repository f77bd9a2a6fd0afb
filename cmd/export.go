// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"adtbridge/cli/internal/adt"
	"adtbridge/cli/internal/dsn"
	"adtbridge/cli/internal/logging"
	"adtbridge/cli/internal/sqlexec"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// ExportDSNEnv supplies the target database when --to is not given.
const ExportDSNEnv = "ADTBRIDGE_EXPORT_DSN"

var (
	exportTo       string
	exportTable    string
	exportNoCreate bool
	exportTruncate bool
)

// exportCmd runs a statement and copies the rows into a PostgreSQL table.
var exportCmd = &cobra.Command{
	Use:   "export [SQL]",
	Short: "Copy a query result into a PostgreSQL table",
	Long: `The export command runs one statement like 'query' and loads the rows into a
PostgreSQL table with COPY. The table is created when missing, with column
types derived from the ABAP types (integers, floats, dates and timestamps keep
their type; everything else becomes text, raw data becomes bytea).

The target database is taken from --to, ` + ExportDSNEnv + ` or DATABASE_URL.

Example:
  adtbridge export "SELECT * FROM scarr" --table staging.scarr --truncate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(exportTable) == "" {
			return fmt.Errorf("--table is required")
		}
		if err := checkPageFlags(queryLimit, queryOffset); err != nil {
			return err
		}
		sql, err := readSQL(args, queryFile)
		if err != nil {
			return err
		}
		target, err := exportDSN()
		if err != nil {
			return err
		}

		s, err := openSession()
		if err != nil {
			return report(err, "", "loading the configuration")
		}
		defer s.close()

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

		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Target: ") + pterm.NewStyle(pterm.FgLightBlue).Sprint(logging.Mask(target)))

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
		defer cancel()
		stop = startSpinner(fmt.Sprintf("copying %d rows", len(res.Rows)))
		ex, err := sqlexec.Open(ctx, target, s.logger)
		if err != nil {
			stop()
			fmt.Println("❌ Connection failed. Please check the target database and network connection.")
			return err
		}
		defer ex.Close()
		n, err := ex.Export(ctx, exportTable, res.Columns, res.Rows, sqlexec.Options{
			Create:   !exportNoCreate,
			Truncate: exportTruncate,
		})
		stop()
		if err != nil {
			return err
		}
		fmt.Printf("✅ Copied %d rows into %s\n", n, exportTable)
		return nil
	},
}

// exportDSN resolves and normalizes the target PostgreSQL connection string.
func exportDSN() (string, error) {
	raw := strings.TrimSpace(exportTo)
	for _, env := range []string{ExportDSNEnv, "DATABASE_URL"} {
		if raw != "" {
			break
		}
		raw = strings.TrimSpace(os.Getenv(env))
	}
	if raw == "" {
		return "", fmt.Errorf("no target database; use --to or set %s", ExportDSNEnv)
	}
	if dsn.DetectKind(raw) != dsn.KindPostgreSQL {
		return "", fmt.Errorf("target must be a postgres:// connection string")
	}
	return dsn.Parse(raw)
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addQueryFlags(exportCmd)
	exportCmd.Flags().StringVar(&exportTo, "to", "", "Target PostgreSQL connection string")
	exportCmd.Flags().StringVar(&exportTable, "table", "", "Target table, optionally schema-qualified")
	exportCmd.Flags().BoolVar(&exportNoCreate, "no-create", false, "Do not create the table when it is missing")
	exportCmd.Flags().BoolVar(&exportTruncate, "truncate", false, "Empty the table before loading")
}
