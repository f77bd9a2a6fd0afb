// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"
	"strings"

	"adtbridge/cli/internal/render"

	"github.com/spf13/cobra"
)

var describeOutput string

// describeCmd prints the dictionary metadata of a table or view.
var describeCmd = &cobra.Command{
	Use:   "describe TABLE",
	Short: "Show the columns of a dictionary table or view",
	Long: `The describe command asks the data preview service for the column metadata of a
DDIC table or view: name, ABAP type, length, key flag and description.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return report(err, "", "loading the configuration")
		}
		defer s.close()

		format := describeOutput
		if format == "" {
			format = s.cfg.Output
		}
		f, err := render.ParseFormat(format)
		if err != nil {
			return err
		}

		table := strings.ToUpper(strings.TrimSpace(args[0]))
		stop := startSpinner("reading " + table)
		cols, err := s.api.Describe(cmd.Context(), table)
		stop()
		if err != nil {
			return report(err, s.host, "describing "+table)
		}
		return render.NewRenderer(os.Stdout, f).Columns(table, cols)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVarP(&describeOutput, "output", "o", "", "Output format: table, json or csv")
}
