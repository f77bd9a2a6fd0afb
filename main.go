// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package main is the entry point for the adtbridge CLI.
// It runs SQL against SAP systems through the ADT data preview service.
package main

import (
	"adtbridge/cli/cmd"
)

func main() {
	cmd.Execute()
}
