// Package main provides the entry point for the munimap CLI tool.
package main

import (
	"github.com/openmuni/munimap/cmd/munimap/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	cmd.Execute(version, commit, date, builtBy)
}
