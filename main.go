// Package main is the entry point for the evaldb CLI.
package main

import (
	"evaldb/cli/cmd"
)

func main() {
	cmd.Execute()
}
