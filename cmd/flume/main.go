// flume is a small HTTP client CLI built on the flume pipeline core.
//
// Usage:
//
//	flume get https://api.example.com/user --pretty
//	flume get https://api.example.com/user --config client.yaml
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "flume",
		Short:         "HTTP client driven by a middleware pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGetCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "flume:", err)
		os.Exit(1)
	}
}
