package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var VERSION = "UNKNOWN"

func main() {
	rootCmd := &cobra.Command{
		Use:          "navpath",
		Short:        "navmesh corridor and funnel path tool",
		Version:      VERSION,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(
		PathCmd(),
		InfoCmd(),
		PackCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
