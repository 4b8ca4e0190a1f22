// Package cmd defines the command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgPath  string
	dataPath string
)

var rootCmd = &cobra.Command{
	Use:   "loadplan",
	Short: "Transport loading planner",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "dataset.json", "masters and demand dataset")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
