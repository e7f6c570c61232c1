package main

import (
	"github.com/loykin/xentral"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the node description with its resources, operations and fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeOutput(cmd.OutOrStdout(), viper.GetString("output"), xentral.Describe())
	},
}
