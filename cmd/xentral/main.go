package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfigPath = "./config/config.yaml"

var rootCmd = &cobra.Command{
	Use:           "xentral",
	Short:         "Call the Xentral ERP API the way the workflow node does",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Defaults
	v := viper.GetViper()
	v.SetDefault("config", defaultConfigPath)
	v.SetDefault("output", "json")

	// Environment variables support: XENTRAL_CONFIG, XENTRAL_URL, XENTRAL_USERNAME, XENTRAL_PASSWORD, ...
	v.SetEnvPrefix("XENTRAL")
	v.AutomaticEnv()

	rootCmd.PersistentFlags().String("config", v.GetString("config"), "path to a config yaml")
	rootCmd.PersistentFlags().StringP("output", "o", v.GetString("output"), "output format: json or yaml")
	rootCmd.PersistentFlags().Bool("no-store", false, "do not record calls in the history store")
	_ = v.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = v.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = v.BindPFlag("no_store", rootCmd.PersistentFlags().Lookup("no-store"))

	for _, c := range []*cobra.Command{runCmd, resolveCmd} {
		c.Flags().String("resource", "", "resource to call, e.g. order or address")
		c.Flags().String("operation", "", "operation to run, e.g. get or getAll")
		c.Flags().StringP("items", "i", "", "YAML or JSON file with item parameters ('-' for stdin)")
		c.Flags().StringArrayP("param", "p", nil, "run-level parameter as name=value (repeatable)")
	}
	runCmd.Flags().Bool("continue-on-fail", false, "emit {\"error\": ...} for failing items instead of aborting")

	historyCmd.Flags().Int("limit", 0, "number of calls to show (0 = default)")
	historyCmd.Flags().String("run", "", "show every call of one run id")

	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")

	tokenCmd.Flags().String("subject", "", "token subject")
	tokenCmd.Flags().Int64("ttl", 3600, "token lifetime in seconds")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		exitHandler.LogFatalError(err, "command execution failed")
	}
}
