package main

import (
	"io"

	"github.com/loykin/xentral"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the request each item would send, without credentials or network access",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viper.GetViper()
		a, err := loadApp(v)
		if err != nil {
			return err
		}
		f, err := readSelectionFlags(cmd)
		if err != nil {
			return err
		}
		return resolveItems(a, f, cmd.InOrStdin(), cmd.OutOrStdout(), v.GetString("output"))
	},
}

type resolveOutput struct {
	Requests []xentral.RequestSpec `json:"requests" yaml:"requests"`
}

func resolveItems(a *app, f selectionFlags, stdin io.Reader, out io.Writer, format string) error {
	host, err := buildHost(f, nil, stdin)
	if err != nil {
		return err
	}
	specs, err := xentral.ResolveItems(host)
	if err != nil {
		return err
	}
	a.logger().Debug("resolved requests", "count", len(specs))
	return writeOutput(out, format, resolveOutput{Requests: specs})
}
