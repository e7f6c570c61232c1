package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/loykin/xentral"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute an operation once per item and print one output item per input item",
	Example: `  xentral run --resource order --operation create -p 'data={"kundennummer":"10001"}'
  xentral run --resource address --operation getById -i items.yaml -o yaml`,
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
		continueOnFail, _ := cmd.Flags().GetBool("continue-on-fail")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runItems(ctx, a, f, continueOnFail, cmd.InOrStdin(), cmd.OutOrStdout(), v.GetString("output"))
	},
}

func readSelectionFlags(cmd *cobra.Command) (selectionFlags, error) {
	var f selectionFlags
	var err error
	if f.Resource, err = cmd.Flags().GetString("resource"); err != nil {
		return f, err
	}
	if f.Operation, err = cmd.Flags().GetString("operation"); err != nil {
		return f, err
	}
	if f.ItemsPath, err = cmd.Flags().GetString("items"); err != nil {
		return f, err
	}
	if f.Params, err = cmd.Flags().GetStringArray("param"); err != nil {
		return f, err
	}
	return f, nil
}

func runItems(ctx context.Context, a *app, f selectionFlags, continueOnFail bool, stdin io.Reader, out io.Writer, format string) error {
	host, err := buildHost(f, a.doc.CredentialMap(), stdin)
	if err != nil {
		return err
	}
	exec, err := a.doc.NewExecutor()
	if err != nil {
		return err
	}
	st, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	opts := xentral.Options{ContinueOnFail: continueOnFail, Executor: exec}
	if st != nil {
		opts.Recorder = st
	}
	items, err := xentral.Run(ctx, host, opts)
	if err != nil {
		return err
	}
	return writeOutput(out, format, items)
}
