package main

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded calls, newest first, or every call of one run",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viper.GetViper()
		a, err := loadApp(v)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		runID, _ := cmd.Flags().GetString("run")
		return showHistory(cmd.Context(), a, limit, runID, cmd.OutOrStdout(), v.GetString("output"))
	},
}

func showHistory(ctx context.Context, a *app, limit int, runID string, out io.Writer, format string) error {
	st, err := a.openStore()
	if err != nil {
		return err
	}
	if st == nil {
		return errors.New("store is disabled - no call history available")
	}
	defer closeStore(st)

	if runID != "" {
		calls, err := st.ListRun(ctx, runID)
		if err != nil {
			return err
		}
		return writeOutput(out, format, calls)
	}
	calls, err := st.List(ctx, limit)
	if err != nil {
		return err
	}
	return writeOutput(out, format, calls)
}
