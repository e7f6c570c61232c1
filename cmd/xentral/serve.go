package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/loykin/xentral/internal/server"
	"github.com/loykin/xentral/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve describe, resolve and execute over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(viper.GetViper())
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")
		srv, cleanup, err := newServer(a, addr)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func newServer(a *app, addr string) (*server.Server, func(), error) {
	exec, err := a.doc.NewExecutor()
	if err != nil {
		return nil, nil, err
	}
	st, err := a.openStore()
	if err != nil {
		return nil, nil, err
	}
	cfg := server.Config{
		Addr:        util.TrimWithDefault(addr, strings.TrimSpace(a.doc.Server.Addr)),
		JWT:         a.doc.JWTVerify(),
		Credentials: a.doc.CredentialMap(),
		Executor:    exec,
	}
	if st != nil {
		cfg.Recorder = st
	}
	if cfg.JWT == nil {
		a.logger().Warn("server.jwt_secret is not set; /v1 routes are unauthenticated and request credentials are refused")
	}
	return server.New(cfg), func() { closeStore(st) }, nil
}
