package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/loykin/xentral"
	"github.com/loykin/xentral/cmd/xentral/config"
	"github.com/spf13/viper"
)

// app is the loaded configuration shared by every command.
type app struct {
	doc     config.ConfigDoc
	baseDir string
	noStore bool
}

// loadApp reads the config file, applies XENTRAL_* overrides and configures logging.
// A missing file at the default location is not an error.
func loadApp(v *viper.Viper) (*app, error) {
	a := &app{baseDir: ".", noStore: v.GetBool("no_store")}
	path := strings.TrimSpace(v.GetString("config"))
	if path != "" {
		err := a.doc.Load(path)
		switch {
		case err == nil:
			a.baseDir = filepath.Dir(path)
		case errors.Is(err, os.ErrNotExist) && filepath.Clean(path) == filepath.Clean(defaultConfigPath):
		default:
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	if s := v.GetString("url"); s != "" {
		a.doc.Credentials.URL = s
	}
	if s := v.GetString("username"); s != "" {
		a.doc.Credentials.Username = s
	}
	if s := v.GetString("password"); s != "" {
		a.doc.Credentials.Password = s
	}
	if err := a.doc.Validate(); err != nil {
		return nil, err
	}
	if err := a.doc.SetupLogging(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) logger() *xentral.Logger {
	return xentral.GetLogger().WithComponent("cli")
}

// openStore returns nil when recording is disabled.
func (a *app) openStore() (*xentral.Store, error) {
	if a.noStore {
		return nil, nil
	}
	cfg := a.doc.StoreOptions(a.baseDir)
	if cfg == nil {
		return nil, nil
	}
	return xentral.OpenStore(*cfg)
}

func closeStore(st *xentral.Store) {
	if st == nil {
		return
	}
	if err := st.Close(); err != nil {
		xentral.GetLogger().Warn("failed to close store", "error", err)
	}
}
