package main

import (
	"os"

	"github.com/loykin/xentral/internal/common"
)

// ExitHandler provides a testable way to handle program termination
type ExitHandler interface {
	Exit(code int)
	LogFatalError(err error, msg string, keyvals ...any)
}

type DefaultExitHandler struct{}

func (DefaultExitHandler) Exit(code int) {
	os.Exit(code)
}

// LogFatalError logs err with the current default logger and exits with status 1.
func (h DefaultExitHandler) LogFatalError(err error, msg string, keyvals ...any) {
	allKeyvals := append([]any{"error", err}, keyvals...)
	common.GetLogger().WithComponent("main").Error(msg, allKeyvals...)
	h.Exit(1)
}

// Global exit handler (can be replaced for testing)
var exitHandler ExitHandler = DefaultExitHandler{}
