package state

import (
	"errors"
	"strings"
)

// ErrStateNotInstalled is wrapped by every ConfigurationError.
var ErrStateNotInstalled = errors.New("lynxrun failed to access its internal worker state")

// likelyCauses is the diagnostic shown when worker state is requested before
// it was installed.
var likelyCauses = []string{
	`the lynxrun packages are used directly without running the "lynxrun run" command`,
	`they are used inside a global setup hook, which runs in a different context than the worker (use a per-file setup instead)`,
	`they are used while the lynxrun configuration file itself is being loaded`,
	`otherwise, it might be a lynxrun bug; please report it with the command you ran`,
}

// ConfigurationError reports that worker state was requested before any state
// was installed.
type ConfigurationError struct {
	Causes []string
}

func newConfigurationError() *ConfigurationError {
	return &ConfigurationError{Causes: likelyCauses}
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString(ErrStateNotInstalled.Error())
	b.WriteString(".\n\nOne of the following is possible:")
	for _, c := range e.Causes {
		b.WriteString("\n- ")
		b.WriteString(c)
	}
	return b.String()
}

func (e *ConfigurationError) Unwrap() error {
	return ErrStateNotInstalled
}
