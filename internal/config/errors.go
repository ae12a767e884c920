package config

import "github.com/atlanticdynamic/lynxrun/internal/config/errz"

// Re-exported so callers of this package need not import errz.
var (
	ErrFailedToLoadConfig     = errz.ErrFailedToLoadConfig
	ErrFailedToValidateConfig = errz.ErrFailedToValidateConfig
	ErrUnsupportedConfigVer   = errz.ErrUnsupportedConfigVer
	ErrParseToml              = errz.ErrParseToml
)
