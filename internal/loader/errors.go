package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrLoader is the base error type for loader package errors.
	ErrLoader = errors.New("loader error")

	ErrEmptySpecifier       = fmt.Errorf("%w: empty import specifier", ErrLoader)
	ErrUnsupportedExtension = fmt.Errorf("%w: unsupported module extension", ErrLoader)
	ErrUnknownEngine        = fmt.Errorf("%w: unknown script engine", ErrLoader)
	ErrUnknownModule        = fmt.Errorf("%w: unknown virtual module", ErrLoader)
	ErrReadSource           = fmt.Errorf("%w: failed to read module source", ErrLoader)
	ErrLoaderCreation       = fmt.Errorf("%w: failed to create script loader", ErrLoader)
	ErrCompilationFailed    = fmt.Errorf("%w: compilation failed", ErrLoader)
	ErrEvaluationFailed     = fmt.Errorf("%w: evaluation failed", ErrLoader)
	ErrImportCycle          = fmt.Errorf("%w: import cycle", ErrLoader)
)
