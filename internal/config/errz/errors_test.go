package errz

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedMsg string
	}{
		{name: "ErrFailedToLoadConfig", err: ErrFailedToLoadConfig, expectedMsg: "failed to load config"},
		{name: "ErrFailedToValidateConfig", err: ErrFailedToValidateConfig, expectedMsg: "failed to validate config"},
		{name: "ErrUnsupportedConfigVer", err: ErrUnsupportedConfigVer, expectedMsg: "unsupported config version"},
		{name: "ErrParseToml", err: ErrParseToml, expectedMsg: "failed to parse TOML"},
		{name: "ErrEnvInterpolation", err: ErrEnvInterpolation, expectedMsg: "failed to expand environment variables"},
		{name: "ErrInvalidValue", err: ErrInvalidValue, expectedMsg: "invalid value"},
		{name: "ErrMissingRequiredField", err: ErrMissingRequiredField, expectedMsg: "missing required field"},
		{name: "ErrInvalidPattern", err: ErrInvalidPattern, expectedMsg: "invalid protection pattern"},
		{name: "ErrInvalidLogLevel", err: ErrInvalidLogLevel, expectedMsg: "invalid log level"},
		{name: "ErrInvalidLogFormat", err: ErrInvalidLogFormat, expectedMsg: "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	wrapped := fmt.Errorf("%w: worker.environment", ErrMissingRequiredField)
	require.Error(t, wrapped)
	assert.ErrorIs(t, wrapped, ErrMissingRequiredField)
	assert.NotErrorIs(t, wrapped, ErrInvalidValue)

	joined := errors.Join(wrapped, ErrInvalidLogLevel)
	assert.ErrorIs(t, joined, ErrMissingRequiredField)
	assert.ErrorIs(t, joined, ErrInvalidLogLevel)
}
