package loader

import (
	"fmt"
	"path/filepath"
	"strings"
)

// EngineType identifies the script engine a module is compiled with.
type EngineType int

const (
	EngineUnspecified EngineType = iota
	EngineRisor
	EngineStarlark
)

// String returns a string representation of the EngineType.
func (t EngineType) String() string {
	switch t {
	case EngineRisor:
		return "Risor"
	case EngineStarlark:
		return "Starlark"
	case EngineUnspecified:
		return "Unspecified"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// ParseEngine maps an environment name such as "starlark" to its engine.
func ParseEngine(name string) (EngineType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "starlark", "star":
		return EngineStarlark, nil
	case "risor":
		return EngineRisor, nil
	default:
		return EngineUnspecified, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
}

// EngineForPath picks the engine from a module's file extension.
func EngineForPath(path string) (EngineType, error) {
	switch ext := filepath.Ext(path); ext {
	case ".star", ".starlark":
		return EngineStarlark, nil
	case ".risor":
		return EngineRisor, nil
	default:
		return EngineUnspecified, fmt.Errorf("%w: %q (%s)", ErrUnsupportedExtension, ext, path)
	}
}
