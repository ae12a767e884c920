package loader

import (
	"strings"
)

const (
	importDirective        = "lynxrun:import"
	dynamicImportDirective = "lynxrun:dynamic-import"
)

// Directives are the imports a module declares in comments:
//
//	# lynxrun:import ../lib/helpers.star
//	// lynxrun:dynamic-import ./fixtures.risor
//
// Static imports are loaded and evaluated before the module body runs.
// Dynamic imports are started once the body has run and are not awaited.
type Directives struct {
	Imports        []string
	DynamicImports []string
}

// ParseDirectives extracts the import directives from source. Both "#" and
// "//" comments are recognized.
func ParseDirectives(source string) Directives {
	var d Directives
	for line := range strings.Lines(source) {
		body, ok := commentBody(line)
		if !ok {
			continue
		}
		name, arg, _ := strings.Cut(body, " ")
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		switch name {
		case importDirective:
			d.Imports = append(d.Imports, arg)
		case dynamicImportDirective:
			d.DynamicImports = append(d.DynamicImports, arg)
		}
	}
	return d
}

func commentBody(line string) (string, bool) {
	line = strings.TrimSpace(line)
	for _, marker := range []string{"#", "//"} {
		if rest, ok := strings.CutPrefix(line, marker); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}
