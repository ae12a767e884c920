package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDirectives(t *testing.T) {
	source := `# lynxrun:import ../lib/helpers.star
#lynxrun:import lynxrun:prelude
// lynxrun:import mock:http
  # lynxrun:dynamic-import ./fixtures.star
# lynxrun:import
# an ordinary comment mentioning lynxrun:import
x = 1  # lynxrun:import trailing.star
_ = {"passed": True}
`
	got := ParseDirectives(source)
	assert.Equal(t, []string{"../lib/helpers.star", "lynxrun:prelude", "mock:http"}, got.Imports)
	assert.Equal(t, []string{"./fixtures.star"}, got.DynamicImports)
}

func TestParseDirectives_None(t *testing.T) {
	got := ParseDirectives("_ = True\n")
	assert.Empty(t, got.Imports)
	assert.Empty(t, got.DynamicImports)
}
