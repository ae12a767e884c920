package fancy

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette for config trees and run reports, keyed by what the color marks.
var (
	colorTitle   = lipgloss.Color("39")  // tree roots
	colorHeader  = lipgloss.Color("15")  // section headers
	colorDetail  = lipgloss.Color("250") // paths, statuses in parentheses
	colorBranch  = lipgloss.Color("240") // tree connectors
	colorCount   = lipgloss.Color("45")
	colorModule  = lipgloss.Color("208")
	colorEnv     = lipgloss.Color("201")
	colorPass    = lipgloss.Color("82")
	colorPending = lipgloss.Color("228")
	colorFail    = lipgloss.Color("196")
)
