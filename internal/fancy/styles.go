package fancy

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles shared by the config tree and the run report.
var (
	RootStyle = lipgloss.NewStyle().
			Foreground(colorTitle).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(colorHeader).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(colorDetail).
			Italic(true)

	BranchStyle = lipgloss.NewStyle().
			Foreground(colorBranch)

	ComponentStyle = lipgloss.NewStyle().
			Foreground(colorCount)

	ModuleStyle = lipgloss.NewStyle().
			Foreground(colorModule)

	EnvironmentStyle = lipgloss.NewStyle().
				Foreground(colorEnv)

	PassStyle = lipgloss.NewStyle().
			Foreground(colorPass)

	PendingStyle = lipgloss.NewStyle().
			Foreground(colorPending)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorFail)
)

// ModuleText styles a module identifier followed by its lifecycle status
func ModuleText(id, status string) string {
	return ModuleStyle.Render(id) + " " + InfoStyle.Render("("+status+")")
}

// EnvironmentText styles an environment name
func EnvironmentText(text string) string {
	return EnvironmentStyle.Render(text)
}

// PassText styles passing status text (green)
func PassText(text string) string {
	return PassStyle.Render(text)
}

// PendingText styles in-flight status text (yellow)
func PendingText(text string) string {
	return PendingStyle.Render(text)
}

// ErrorText styles error text (red)
func ErrorText(text string) string {
	return ErrorStyle.Render(text)
}

// PathText styles file paths (gray)
func PathText(text string) string {
	return InfoStyle.Render(text)
}

// CountText styles count numbers (cyan)
func CountText(text string) string {
	return ComponentStyle.Render(text)
}
