package hostproc

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestProbe_IsSubprocessWorker(t *testing.T) {
	tests := []struct {
		name   string
		env    string
		ppid   int
		fdOpen bool
		want   bool
	}{
		{name: "no channel", env: "", ppid: 100, fdOpen: true, want: false},
		{name: "garbage fd", env: "three", ppid: 100, fdOpen: true, want: false},
		{name: "negative fd", env: "-1", ppid: 100, fdOpen: true, want: false},
		{name: "orphaned", env: "3", ppid: 1, fdOpen: true, want: false},
		{name: "closed channel", env: "3", ppid: 100, fdOpen: false, want: false},
		{name: "active channel", env: "3", ppid: 100, fdOpen: true, want: true},
		{name: "whitespace tolerated", env: " 3 ", ppid: 100, fdOpen: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var probedFD int
			p := probe{
				getenv:  func(string) string { return tt.env },
				getppid: func() int { return tt.ppid },
				fdOpen: func(fd int) bool {
					probedFD = fd
					return tt.fdOpen
				},
			}
			assert.Equal(t, tt.want, p.isSubprocessWorker())
			if tt.want {
				assert.Equal(t, 3, probedFD)
			}
		})
	}
}

func TestIsSubprocessWorker_InProcess(t *testing.T) {
	t.Setenv(ChannelFDEnv, "")
	assert.False(t, IsSubprocessWorker())
}

func TestSetDisplayTitle(t *testing.T) {
	assert.NotPanics(t, func() {
		SetDisplayTitle("starlark")
	})
	assert.Equal(t, "lynxrun (starlark)", DisplayTitle())

	assert.NotPanics(t, func() {
		SetDisplayTitle("a very long worker title that exceeds the kernel limit")
	})
	assert.Equal(t, "lynxrun (a very long worker title that exceeds the kernel limit)", DisplayTitle())
}

func TestTruncateComm(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "short", in: "lynxrun (a)", want: "lynxrun (a)"},
		{name: "exact", in: "lynxrun (abcde)", want: "lynxrun (abcde)"},
		{name: "ascii cut", in: "lynxrun (starlark)", want: "lynxrun (starla"},
		{name: "rune on the boundary", in: "lynxrun (abcdeé)", want: "lynxrun (abcde"},
		{name: "multi-byte runes", in: "lynxrun (日本語)", want: "lynxrun (日本"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateComm(tt.in)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), maxCommLen)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
