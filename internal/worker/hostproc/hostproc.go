// Package hostproc probes and decorates the host operating-system process a
// worker runs in. Every operation here is side-effect free or best-effort.
package hostproc

import (
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"unicode/utf8"
)

// ChannelFDEnv names the environment variable a parent sets to the inherited
// descriptor of its control channel when it spawns a worker process.
const ChannelFDEnv = "LYNXRUN_CHANNEL_FD"

// titlePrefix is prepended to every display title.
const titlePrefix = "lynxrun"

// maxCommLen is the kernel's TASK_COMM_LEN minus the trailing NUL.
const maxCommLen = 15

type probe struct {
	getenv  func(string) string
	getppid func() int
	fdOpen  func(int) bool
}

var host = probe{
	getenv:  os.Getenv,
	getppid: os.Getppid,
	fdOpen:  fdOpen,
}

// IsSubprocessWorker reports whether this process is a child process with an
// active control channel to its parent. In-process workers report false.
func IsSubprocessWorker() bool {
	return host.isSubprocessWorker()
}

func (p probe) isSubprocessWorker() bool {
	raw := strings.TrimSpace(p.getenv(ChannelFDEnv))
	if raw == "" {
		return false
	}
	fd, err := strconv.Atoi(raw)
	if err != nil || fd < 0 {
		return false
	}
	// reparented to init: the parent that owned the channel is gone
	if p.getppid() <= 1 {
		return false
	}
	return p.fdOpen(fd)
}

var title atomic.Value

// SetDisplayTitle renames the process as seen in process listings to
// "lynxrun (<name>)". Failures are ignored.
func SetDisplayTitle(name string) {
	full := titlePrefix + " (" + name + ")"
	title.Store(full)
	defer func() { _ = recover() }()
	_ = setTitle(full)
}

// DisplayTitle returns the last title passed to SetDisplayTitle, formatted.
func DisplayTitle() string {
	if t, ok := title.Load().(string); ok {
		return t
	}
	return ""
}

// truncateComm cuts s to at most maxCommLen bytes without splitting a rune.
func truncateComm(s string) string {
	if len(s) <= maxCommLen {
		return s
	}
	cut := maxCommLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
