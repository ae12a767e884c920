package runner

import (
	"fmt"
	"time"

	"github.com/atlanticdynamic/lynxrun/internal/fancy"
	"github.com/gofrs/uuid/v5"
	"github.com/robbyt/go-loglater/storage"
)

// Result is the outcome of one test file.
type Result struct {
	File     string
	Passed   bool
	Exports  any
	Err      error
	Duration time.Duration
}

// ModuleError is a failed load of a module that is not itself a test file,
// such as a dynamic import.
type ModuleError struct {
	ID  string
	Err error
}

// Report summarizes one run cycle.
type Report struct {
	ID          uuid.UUID
	StartedAt   time.Time
	Duration    time.Duration
	Invalidated int
	// Compiled counts cache entries holding a compiled program after the cycle.
	Compiled  int
	Results   []Result
	Unhandled []ModuleError
	Logs      []storage.Record
}

// Failed returns the number of failed files.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed {
			n++
		}
	}
	return n
}

// Passed reports whether every file passed and no module failed.
func (r *Report) Passed() bool {
	return r.Failed() == 0 && len(r.Unhandled) == 0
}

// unhandledWidth caps rejection messages, which can carry a whole import chain.
const unhandledWidth = 160

// String renders the report as a tree.
func (r *Report) String() string {
	if r == nil {
		return "Report(nil)"
	}
	t := fancy.Tree()
	t.Root(fancy.RootStyle.Render(fmt.Sprintf("Run %s", r.ID)))

	for _, res := range r.Results {
		node := fancy.ResultTree(res.File, res.Passed).Tree()
		node.Child(fancy.InfoStyle.Render(res.Duration.Round(time.Millisecond).String()))
		if res.Err != nil {
			node.Child(fancy.ErrorText(res.Err.Error()))
		}
		t.Child(node)
	}

	if len(r.Unhandled) > 0 {
		unhandled := fancy.BranchNode("Unhandled", fmt.Sprintf("(%d)", len(r.Unhandled)))
		for _, e := range r.Unhandled {
			msg := fancy.TruncateString(e.Err.Error(), unhandledWidth)
			unhandled.Child(fancy.ModuleText(e.ID, "failed") + " " + fancy.ErrorText(msg))
		}
		t.Child(unhandled)
	}

	summary := fmt.Sprintf("%d files, %d failed, %s", len(r.Results), r.Failed(), r.Duration.Round(time.Millisecond))
	if r.Passed() {
		t.Child(fancy.PassText(summary))
	} else {
		t.Child(fancy.ErrorText(summary))
	}
	return t.String()
}

// filePassed decides a file's outcome from its exports: false, or a map whose
// "passed" entry is false, fails the file.
func filePassed(exports any) bool {
	switch v := exports.(type) {
	case bool:
		return v
	case map[string]any:
		if p, ok := v["passed"].(bool); ok {
			return p
		}
	}
	return true
}
