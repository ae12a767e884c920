// Package writers opens the destination that worker logs are written to.
package writers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// WriterType represents the type of writer to create
type WriterType string

const (
	WriterTypeStdout WriterType = "stdout"
	WriterTypeStderr WriterType = "stderr"
	WriterTypeFile   WriterType = "file"
)

// Output is an opened log destination. Close releases file handles and is a
// no-op for the standard streams.
type Output struct {
	io.Writer
	Type WriterType
	file *os.File
}

// Close closes the underlying file, if any.
func (o *Output) Close() error {
	if o.file == nil {
		return nil
	}
	return o.file.Close()
}

// Open creates an Output for an output string.
// Supported formats:
//   - "stderr" or "" - writes to os.Stderr
//   - "stdout" - writes to os.Stdout
//   - "file:///path/to/file" - appends to a file (creates directories if needed)
//   - "/path/to/file" or "logs/worker.log" - same as file://
func Open(output string) (*Output, error) {
	switch ParseWriterType(output) {
	case WriterTypeStdout:
		return &Output{Writer: os.Stdout, Type: WriterTypeStdout}, nil
	case WriterTypeStderr:
		return &Output{Writer: os.Stderr, Type: WriterTypeStderr}, nil
	}

	if strings.Contains(output, "://") && !strings.HasPrefix(output, "file://") {
		return nil, fmt.Errorf("unsupported output format: %s", output)
	}
	if !strings.HasPrefix(output, "file://") && !isFilePath(output) {
		return nil, fmt.Errorf("unsupported output format: %s", output)
	}

	file, err := openFile(strings.TrimPrefix(output, "file://"))
	if err != nil {
		return nil, err
	}
	return &Output{Writer: file, Type: WriterTypeFile, file: file}, nil
}

// isFilePath determines if the string represents a local file path
func isFilePath(path string) bool {
	return strings.Contains(path, "/") ||
		strings.Contains(path, "\\") ||
		filepath.Ext(path) == ".log"
}

// openFile opens a file for appending, ensuring the directory exists
func openFile(filePath string) (*os.File, error) {
	dir := filepath.Dir(filePath)
	if dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	return file, nil
}

// ParseWriterType determines the writer type from an output string
func ParseWriterType(output string) WriterType {
	switch output {
	case "", "stderr":
		return WriterTypeStderr
	case "stdout":
		return WriterTypeStdout
	default:
		return WriterTypeFile
	}
}
