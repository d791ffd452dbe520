package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Console prints operator messages with one style per level:
// info plain, success green, warning bold yellow, error bold red.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	noColor bool
}

// NewConsole writes to out; nil means stdout
func NewConsole(out io.Writer, noColor bool) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out, noColor: noColor}
}

func (c *Console) print(style func(string) string, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if !c.noColor && style != nil {
		msg = style(msg)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, msg)
}

func (c *Console) LogInfo(format string, args ...interface{}) {
	c.print(nil, format, args...)
}

func (c *Console) LogSuccess(format string, args ...interface{}) {
	c.print(Green, format, args...)
}

func (c *Console) LogWarning(format string, args ...interface{}) {
	c.print(BoldYellow, format, args...)
}

func (c *Console) LogError(format string, args ...interface{}) {
	c.print(BoldRed, format, args...)
}

// Summary prints the end-of-run counters
func (c *Console) Summary(found, saved, failedDownloads, failedUploads int) {
	c.print(Cyan, "Saved %s", RenderProgress(saved, found, 20))
	if failedDownloads > 0 || failedUploads > 0 {
		c.LogWarning("Failed downloads: %d, failed uploads: %d", failedDownloads, failedUploads)
	}
}
