package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"beatsync/internal/deps"
)

// statusStyle is the bracketed tag and ANSI color of one status line.
type statusStyle struct {
	tag   string
	color string
}

var (
	styleOK    = statusStyle{tag: "OK", color: "\x1b[32m"}
	styleWarn  = statusStyle{tag: "WARN", color: "\x1b[33m"}
	styleError = statusStyle{tag: "ERROR", color: "\x1b[31m"}
	styleHint  = statusStyle{tag: "HINT", color: "\x1b[34m"}
)

const ansiReset = "\x1b[0m"

// dependencyLine renders one binary check: the resolved path when found,
// the failure detail otherwise.
func dependencyLine(status deps.Status, colorize bool) string {
	switch {
	case status.Available:
		return statusLine(status.Name, styleOK, status.Path, colorize)
	case status.Optional:
		return statusLine(status.Name, styleWarn, status.Detail, colorize)
	default:
		return statusLine(status.Name, styleError, status.Detail, colorize)
	}
}

func statusLine(label string, style statusStyle, message string, colorize bool) string {
	line := fmt.Sprintf("  %-10s [%s]", label+":", style.tag)
	if message != "" {
		line += " " + message
	}
	if colorize {
		line = style.color + line + ansiReset
	}
	return line
}

// shouldColorize reports whether writer is a terminal and NO_COLOR is unset.
func shouldColorize(writer io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
