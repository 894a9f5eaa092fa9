package ui

import "fmt"

// truncationIndicatorFormat is the format string for the truncation indicator line.
// It shows how many lines were omitted from the middle of the output.
const truncationIndicatorFormat = "[... %d lines truncated ...]"

// TruncationConfig controls how cat output is shortened. It keeps the beginning
// and end of a file and replaces the middle with a single indicator line.
type TruncationConfig struct {
	// HeadLines is the number of lines to preserve from the beginning of the output.
	HeadLines int
	// TailLines is the number of lines to preserve from the end of the output.
	TailLines int
	// Enabled controls whether truncation is active. When false, output is returned unchanged.
	Enabled bool
}

// DefaultTruncationConfig returns 40 head lines and 20 tail lines with truncation disabled,
// so cat prints whole files unless configured otherwise.
func DefaultTruncationConfig() TruncationConfig {
	return TruncationConfig{
		HeadLines: 40,
		TailLines: 20,
		Enabled:   false,
	}
}

// TruncateLines keeps the first HeadLines and last TailLines of lines with an
// indicator in between. It returns the lines to show and how many were dropped.
// The input slice is never modified.
func TruncateLines(lines []string, config TruncationConfig) ([]string, int) {
	head, tail := max(config.HeadLines, 0), max(config.TailLines, 0)
	if !config.Enabled || len(lines) <= head+tail {
		return lines, 0
	}

	removed := len(lines) - head - tail
	result := make([]string, 0, head+1+tail)
	result = append(result, lines[:head]...)
	result = append(result, fmt.Sprintf(truncationIndicatorFormat, removed))
	result = append(result, lines[len(lines)-tail:]...)
	return result, removed
}
