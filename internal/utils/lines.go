package utils

import "strings"

// JoinLines renders lines as they are written out, each one newline-terminated.
func JoinLines(lines []string) string {
	if len(lines) == 0 {
		return EmptyString
	}
	return strings.Join(lines, "\n") + "\n"
}
