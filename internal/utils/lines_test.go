package utils

import "testing"

func TestJoinLines(t *testing.T) {
	testCases := []struct {
		name     string
		lines    []string
		expected string
	}{
		{name: "empty", lines: nil, expected: ""},
		{name: "single", lines: []string{"|"}, expected: "|\n"},
		{name: "fenced", lines: []string{"```", "/tmp/x/", "|", "```"}, expected: "```\n/tmp/x/\n|\n```\n"},
		{name: "blank_closing_line", lines: []string{"└── sub/", ""}, expected: "└── sub/\n\n"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if joined := JoinLines(testCase.lines); joined != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, joined)
			}
		})
	}
}
