package tree

import "path/filepath"

// Glyphs used to draw the diagram.
const (
	// Pipe is the trunk connector printed under the root line.
	Pipe = "|"
	// Elbow connects the last entry of a sibling group.
	Elbow = "└──"
	// Tee connects every entry that has siblings after it.
	Tee = "├──"
	// PipePrefix continues an ancestor branch that has more siblings.
	PipePrefix = "│   "
	// SpacePrefix pads under an ancestor that was the last of its group.
	SpacePrefix = "    "

	// CodeFence wraps output written to a file.
	CodeFence = "```"
)

// separator is appended to every directory name.
var separator = string(filepath.Separator)
