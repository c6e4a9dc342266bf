package tree

// DestinationKind identifies where a diagram is delivered.
type DestinationKind int

const (
	// DestinationConsole writes to the console writer without fencing.
	DestinationConsole DestinationKind = iota
	// DestinationFile writes a fenced diagram to a file path.
	DestinationFile
)

// Destination is either the console or a file path.
type Destination struct {
	Kind DestinationKind
	Path string
}

// ConsoleDestination selects the console.
func ConsoleDestination() Destination {
	return Destination{Kind: DestinationConsole}
}

// FileDestination selects the file at path. An existing file is truncated.
func FileDestination(path string) Destination {
	return Destination{Kind: DestinationFile, Path: path}
}

// IsFile reports whether the destination is a file.
func (destination Destination) IsFile() bool {
	return destination.Kind == DestinationFile
}

func (destination Destination) String() string {
	if destination.IsFile() {
		return destination.Path
	}
	return "console"
}
