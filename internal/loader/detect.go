package loader

import (
	"path/filepath"
	"strings"
)

// Kind is the content type of an input file.
type Kind int

// Supported input file kinds.
const (
	ROM Kind = iota
	Snapshot
)

func (k Kind) String() string {
	switch k {
	case ROM:
		return "rom"
	case Snapshot:
		return "snapshot"
	default:
		return "unknown"
	}
}

// DetectKind determines the file kind based on the file extension.
func DetectKind(filename string) Kind {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".c8s", ".state":
		return Snapshot
	case ".ch8", ".c8", ".rom":
		return ROM
	default:
		// raw binaries without a known extension are treated as programs
		return ROM
	}
}
