// Package sources turns filesystems and git patch streams into scan
// targets. Each source does its own sniffing: archives are expanded in
// place, binary files are dropped before they reach the decoder.
package sources

import (
	"github.com/h2non/filetype"
)

// InnerPathSeparator joins an archive path to the path of an entry inside
// it when naming nested resources.
const InnerPathSeparator = "!"

// sniffLen is how many leading bytes type detection needs.
const sniffLen = 262

// isBinary reports whether the leading bytes carry a known non-text magic
// number. Archives never reach here; they are expanded first. Anything
// type detection cannot place is treated as text and left to the decoder.
func isBinary(head []byte) bool {
	t, err := filetype.Match(head)
	return err == nil && t != filetype.Unknown && t.MIME.Type != "text"
}
