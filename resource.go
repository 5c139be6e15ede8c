package copywatch

// Metadata keys used across sources.
const (
	MetaPath          = "path"
	MetaInnerPath     = "inner_path"
	MetaCommitSHA     = "commit_sha"
	MetaAuthorName    = "author_name"
	MetaAuthorEmail   = "author_email"
	MetaCommitMessage = "commit_message"
)

// Resource identifies one scan target: a named byte stream from some
// source, plus whatever metadata the source knows about it.
type Resource struct {
	// Name identifies the target in diagnostics and reports. For files
	// this is the path; for archive entries the outer path plus entry
	// name; for git patches the commit and file.
	Name string

	// Source type: "file", "archive", "git", "stdin".
	Source string

	// SizeHint is the byte size when known, or a negative value when the
	// source cannot tell (e.g. a pipe).
	SizeHint int64

	Metadata map[string]string
}

func (r *Resource) Set(key, value string) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]string)
	}
	r.Metadata[key] = value
}

// Get returns a metadata value by key, or empty string if not found.
func (r *Resource) Get(key string) string {
	if r == nil || r.Metadata == nil {
		return ""
	}
	return r.Metadata[key]
}
