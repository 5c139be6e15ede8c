package sources

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charlievieth/fastwalk"
	"github.com/mholt/archives"

	"github.com/copywatch/copywatch"
	"github.com/copywatch/copywatch/logging"
	"github.com/copywatch/copywatch/scan"
)

// Files yields scan targets from a directory tree (or a single file).
type Files struct {
	// Path is the root to walk.
	Path string

	// FollowSymlinks resolves file symlinks instead of skipping them.
	FollowSymlinks bool

	// MaxFileSize skips files larger than this many bytes; zero means no
	// limit. Archive entries are bounded by the same limit.
	MaxFileSize int64

	// MaxArchiveDepth bounds nested archive expansion. Zero disables
	// archive expansion entirely.
	MaxArchiveDepth int

	// Skip, when set, drops a path (and, for directories, its subtree)
	// before it is opened.
	Skip func(path string) bool
}

// Targets walks the tree and yields one target per text file, expanding
// archives along the way. Unreadable entries are logged and skipped, not
// fatal.
func (s *Files) Targets(ctx context.Context, yield func(scan.Target) error) error {
	conf := &fastwalk.Config{
		// Symlinks are resolved by hand below so directory targets can be
		// refused.
		Follow: false,
	}

	err := fastwalk.Walk(conf, s.Path, func(path string, d fs.DirEntry, err error) error {
		logger := logging.With().Str("path", path).Logger()

		if err != nil {
			if os.IsPermission(err) {
				logger.Warn().Msg("skipping directory: permission denied")
				return fs.SkipDir
			}
			logger.Warn().Err(err).Msg("skipping")
			return nil
		}

		if d.IsDir() {
			if s.Skip != nil && s.Skip(path) {
				logger.Debug().Msg("skipping directory")
				return fs.SkipDir
			}
			return nil
		}

		if d.Type() == fs.ModeSymlink {
			if !s.FollowSymlinks {
				logger.Debug().Msg("skipping symlink")
				return nil
			}
			real, err := filepath.EvalSymlinks(path)
			if err != nil {
				logger.Warn().Err(err).Msg("skipping symlink: could not resolve")
				return nil
			}
			if info, err := os.Stat(real); err != nil || info.IsDir() {
				logger.Debug().Str("target", real).Msg("skipping symlink: not a regular file")
				return nil
			}
			path = real
		}

		if s.Skip != nil && s.Skip(path) {
			logger.Debug().Msg("skipping file")
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logger.Warn().Err(err).Msg("skipping file: could not stat")
			return nil
		}
		if info.Size() == 0 {
			return nil
		}
		if s.MaxFileSize > 0 && info.Size() > s.MaxFileSize {
			logger.Debug().Int64("size", info.Size()).Msg("skipping file: too large")
			return nil
		}

		return s.yieldFile(ctx, path, info.Size(), yield)
	})

	// A missing root is the caller's typo, not a scan failure.
	if err != nil && os.IsNotExist(err) {
		logging.Warn().Err(err).Str("path", s.Path).Msg("skipping")
		return nil
	}
	return err
}

// yieldFile sniffs one on-disk file and yields it, expands it as an
// archive, or drops it as binary.
func (s *Files) yieldFile(ctx context.Context, path string, size int64, yield func(scan.Target) error) error {
	f, err := os.Open(path)
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("skipping file: could not open")
		return nil
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		_ = f.Close()
		logging.Warn().Err(err).Str("path", path).Msg("skipping file: could not read")
		return nil
	}
	head = head[:n]

	if s.MaxArchiveDepth > 0 {
		if format, _, ferr := archives.Identify(ctx, path, bytes.NewReader(head)); ferr == nil && format != nil {
			data, rerr := s.readBounded(f, head)
			_ = f.Close()
			if rerr != nil {
				logging.Warn().Err(rerr).Str("path", path).Msg("skipping archive: could not read")
				return nil
			}
			return s.expand(ctx, path, data, 1, yield)
		}
	}
	_ = f.Close()

	if isBinary(head) {
		logging.Trace().Str("path", path).Msg("skipping binary file")
		return nil
	}

	res := copywatch.Resource{Name: path, Source: "file", SizeHint: size}
	res.Set(copywatch.MetaPath, path)
	return yield(scan.Target{
		Resource: res,
		Open: func(context.Context) (io.ReadCloser, error) {
			return os.Open(path)
		},
	})
}

// expand recursively yields the text entries of an in-memory archive.
// name carries the outer path; entries append their archive-internal path
// behind the separator.
func (s *Files) expand(ctx context.Context, name string, data []byte, depth int, yield func(scan.Target) error) error {
	format, input, err := archives.Identify(ctx, name, bytes.NewReader(data))
	if err != nil || format == nil {
		return s.yieldContent(name, data, yield)
	}

	if depth > s.MaxArchiveDepth {
		logging.Debug().Str("path", name).Msg("skipping archive: max depth reached")
		return nil
	}

	if ex, ok := format.(archives.Extractor); ok {
		return ex.Extract(ctx, input, func(ctx context.Context, fi archives.FileInfo) error {
			if fi.IsDir() {
				return nil
			}
			inner := name + InnerPathSeparator + fi.NameInArchive
			if s.Skip != nil && s.Skip(inner) {
				return nil
			}
			if s.MaxFileSize > 0 && fi.Size() > s.MaxFileSize {
				logging.Debug().Str("path", inner).Msg("skipping archive entry: too large")
				return nil
			}
			rc, err := fi.Open()
			if err != nil {
				logging.Warn().Err(err).Str("path", inner).Msg("skipping archive entry")
				return nil
			}
			entry, err := s.readBounded(rc, nil)
			_ = rc.Close()
			if err != nil {
				logging.Warn().Err(err).Str("path", inner).Msg("skipping archive entry")
				return nil
			}
			return s.expand(ctx, inner, entry, depth+1, yield)
		})
	}

	if dec, ok := format.(archives.Decompressor); ok {
		rc, err := dec.OpenReader(input)
		if err != nil {
			logging.Warn().Err(err).Str("path", name).Msg("skipping compressed file")
			return nil
		}
		inner, err := s.readBounded(rc, nil)
		_ = rc.Close()
		if err != nil {
			logging.Warn().Err(err).Str("path", name).Msg("skipping compressed file")
			return nil
		}
		return s.expand(ctx, name, inner, depth+1, yield)
	}

	return s.yieldContent(name, data, yield)
}

// yieldContent yields one in-memory archive entry, unless it is binary.
func (s *Files) yieldContent(name string, data []byte, yield func(scan.Target) error) error {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if isBinary(head) {
		logging.Trace().Str("path", name).Msg("skipping binary archive entry")
		return nil
	}

	res := copywatch.Resource{Name: name, Source: "file", SizeHint: int64(len(data))}
	path, innerPath, hasInner := splitInnerPath(name)
	res.Set(copywatch.MetaPath, path)
	if hasInner {
		res.Set(copywatch.MetaInnerPath, innerPath)
	}
	return yield(scan.Target{
		Resource: res,
		Open: func(context.Context) (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	})
}

// readBounded drains r into memory behind head, honoring MaxFileSize.
func (s *Files) readBounded(r io.Reader, head []byte) ([]byte, error) {
	if s.MaxFileSize > 0 {
		r = io.LimitReader(r, s.MaxFileSize-int64(len(head)))
	}
	rest, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return append(append([]byte{}, head...), rest...), nil
}

func splitInnerPath(name string) (path, inner string, ok bool) {
	for i := 0; i < len(name); i++ {
		if name[i] == InnerPathSeparator[0] {
			return name[:i], name[i+1:], true
		}
	}
	return name, "", false
}
