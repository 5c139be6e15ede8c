package sources

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gitleaks/go-gitdiff/gitdiff"

	"github.com/copywatch/copywatch"
	"github.com/copywatch/copywatch/logging"
	"github.com/copywatch/copywatch/scan"
)

// Patch yields scan targets from a git patch stream, the output of
// git format-patch or git show: the added lines of each changed file
// become one target, and the commit message becomes another, so license
// declarations arriving through either channel are seen.
type Patch struct {
	// Reader supplies the patch text.
	Reader io.Reader

	// ScanCommitMessage also yields the commit message as a target.
	ScanCommitMessage bool
}

// Targets parses the patch and yields its scannable pieces. A malformed
// patch is an error; an empty one is not.
func (p *Patch) Targets(ctx context.Context, yield func(scan.Target) error) error {
	files, preamble, err := gitdiff.Parse(p.Reader)
	if err != nil {
		return fmt.Errorf("parsing patch: %w", err)
	}

	var header *gitdiff.PatchHeader
	if preamble != "" {
		header, err = gitdiff.ParsePatchHeader(preamble)
		if err != nil {
			logging.Debug().Err(err).Msg("could not parse patch header")
			header = nil
		}
	}

	if p.ScanCommitMessage && header != nil {
		msg := strings.TrimSpace(header.Title + "\n\n" + header.Body)
		if msg != "" {
			res := commitResource(header, "commit-message")
			if err := yield(stringTarget(res, msg)); err != nil {
				return err
			}
		}
	}

	for _, file := range files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if file.IsBinary || file.IsDelete {
			continue
		}
		added := addedText(file)
		if added == "" {
			continue
		}

		res := commitResource(header, file.NewName)
		res.Set(copywatch.MetaPath, file.NewName)
		res.SizeHint = int64(len(added))
		if err := yield(stringTarget(res, added)); err != nil {
			return err
		}
	}
	return nil
}

// addedText concatenates the added lines of a file's fragments. Context
// and removed lines are old content, not what this change introduces.
func addedText(file *gitdiff.File) string {
	var b strings.Builder
	for _, frag := range file.TextFragments {
		if frag == nil {
			continue
		}
		for _, line := range frag.Lines {
			if line.Op == gitdiff.OpAdd {
				b.WriteString(line.Line)
			}
		}
	}
	return b.String()
}

func commitResource(header *gitdiff.PatchHeader, name string) copywatch.Resource {
	res := copywatch.Resource{Name: name, Source: "git"}
	if header == nil {
		return res
	}
	if header.SHA != "" {
		res.Name = header.SHA + ":" + name
		res.Set(copywatch.MetaCommitSHA, header.SHA)
	}
	if header.Author != nil {
		res.Set(copywatch.MetaAuthorName, header.Author.Name)
		res.Set(copywatch.MetaAuthorEmail, header.Author.Email)
	}
	if header.Title != "" {
		res.Set(copywatch.MetaCommitMessage, header.Title)
	}
	return res
}

func stringTarget(res copywatch.Resource, content string) scan.Target {
	if res.SizeHint == 0 {
		res.SizeHint = int64(len(content))
	}
	return scan.Target{
		Resource: res,
		Open: func(context.Context) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}
