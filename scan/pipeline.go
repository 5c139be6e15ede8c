package scan

import (
	"context"
	"errors"
	"io"
	"runtime"
	"sort"
	"sync"

	"github.com/fatih/semgroup"

	"github.com/copywatch/copywatch"
	"github.com/copywatch/copywatch/decode"
	"github.com/copywatch/copywatch/logging"
)

// Target is one scannable byte stream, opened lazily so sources can yield
// large trees without holding file handles.
type Target struct {
	Resource copywatch.Resource
	Open     func(ctx context.Context) (io.ReadCloser, error)
}

// Source yields scan targets to a callback. Yield returning an error stops
// the source.
type Source interface {
	Targets(ctx context.Context, yield func(Target) error) error
}

// Report is the outcome for one resource.
type Report struct {
	Resource copywatch.Resource
	Matches  []copywatch.Match
	Overall  copywatch.Party
}

// Pipeline fans scan targets out over a bounded worker group.
type Pipeline struct {
	Scanner *Scanner

	// Workers bounds concurrent scans; zero means GOMAXPROCS.
	Workers int
}

// Run drains src and scans every target. Unopenable targets are logged
// and skipped; read errors mid-stream fail the run. Reports come back
// sorted by resource name so output is stable regardless of scheduling.
func (p *Pipeline) Run(ctx context.Context, src Source) ([]Report, error) {
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	sema := semgroup.NewGroup(ctx, int64(workers))

	var (
		mu      sync.Mutex
		reports []Report
	)

	srcErr := src.Targets(ctx, func(t Target) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		sema.Go(func() error {
			rc, err := t.Open(ctx)
			if err != nil {
				logging.Warn().Err(err).Str("resource", t.Resource.Name).Msg("skipping unopenable target")
				return nil
			}
			d := decode.NewDecoder(t.Resource.Name, rc, t.Resource.SizeHint)
			matches, err := p.Scanner.Scan(d)
			_ = d.Close()
			if err != nil {
				return err
			}
			mu.Lock()
			reports = append(reports, Report{
				Resource: t.Resource,
				Matches:  matches,
				Overall:  copywatch.OverallParty(matches),
			})
			mu.Unlock()
			return nil
		})
		return nil
	})

	// Both failure channels surface: a mid-stream scan error must not be
	// masked by a later source error, nor the reverse.
	err := errors.Join(srcErr, sema.Wait())

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Resource.Name < reports[j].Resource.Name
	})
	return reports, err
}
