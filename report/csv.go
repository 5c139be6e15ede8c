package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/copywatch/copywatch"
	"github.com/copywatch/copywatch/scan"
)

type CSVReporter struct{}

var _ Reporter = (*CSVReporter)(nil)

// Write emits one row per match. Resources without matches still get a
// row so the overall classification of every scanned resource survives.
func (r *CSVReporter) Write(w io.Writer, reports []scan.Report) error {
	if len(reports) == 0 {
		return nil
	}

	cw := csv.NewWriter(w)
	columns := []string{
		"Resource",
		"Source",
		"Overall",
		"Party",
		"Kind",
		"Text",
		"StartLine",
		"EndLine",
		"StartOffset",
		"EndOffset",
		"Commit",
		"Author",
	}
	if err := cw.Write(columns); err != nil {
		return err
	}

	for _, rep := range reports {
		base := []string{
			rep.Resource.Name,
			rep.Resource.Source,
			rep.Overall.String(),
		}
		if len(rep.Matches) == 0 {
			row := append(append([]string{}, base...),
				"", "", "", "", "", "", "",
				rep.Resource.Get(copywatch.MetaCommitSHA),
				rep.Resource.Get(copywatch.MetaAuthorName),
			)
			if err := cw.Write(row); err != nil {
				return err
			}
			continue
		}
		for _, m := range rep.Matches {
			row := append(append([]string{}, base...),
				m.Party.String(),
				m.Kind.String(),
				m.Text,
				strconv.Itoa(m.StartLine),
				strconv.Itoa(m.EndLine),
				strconv.Itoa(m.StartOffset),
				strconv.Itoa(m.EndOffset),
				rep.Resource.Get(copywatch.MetaCommitSHA),
				rep.Resource.Get(copywatch.MetaAuthorName),
			)
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
