package report

import (
	"encoding/json"
	"io"

	"github.com/copywatch/copywatch"
	"github.com/copywatch/copywatch/scan"
)

type JSONReporter struct{}

var _ Reporter = (*JSONReporter)(nil)

// jsonReport flattens one scan report for output.
type jsonReport struct {
	Resource string            `json:"resource"`
	Source   string            `json:"source"`
	Overall  string            `json:"overall"`
	Matches  []copywatch.Match `json:"matches"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (r *JSONReporter) Write(w io.Writer, reports []scan.Report) error {
	out := make([]jsonReport, 0, len(reports))
	for _, rep := range reports {
		out = append(out, jsonReport{
			Resource: rep.Resource.Name,
			Source:   rep.Resource.Source,
			Overall:  rep.Overall.String(),
			Matches:  rep.Matches,
			Metadata: rep.Resource.Metadata,
		})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", " ")
	return encoder.Encode(out)
}
