package report

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/go-sprout/sprout"
	"github.com/go-sprout/sprout/group/all"

	"github.com/copywatch/copywatch/scan"
)

// TemplateReporter renders reports through a user-supplied text/template.
// The template executes with the report slice as its data.
type TemplateReporter struct {
	tmpl *template.Template
}

var _ Reporter = (*TemplateReporter)(nil)

func NewTemplateReporter(path string) (*TemplateReporter, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}

	handler := sprout.New()
	if err := handler.AddGroups(all.RegistryGroup()); err != nil {
		return nil, fmt.Errorf("registering template functions: %w", err)
	}

	tmpl, err := template.New(path).Funcs(handler.Build()).Parse(string(text))
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return &TemplateReporter{tmpl: tmpl}, nil
}

func (r *TemplateReporter) Write(w io.Writer, reports []scan.Report) error {
	return r.tmpl.Execute(w, reports)
}
