// Package report serializes scan reports. Formats: json, csv, or a
// user-provided template.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/copywatch/copywatch/scan"
)

// Reporter writes a set of reports to w.
type Reporter interface {
	Write(w io.Writer, reports []scan.Report) error
}

// New picks a reporter by format name. The template format needs the
// template file path as well.
func New(format, templatePath string) (Reporter, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return &JSONReporter{}, nil
	case "csv":
		return &CSVReporter{}, nil
	case "template", "tmpl":
		if templatePath == "" {
			return nil, fmt.Errorf("template format needs a template path")
		}
		return NewTemplateReporter(templatePath)
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}
