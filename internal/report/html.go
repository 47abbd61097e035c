package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed templates/report.html
var htmlTemplate string

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct":       func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
	"joinCycle": func(cycle []string) string { return strings.Join(cycle, " → ") },
	"statusClass": func(status any) string {
		return strings.ReplaceAll(fmt.Sprint(status), "_", "-")
	},
	"fmtTime": func(t time.Time) string { return t.Format("2006-01-02 15:04:05") },
}).Parse(htmlTemplate))

// WriteHTMLReport renders the summary as a standalone HTML file and returns
// the absolute path written.
func WriteHTMLReport(s *SystemSummary, outputPath string) (string, error) {
	if outputPath == "" {
		outputPath = fmt.Sprintf("sysaudit-report-%s.html", time.Now().Format("20060102-150405"))
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	if err := reportTmpl.Execute(f, s); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}

	abs, err := filepath.Abs(outputPath)
	if err != nil {
		return outputPath, nil
	}
	return abs, nil
}
