package assets

import (
	_ "embed"
	"fmt"
	"io"
	"text/template"
	"time"
)

const planTemplateName = "daily-plan.md.go.tmpl"

//go:embed templates/daily-plan.md.go.tmpl
var fallbackPlanTemplate string

// PlanTemplate is the data rendered into a daily plan document.
type PlanTemplate struct {
	Date        time.Time
	GeneratedAt time.Time
	MaxItems    int
	Entries     []PlanEntry
	Urgent      []PlanEntry
}

// PlanEntry is one item row of the plan.
type PlanEntry struct {
	ID         int64
	Content    string
	Category   string
	Difficulty string
	DueAt      time.Time
	Retention  float64
}

// ParsePlanTemplate parses the plan template at templatePath or the embedded one.
func ParsePlanTemplate(templatePath string) (*template.Template, error) {
	return parseTemplateWithFallback(templatePath, planTemplateName, fallbackPlanTemplate)
}

// WritePlan renders data as markdown into output.
func WritePlan(output io.Writer, templatePath string, data PlanTemplate) error {
	tmpl, err := ParsePlanTemplate(templatePath)
	if err != nil {
		return fmt.Errorf("ParsePlanTemplate() > %w", err)
	}
	if err := tmpl.Execute(output, data); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
