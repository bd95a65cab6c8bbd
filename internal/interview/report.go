package interview

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"
	"time"
)

var reportFuncs = template.FuncMap{
	"upper": strings.ToUpper,
	"inc":   func(i int) int { return i + 1 },
	"score": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
	"stamp": func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04:05 UTC") },
	"orDefault": func(s, fallback string) string {
		if s == "" {
			return fallback
		}
		return s
	},
	"verdict": func(hireable bool) string {
		if hireable {
			return "Hire-ready"
		}
		return "Needs improvement"
	},
	"oneline": func(s string) string { return strings.ReplaceAll(s, "\n", " ") },
}

var reportTemplate = template.Must(template.New("report").Funcs(reportFuncs).Parse(`Mock Interview Report
=====================

Session ID: {{.SessionID}}
Role: {{orDefault .RoleProfile.Name "N/A"}}
Mode: {{.Mode}}
Status: {{.Status}}
Started: {{stamp .StartedAt}}
Completed: {{stamp .CompletedAt}}

Performance Overview
--------------------
Overall Score: {{score .OverallScore}}/10
Completion: {{.QuestionsAnswered}}/{{.TotalQuestions}} ({{.CompletionPercentage}}%)
Hiring Recommendation: {{verdict .IsHireable}}
Recommendation Detail: {{oneline .HiringRecommendation}}
Time Spent: {{.TotalTimeSpentSeconds}}s of {{.EstimatedTimeSeconds}}s estimated ({{.TimeEfficiency}}%)

Round-wise Performance
----------------------
{{- range .RoundWisePerformance}}
{{upper .RoundType}}: Score {{score .AverageScore}}/10 | Completion {{.CompletionPercentage}}%
Answered: {{.QuestionsAnswered}}/{{.TotalQuestions}} | Time: {{.TotalTimeSpentSeconds}}s
{{- end}}
{{- if .OverallStrengths}}

Key Strengths
-------------
{{- range $i, $s := .OverallStrengths}}
{{inc $i}}. {{$s}}
{{- end}}
{{- end}}
{{- if .OverallWeaknesses}}

Areas to Improve
----------------
{{- range $i, $s := .OverallWeaknesses}}
{{inc $i}}. {{$s}}
{{- end}}
{{- end}}
{{- if .OverallImprovementTips}}

Actionable Tips
---------------
{{- range $i, $s := .OverallImprovementTips}}
{{inc $i}}. {{$s}}
{{- end}}
{{- end}}
{{- if .DetailedFeedback}}

Detailed Feedback
-----------------
{{- range $i, $f := .DetailedFeedback}}
{{inc $i}}. {{upper $f.RoundType}} - Score {{$f.Score}}/10
   {{$f.Feedback}}
{{- end}}
{{- end}}
`))

// RenderReport writes the plain-text report of a summary.
func RenderReport(w io.Writer, summary Summary) error {
	if err := reportTemplate.Execute(w, summary); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// ReportFilename is the download name of a session's report.
func ReportFilename(sessionID string) string {
	return fmt.Sprintf("mock-interview-%s.txt", sessionID)
}
