package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Talieisin/mobileconfig-validator/internal/domain"
)

var (
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success).Bold(true)
	failStyle     = lipgloss.NewStyle().Foreground(danger).Bold(true)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	separatorLine = faintStyle.Render(strings.Repeat("─", 60))
)

// Renderer formats validation results for terminal output.
type Renderer struct {
	quiet bool // errors only
}

func NewRenderer(quiet bool) *Renderer {
	return &Renderer{quiet: quiet}
}

// RenderBatch renders every result followed by the summary block.
func (r *Renderer) RenderBatch(batch *domain.BatchResult) string {
	var b strings.Builder
	for _, result := range batch.Results {
		b.WriteString(r.RenderResult(result))
	}
	b.WriteString(r.RenderSummary(batch))
	return b.String()
}

// RenderResult renders one file: PASS/FAIL header, manifest versions,
// then issues grouped by severity in error, warning, info order.
func (r *Renderer) RenderResult(result *domain.ValidationResult) string {
	var b strings.Builder

	status := failStyle.Render("FAIL")
	if result.IsValid() {
		status = passStyle.Render("PASS")
	}
	fmt.Fprintf(&b, "%s %s\n", status, fileStyle.Render(result.FilePath))

	for _, payloadType := range result.PayloadTypes {
		if version, ok := result.ManifestVersions[payloadType]; ok {
			fmt.Fprintf(&b, "  %s\n", dimStyle.Render(fmt.Sprintf("Manifest: %s (v%d)", payloadType, version)))
		} else {
			fmt.Fprintf(&b, "  %s\n", dimStyle.Render("Manifest: "+payloadType))
		}
	}

	severities := []string{domain.SeverityError, domain.SeverityWarning, domain.SeverityInfo}
	for _, severity := range severities {
		if r.quiet && severity != domain.SeverityError {
			continue
		}

		var group []domain.Issue
		for _, issue := range result.Issues {
			if issue.Severity == severity {
				group = append(group, issue)
			}
		}
		if len(group) == 0 {
			continue
		}

		b.WriteString("\n")
		header := fmt.Sprintf("%sS (%d):", strings.ToUpper(severity), len(group))
		fmt.Fprintf(&b, "  %s\n", severityStyle(severity).Render(header))
		for _, issue := range group {
			renderIssue(&b, issue)
		}
	}

	b.WriteString("\n")
	return b.String()
}

func renderIssue(b *strings.Builder, issue domain.Issue) {
	tag := severityStyle(issue.Severity).Render("[" + issue.Code + "]")
	fmt.Fprintf(b, "    %s %s: %s\n", tag, issue.KeyPath, issue.Message)
	if issue.Expected != nil {
		fmt.Fprintf(b, "           %s\n", dimStyle.Render("Expected: "+formatValue(issue.Expected)))
	}
	if issue.Actual != nil {
		fmt.Fprintf(b, "           %s\n", dimStyle.Render("Got: "+formatValue(issue.Actual)))
	}
}

// RenderSummary renders the batch totals.
func (r *Renderer) RenderSummary(batch *domain.BatchResult) string {
	var b strings.Builder
	summary := batch.Summary()

	b.WriteString(separatorLine + "\n")
	b.WriteString(titleStyle.Render("VALIDATION SUMMARY") + "\n")
	b.WriteString(separatorLine + "\n")
	fmt.Fprintf(&b, "Files checked:    %d\n", summary.TotalFiles)
	fmt.Fprintf(&b, "Valid:            %s\n", passStyle.Render(fmt.Sprintf("%d", summary.ValidFiles)))
	if summary.InvalidFiles > 0 {
		fmt.Fprintf(&b, "Invalid:          %s\n", failStyle.Render(fmt.Sprintf("%d", summary.InvalidFiles)))
	}
	b.WriteString("\nIssues found:\n")
	fmt.Fprintf(&b, "  Errors:         %s\n", errorTagStyle.Render(fmt.Sprintf("%d", summary.ErrorCount)))
	if !r.quiet {
		fmt.Fprintf(&b, "  Warnings:       %s\n", warnTagStyle.Render(fmt.Sprintf("%d", summary.WarningCount)))
		fmt.Fprintf(&b, "  Info:           %s\n", infoTagStyle.Render(fmt.Sprintf("%d", summary.InfoCount)))
	}
	return b.String()
}

func severityStyle(severity string) lipgloss.Style {
	switch severity {
	case domain.SeverityError:
		return errorTagStyle
	case domain.SeverityWarning:
		return warnTagStyle
	default:
		return infoTagStyle
	}
}

// formatValue renders an expected/actual value, truncating long lists.
func formatValue(v any) string {
	if list, ok := v.([]any); ok && len(list) > 5 {
		parts := make([]string, 5)
		for i := 0; i < 5; i++ {
			parts[i] = fmt.Sprintf("%v", list[i])
		}
		return fmt.Sprintf("[%s, ...] (%d items)", strings.Join(parts, ", "), len(list))
	}
	return fmt.Sprintf("%v", v)
}
