package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/hbnb/internal/cli/config"
	"github.com/leapstack-labs/hbnb/internal/model"
	"github.com/leapstack-labs/hbnb/internal/storage"
)

// Health check statuses.
const (
	StatusPass  = "pass"
	StatusWarn  = "warn"
	StatusError = "error"
)

// maxDetails bounds the details printed per check in text output.
const maxDetails = 3

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format  string // Output format: text, json, markdown
	NoColor bool
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the health of the object store",
		Long: `Load the configured storage and report on its contents.

The report includes:
- Storage summary (backend, location, objects per class)
- Records that could not be loaded (kept in storage as-is)
- Objects whose updated_at precedes created_at
- Ids that are not UUIDs or are shared by several classes
- Health score (0-100)`,
		Example: `  # Check the default file storage
  hbnb doctor

  # Check a bolt database and print JSON
  hbnb doctor --backend bolt --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "text", "Output format: text, json, markdown")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Summary      StorageSummary `json:"summary"`
	HealthChecks []HealthCheck  `json:"health_checks"`
	Score        int            `json:"score"`
	IssueCount   int            `json:"issue_count"`
}

// StorageSummary describes the inspected store.
type StorageSummary struct {
	Backend    string       `json:"backend"`
	Path       string       `json:"path,omitempty"`
	ConfigFile string       `json:"config_file,omitempty"`
	Objects    int          `json:"objects"`
	Classes    []ClassCount `json:"classes"`
}

// ClassCount is the number of stored objects of one class.
type ClassCount struct {
	Class string `json:"class"`
	Count int    `json:"count"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Group      string   `json:"group"`
	Status     string   `json:"status"`
	IssueCount int      `json:"issue_count"`
	Details    []string `json:"details,omitempty"`
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	out := buildDoctorOutput(cmdCtx.Cfg, cmdCtx.Store)
	w := cmd.OutOrStdout()

	switch strings.ToLower(opts.Format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case FormatMarkdown, "md":
		renderDoctorMarkdown(w, out)
		return nil
	case "text", "":
		renderDoctorText(w, NewStyles(w, opts.NoColor), out)
		return nil
	default:
		return fmt.Errorf("unknown format %q (supported: text, json, markdown)", opts.Format)
	}
}

func buildDoctorOutput(cfg *config.Config, store *storage.Storage) *DoctorOutput {
	objects := store.All()

	checks := []HealthCheck{
		checkSkippedRecords(store.Skipped()),
		checkTimestamps(objects),
		checkUUIDs(objects),
		checkSharedIDs(objects),
	}

	issues := 0
	for _, c := range checks {
		issues += c.IssueCount
	}

	return &DoctorOutput{
		Summary: StorageSummary{
			Backend:    cfg.Backend,
			Path:       cfg.Path,
			ConfigFile: config.GetConfigFileUsed(),
			Objects:    len(objects),
			Classes:    countClasses(objects),
		},
		HealthChecks: checks,
		Score:        calculateHealthScore(checks, len(objects)),
		IssueCount:   issues,
	}
}

func countClasses(objects []*model.Model) []ClassCount {
	counts := make(map[string]int)
	for _, m := range objects {
		counts[m.ClassName()]++
	}
	out := make([]ClassCount, 0, len(counts))
	for _, class := range model.Classes() {
		if n := counts[class]; n > 0 {
			out = append(out, ClassCount{Class: class, Count: n})
		}
	}
	return out
}

func newCheck(id, name, group, failStatus string, details []string) HealthCheck {
	status := StatusPass
	if len(details) > 0 {
		status = failStatus
	}
	return HealthCheck{
		ID:         id,
		Name:       name,
		Group:      group,
		Status:     status,
		IssueCount: len(details),
		Details:    details,
	}
}

func checkSkippedRecords(skipped []error) HealthCheck {
	details := make([]string, 0, len(skipped))
	for _, err := range skipped {
		details = append(details, err.Error())
	}
	return newCheck("ST01", "All stored records load", "storage", StatusError, details)
}

func checkTimestamps(objects []*model.Model) HealthCheck {
	var details []string
	for _, m := range objects {
		created, okC := m.CreatedAt()
		updated, okU := m.UpdatedAt()
		if !okC || !okU {
			details = append(details, fmt.Sprintf("%s has non-time timestamps", storage.Key(m.ClassName(), m.ID())))
			continue
		}
		if updated.Before(created) {
			details = append(details, fmt.Sprintf("%s was updated before it was created", storage.Key(m.ClassName(), m.ID())))
		}
	}
	return newCheck("MD01", "updated_at is not before created_at", "model", StatusWarn, details)
}

func checkUUIDs(objects []*model.Model) HealthCheck {
	var details []string
	for _, m := range objects {
		if _, err := uuid.Parse(m.ID()); err != nil {
			details = append(details, fmt.Sprintf("%s: id is not a UUID", storage.Key(m.ClassName(), m.ID())))
		}
	}
	return newCheck("ID01", "Ids are UUIDs", "identity", StatusWarn, details)
}

func checkSharedIDs(objects []*model.Model) HealthCheck {
	classes := make(map[string][]string)
	var order []string
	for _, m := range objects {
		if _, seen := classes[m.ID()]; !seen {
			order = append(order, m.ID())
		}
		classes[m.ID()] = append(classes[m.ID()], m.ClassName())
	}

	var details []string
	for _, id := range order {
		if len(classes[id]) > 1 {
			details = append(details, fmt.Sprintf("%s is used by %s", id, strings.Join(classes[id], ", ")))
		}
	}
	return newCheck("ID02", "Ids are unique across classes", "identity", StatusWarn, details)
}

// calculateHealthScore deducts per issue, weighting errors over warnings.
// Larger stores are penalized less per issue.
func calculateHealthScore(checks []HealthCheck, objectCount int) int {
	weight := 1.0
	if objectCount > 10 {
		weight = 10.0 / float64(objectCount)
	}

	deduction := 0.0
	for _, c := range checks {
		switch c.Status {
		case StatusError:
			deduction += 15 * float64(c.IssueCount) * weight
		case StatusWarn:
			deduction += 5 * float64(c.IssueCount) * weight
		}
	}

	score := 100 - int(deduction)
	if score < 0 {
		return 0
	}
	return score
}

func renderDoctorText(w io.Writer, styles *Styles, out *DoctorOutput) {
	p := func(s string) { _, _ = fmt.Fprintln(w, s) }

	p(styles.Header.Render("hbnb Storage Health Report"))
	p(styles.Muted.Render(strings.Repeat("=", 45)))
	p("")

	p(styles.Bold.Render("Storage"))
	location := out.Summary.Path
	if location == "" {
		location = "(not persisted)"
	}
	p(fmt.Sprintf("   Backend: %s | Location: %s", out.Summary.Backend, location))
	if out.Summary.ConfigFile != "" {
		p("   Config: " + out.Summary.ConfigFile)
	}
	p(fmt.Sprintf("   Objects: %d", out.Summary.Objects))
	for _, c := range out.Summary.Classes {
		p(styles.Muted.Render(fmt.Sprintf("     %-10s %d", c.Class, c.Count)))
	}
	p("")

	p(styles.Bold.Render("Health Checks"))
	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			p("   " + styles.Bold.Render(titleCaser.String(currentGroup)))
		}

		icon := styles.Success.Render("ok")
		switch check.Status {
		case StatusWarn:
			icon = styles.Warning.Render("!!")
		case StatusError:
			icon = styles.Error.Render("xx")
		}

		status := fmt.Sprintf("     %s %s: %s", icon, check.ID, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		p(status)

		for i, detail := range check.Details {
			if i >= maxDetails {
				p(styles.Muted.Render(fmt.Sprintf("         ... and %d more", len(check.Details)-maxDetails)))
				break
			}
			p(styles.Muted.Render("         - " + detail))
		}
	}
	p("")

	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	p("Health Score: " + scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
}

func renderDoctorMarkdown(w io.Writer, out *DoctorOutput) {
	pf := func(format string, args ...any) { _, _ = fmt.Fprintf(w, format, args...) }

	pf("# hbnb Storage Health Report\n\n")

	pf("## Storage\n\n")
	pf("- **Backend**: %s\n", out.Summary.Backend)
	if out.Summary.Path != "" {
		pf("- **Location**: %s\n", out.Summary.Path)
	}
	pf("- **Objects**: %d\n", out.Summary.Objects)
	for _, c := range out.Summary.Classes {
		pf("  - %s: %d\n", c.Class, c.Count)
	}
	pf("\n## Health Checks\n\n")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			pf("### %s\n\n", titleCaser.String(currentGroup))
		}
		pf("- **[%s]** %s: %s", strings.ToUpper(check.Status), check.ID, check.Name)
		if check.IssueCount > 0 {
			pf(" (%d issues)", check.IssueCount)
		}
		pf("\n")
		for _, detail := range check.Details {
			pf("  - %s\n", detail)
		}
	}

	pf("\n## Health Score\n\n**%d/100**\n", out.Score)
}
