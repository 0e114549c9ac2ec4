package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MrSnakeDoc/jobboard/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

var statusColors = map[domain.Status]lipgloss.Color{
	domain.StatusWishlist:     lipgloss.Color("7"),
	domain.StatusApplied:      lipgloss.Color("12"),
	domain.StatusInterviewing: lipgloss.Color("11"),
	domain.StatusOffer:        lipgloss.Color("10"),
	domain.StatusRejected:     lipgloss.Color("9"),
	domain.StatusGhosting:     lipgloss.Color("13"),
}

const defaultCardWidth = 24

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatSalary(rec domain.JobApplication) string {
	if rec.Salary == nil {
		return ""
	}
	return string(rec.Currency) + " " + strconv.FormatFloat(*rec.Salary, 'f', -1, 64)
}

func renderCard(rec domain.JobApplication, pending bool, width int) string {
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(rec.Company),
		rec.Role,
		mutedStyle.Render(shortID(rec.ID) + " · " + string(rec.JobType)),
	}
	if s := formatSalary(rec); s != "" {
		lines = append(lines, s)
	}
	if rec.Location != "" {
		lines = append(lines, mutedStyle.Render(rec.Location))
	}
	if pending {
		lines = append(lines, warnStyle.Render("saving…"))
	}
	return cardStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// renderBoard lays the columns out side by side in board order.
func renderBoard(cols map[domain.Status][]domain.JobApplication, pending func(string) bool, width int) string {
	if width <= 0 {
		width = defaultCardWidth
	}

	rendered := make([]string, 0, len(domain.Statuses))
	for _, s := range domain.Statuses {
		recs := cols[s]
		parts := []string{
			lipgloss.NewStyle().Bold(true).Foreground(statusColors[s]).
				Render(fmt.Sprintf("%s (%d)", s, len(recs))),
		}
		for _, rec := range recs {
			parts = append(parts, renderCard(rec, pending(rec.ID), width))
		}
		if len(recs) == 0 {
			parts = append(parts, mutedStyle.Render("no applications"))
		}
		rendered = append(rendered, columnStyle.
			BorderForeground(statusColors[s]).
			Width(width+4).
			Render(lipgloss.JoinVertical(lipgloss.Left, parts...)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// renderColumn prints a single column as a plain list.
func renderColumn(status domain.Status, recs []domain.JobApplication, pending func(string) bool) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s (%d)", status, len(recs))))
	b.WriteString("\n")
	if len(recs) == 0 {
		b.WriteString(mutedStyle.Render("No applications in this column."))
		b.WriteString("\n")
		return b.String()
	}
	for _, rec := range recs {
		fmt.Fprintf(&b, "  • %s at %s\n", rec.Role, rec.Company)
		fmt.Fprintf(&b, "    %s %s", labelStyle.Render("ID:"), rec.ID)
		if s := formatSalary(rec); s != "" {
			fmt.Fprintf(&b, " | %s %s", labelStyle.Render("Salary:"), s)
		}
		if pending(rec.ID) {
			fmt.Fprintf(&b, " %s", warnStyle.Render("(saving…)"))
		}
		b.WriteString("\n")
		if rec.Notes != "" {
			fmt.Fprintf(&b, "    %s %s\n", labelStyle.Render("Notes:"), rec.Notes)
		}
	}
	return b.String()
}

func renderApplication(rec domain.JobApplication) string {
	rows := [][2]string{
		{"ID:", rec.ID},
		{"Company:", rec.Company},
		{"Role:", rec.Role},
		{"Status:", string(rec.Status)},
		{"Type:", string(rec.JobType)},
		{"Salary:", formatSalary(rec)},
		{"Location:", rec.Location},
		{"Link:", rec.JobLink},
		{"Benefits:", rec.Benefits},
		{"Notes:", rec.Notes},
		{"Updated:", rec.UpdatedAt.Local().Format("2006-01-02 15:04")},
	}
	var b strings.Builder
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(r[0]), r[1])
	}
	return b.String()
}
