package slack

import (
	"fmt"
	"time"

	"purchasing_manager/internal/config"
)

// BudgetStatus carries the dashboard numbers for one project, read at the
// moment the slash command arrives.
type BudgetStatus struct {
	ProjectName   string
	TotalBudget   float64
	TotalExpenses float64
	DashboardURL  string
	SheetURL      string
	Color         string
}

// BuildBudgetStatusMessage renders the in-channel response to the budget
// status slash command.
func BuildBudgetStatusMessage(bs BudgetStatus, now time.Time) *Message {
	remaining := bs.TotalBudget - bs.TotalExpenses
	percentRemaining := 0.0
	if bs.TotalBudget != 0 {
		percentRemaining = remaining / bs.TotalBudget * 100
	}

	actions := []Action{
		{
			Type: "button",
			Text: "Open Dashboard ↗",
			URL:  bs.DashboardURL,
		},
	}
	if bs.SheetURL != "" {
		actions = append(actions, Action{
			Type: "button",
			Text: "Open Purchasing Sheet ↗",
			URL:  bs.SheetURL,
		})
	}

	return &Message{
		ResponseType: "in_channel",
		Attachments: []Attachment{
			{
				Fallback: fmt.Sprintf(
					"The %s project has $%.2f (or %.0f%% remaining, out of a total annual budget of %.2f). For more details, see the <%s|project dashboard>.",
					bs.ProjectName, remaining, percentRemaining, bs.TotalBudget, bs.DashboardURL),
				Color: bs.Color,
				Title: bs.ProjectName + " Budget Status",
				Text:  "This is the latest budget information from the SOAR Purchasing Database:",
				Fields: []Field{
					{Title: "Total Budget", Value: fmt.Sprintf("$%.2f", bs.TotalBudget), Short: true},
					{Title: "Percent Remaining", Value: fmt.Sprintf("%.0f%%", percentRemaining), Short: true},
					{Title: "Total Expenses", Value: fmt.Sprintf("$%.2f", bs.TotalExpenses), Short: true},
					{Title: "Amount Remaining", Value: fmt.Sprintf("$%.2f", remaining), Short: true},
				},
				Footer:     config.SlackFooterText,
				FooterIcon: config.SlackFooterIcon,
				Ts:         now.Unix(),
				Actions:    actions,
			},
		},
	}
}

// Ephemeral wraps plain text as a private response to the invoking user.
func Ephemeral(text string) *Message {
	return &Message{ResponseType: "ephemeral", Text: text}
}
