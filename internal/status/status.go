// Package status defines the purchasing request lifecycle: every status a
// row can hold, which transitions between them are legal, and what each
// transition writes and announces. The graph is fixed configuration; nothing
// here is mutated after process start.
package status

import (
	"strings"

	"purchasing_manager/internal/config"
)

// Text is a status cell value as stored in the sheet. The zero value Unset
// marks a row that has never been transitioned; modeling it as a named
// constant keeps the empty-string initial state from silently matching other
// uninitialized cells.
type Text string

// Unset is the implicit initial state of a freshly entered row.
const Unset Text = ""

// Normalize converts a raw status cell into a Text for comparison.
func Normalize(cell string) Text {
	return Text(strings.TrimSpace(cell))
}

// Audience selects who gets tagged in a status's Slack message.
type Audience string

const (
	// AudienceChannel tags the entire channel.
	AudienceChannel Audience = "CHANNEL"
	// AudienceOfficers tags the approved financial officers, minus opt-outs.
	AudienceOfficers Audience = "OFFICERS"
	// AudienceRequestors tags the people who requested the affected items.
	AudienceRequestors Audience = "REQUESTORS"
)

// Logical webhook channel names, resolved to real URLs only at the
// notification boundary.
const (
	ChannelPurchasing = "purchasing"
	ChannelDev        = "dev"
)

// Slack describes the notification shape for a status.
type Slack struct {
	Emoji            string
	TargetUsers      Audience
	MessageTemplates []string
	// ChannelWebhooks holds logical channel names. Only the first channel
	// gets user tags, to avoid redundant pings across channels.
	ChannelWebhooks []string
}

// Status is a single node in the transition graph.
type Status struct {
	// Key is the registry lookup name, e.g. "SUBMITTED".
	Key string
	// Text is the display label written into the status column.
	Text string
	// AllowedPrevious lists the statuses a row may transition from.
	AllowedPrevious []Text
	// OfficersOnly gates the whole operation, not individual rows.
	OfficersOnly bool

	RequiredColumns    []config.Column
	RecommendedColumns []config.Column

	// UserColumn and DateColumn receive the acting user's email and the
	// transition timestamp, when set.
	UserColumn *config.Column
	DateColumn *config.Column

	// FastForwardUser and FastForwardDate are back-filled, if empty, when
	// this status is reached by fast-forward.
	FastForwardUser []config.Column
	FastForwardDate []config.Column

	// FillInDefaults fills empty Account and Category cells on transition.
	FillInDefaults bool
	// AssignRequestID fills empty Request ID cells with a fresh UUID.
	AssignRequestID bool

	Slack Slack
}

// IsAllowedFrom reports whether a row currently holding the given raw status
// cell may transition to s. Comparison trims whitespace.
func (s *Status) IsAllowedFrom(cell string) bool {
	current := Normalize(cell)
	for _, prev := range s.AllowedPrevious {
		if current == prev {
			return true
		}
	}
	return false
}
