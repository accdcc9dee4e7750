package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purchasing_manager/internal/config"
)

func TestIsAllowedFromTrimsWhitespace(t *testing.T) {
	submitted := Get("SUBMITTED")
	require.NotNil(t, submitted)

	assert.True(t, submitted.IsAllowedFrom("New"))
	assert.True(t, submitted.IsAllowedFrom("  New  "))
	assert.False(t, submitted.IsAllowedFrom("new"))
	assert.False(t, submitted.IsAllowedFrom("Denied"))
	assert.False(t, submitted.IsAllowedFrom(""))
}

func TestUnsetOnlyMatchesStatusesThatAllowIt(t *testing.T) {
	newStatus := Get("NEW")
	require.NotNil(t, newStatus)

	// A fresh row (empty status cell) may become New.
	assert.True(t, newStatus.IsAllowedFrom(""))
	assert.True(t, newStatus.IsAllowedFrom("   "))

	// But not Submitted, which requires a prior New.
	assert.False(t, Get("SUBMITTED").IsAllowedFrom(""))
}

func TestNoSelfTransitions(t *testing.T) {
	// No status in the normal graph allows transitioning from itself, which
	// is what makes a repeated batch mark a no-op the second time.
	for key, st := range Registry {
		if st.Text == string(Unset) {
			continue
		}
		assert.Falsef(t, st.IsAllowedFrom(st.Text), "%s allows self-transition", key)
	}
}

func TestAllowedPreviousEdgesReferToKnownStatuses(t *testing.T) {
	known := map[Text]bool{Unset: true}
	for _, st := range Registry {
		known[Text(st.Text)] = true
	}

	for key, st := range Registry {
		for _, prev := range st.AllowedPrevious {
			assert.Truef(t, known[prev], "%s references unknown predecessor %q", key, prev)
		}
	}
}

func TestRegistryShape(t *testing.T) {
	for key, st := range Registry {
		assert.Equal(t, key, st.Key)

		// Every status that notifies declares at least one webhook channel.
		if len(st.Slack.MessageTemplates) > 0 {
			assert.NotEmptyf(t, st.Slack.ChannelWebhooks, "%s has templates but no channel", key)
		}

		// Fast-forward back-fill lists must never include the status's own
		// user/date columns; those are written unconditionally.
		for _, ff := range st.FastForwardDate {
			if st.DateColumn != nil {
				assert.NotEqualf(t, st.DateColumn.Index, ff.Index, "%s back-fills its own date column", key)
			}
		}
	}
}

func TestDeniedRequiresOfficerComments(t *testing.T) {
	denied := Get("DENIED")
	require.NotNil(t, denied)
	require.Len(t, denied.RequiredColumns, 1)
	assert.Equal(t, config.Columns.OfficerComments.Index, denied.RequiredColumns[0].Index)
	assert.True(t, denied.OfficersOnly)
}

func TestTestStatusTargetsDevChannel(t *testing.T) {
	require.NotNil(t, TestStatus)
	require.Len(t, TestStatus.Slack.ChannelWebhooks, 1)
	assert.Equal(t, ChannelDev, TestStatus.Slack.ChannelWebhooks[0])
	assert.Nil(t, Registry["TEST"])
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, Unset, Normalize("   "))
	assert.Equal(t, Text("New"), Normalize(" New\t"))
}
