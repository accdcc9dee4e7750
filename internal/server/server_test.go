package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purchasing_manager/internal/config"
	"purchasing_manager/internal/slack"
)

type fakeBudgets struct {
	known map[string]slack.BudgetStatus
	err   error
}

func (f *fakeBudgets) BudgetStatus(ctx context.Context, projectName string) (slack.BudgetStatus, bool, error) {
	if f.err != nil {
		return slack.BudgetStatus{}, false, f.err
	}
	bs, ok := f.known[projectName]
	return bs, ok, nil
}

func newTestServer() *Server {
	s := New(&fakeBudgets{
		known: map[string]slack.BudgetStatus{
			"Rocket": {
				ProjectName:   "Rocket",
				TotalBudget:   1000,
				TotalExpenses: 400,
				DashboardURL:  "https://sheets.example/dash",
			},
		},
	})
	s.now = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }
	return s
}

func postForm(t *testing.T, s *Server, form url.Values) (*httptest.ResponseRecorder, slack.Message) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/slack", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var msg slack.Message
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	}
	return rec, msg
}

func TestBudgetStatusCommand(t *testing.T) {
	s := newTestServer()

	rec, msg := postForm(t, s, url.Values{
		"command": {config.SlackStatusSlashCommand},
		"text":    {"Rocket"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "in_channel", msg.ResponseType)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "Rocket Budget Status", msg.Attachments[0].Title)
}

func TestBudgetStatusUnknownProject(t *testing.T) {
	s := newTestServer()

	_, msg := postForm(t, s, url.Values{
		"command": {config.SlackStatusSlashCommand},
		"text":    {"Submarine"},
	})

	assert.Equal(t, "ephemeral", msg.ResponseType)
	assert.Contains(t, msg.Text, "don't recognize")
}

func TestBudgetStatusEmptyProjectName(t *testing.T) {
	s := newTestServer()

	rec, _ := postForm(t, s, url.Values{
		"command": {config.SlackStatusSlashCommand},
		"text":    {"   "},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid project name")
}

func TestInteractiveItemList(t *testing.T) {
	s := newTestServer()

	inner := slack.Message{ResponseType: "ephemeral", Text: "the items"}
	innerJSON, err := json.Marshal(inner)
	require.NoError(t, err)

	payload, err := json.Marshal(map[string]interface{}{
		"type": "interactive_message",
		"actions": []map[string]string{
			{"name": config.SlackItemListAction, "value": string(innerJSON)},
		},
	})
	require.NoError(t, err)

	_, msg := postForm(t, s, url.Values{"payload": {string(payload)}})
	assert.Equal(t, "the items", msg.Text)
	assert.Equal(t, "ephemeral", msg.ResponseType)
}

func TestInteractiveLegacyActionEchoesText(t *testing.T) {
	s := newTestServer()

	payload, err := json.Marshal(map[string]interface{}{
		"type": "interactive_message",
		"actions": []map[string]string{
			{"name": config.SlackItemListActionLegacy, "value": "plain text list"},
		},
	})
	require.NoError(t, err)

	_, msg := postForm(t, s, url.Values{"payload": {string(payload)}})
	assert.Equal(t, "plain text list", msg.Text)
	assert.Equal(t, "ephemeral", msg.ResponseType)
}

func TestUnknownCommand(t *testing.T) {
	s := newTestServer()

	_, msg := postForm(t, s, url.Values{"command": {"/mystery"}})
	assert.Equal(t, "ephemeral", msg.ResponseType)
	assert.Contains(t, msg.Text, "command not found")
}

func TestBudgetStatusLookupError(t *testing.T) {
	s := New(&fakeBudgets{err: assert.AnError})

	_, msg := postForm(t, s, url.Values{
		"command": {config.SlackStatusSlashCommand},
		"text":    {"Rocket"},
	})
	assert.Equal(t, "ephemeral", msg.ResponseType)
	assert.Contains(t, msg.Text, "something went wrong")
}
