// Package server hosts the inbound Slack endpoint: the budget status slash
// command and the interactive item-list button callbacks.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"purchasing_manager/internal/config"
	"purchasing_manager/internal/slack"
)

// BudgetReader answers budget status queries by project name. The second
// return is false when the project is unknown.
type BudgetReader interface {
	BudgetStatus(ctx context.Context, projectName string) (slack.BudgetStatus, bool, error)
}

// Server handles Slack's outbound HTTP calls.
type Server struct {
	echo    *echo.Echo
	budgets BudgetReader

	now func() time.Time
}

func New(budgets BudgetReader) *Server {
	s := &Server{
		echo:    echo.New(),
		budgets: budgets,
		now:     time.Now,
	}

	s.echo.HideBanner = true
	s.echo.Use(middleware.Recover())
	s.echo.POST("/slack", s.handleSlack)

	return s
}

// Start blocks serving until the listener fails or is shut down.
func (s *Server) Start(addr string) error {
	log.Info().Str("addr", addr).Msg("Starting Slack endpoint")
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// handleSlack serves both the slash command and interactive button posts;
// Slack sends each as form-encoded POSTs to the one configured URL.
func (s *Server) handleSlack(c echo.Context) error {
	if command := c.FormValue("command"); command == config.SlackStatusSlashCommand {
		return s.handleBudgetStatus(c)
	}
	if payload := c.FormValue("payload"); payload != "" {
		return s.handleInteractive(c, payload)
	}
	return c.JSON(http.StatusOK, slack.Ephemeral("Error: command not found."))
}

func (s *Server) handleBudgetStatus(c echo.Context) error {
	projectName := strings.TrimSpace(c.FormValue("text"))
	if projectName == "" {
		return c.String(http.StatusOK, "Error: Invalid project name.")
	}

	bs, ok, err := s.budgets.BudgetStatus(c.Request().Context(), projectName)
	if err != nil {
		log.Error().Err(err).Str("project", projectName).Msg("Budget status lookup failed")
		return c.JSON(http.StatusOK, slack.Ephemeral("Sorry, something went wrong looking that up."))
	}
	if !ok {
		return c.JSON(http.StatusOK, slack.Ephemeral("Sorry, I don't recognize that project."))
	}

	log.Debug().Str("project", projectName).Msg("Budget status served")
	return c.JSON(http.StatusOK, slack.BuildBudgetStatusMessage(bs, s.now()))
}

// interactivePayload is the part of Slack's interactive message callback the
// server reads.
type interactivePayload struct {
	Type    string         `json:"type"`
	Actions []slack.Action `json:"actions"`
}

// handleInteractive answers the List Items button. The full response message
// rides inside the button's value, so no state is needed here. The legacy
// action carried plain text instead of JSON.
func (s *Server) handleInteractive(c echo.Context, payload string) error {
	var parsed interactivePayload
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		log.Warn().Err(err).Msg("Unparseable interactive payload")
		return c.JSON(http.StatusOK, slack.Ephemeral("Error: command not found."))
	}

	if parsed.Type != "interactive_message" || len(parsed.Actions) == 0 {
		return c.JSON(http.StatusOK, slack.Ephemeral("Error: command not found."))
	}

	action := parsed.Actions[0]
	if action.Name == config.SlackItemListActionLegacy {
		return c.JSON(http.StatusOK, slack.Ephemeral(action.Value))
	}

	var msg slack.Message
	if err := json.Unmarshal([]byte(action.Value), &msg); err != nil {
		log.Warn().Err(err).Str("action", action.Name).Msg("Unparseable action value")
		return c.JSON(http.StatusOK, slack.Ephemeral("Error: command not found."))
	}
	return c.JSON(http.StatusOK, &msg)
}
