package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"purchasing_manager/internal/config"
)

// Resolver supplies identity details for an email the registry has never
// seen. Implementations: PromptResolver (interactive collection) and
// AnonymousResolver (placeholder identity for non-interactive entry points).
type Resolver interface {
	Resolve(ctx context.Context, email string) (Profile, error)
	// Persist reports whether a resolved profile should be appended to the
	// registry.
	Persist() bool
}

// Session carries the acting user's identity for one invocation. The first
// CurrentUser call resolves and caches; later calls return the cached user.
type Session struct {
	email    string
	lists    ListReader
	registry Registry
	fallback Resolver

	user     *User
	appended bool
}

// NewSession builds a session for the given email (empty if the platform
// could not provide one).
func NewSession(email string, lists ListReader, registry Registry, fallback Resolver) *Session {
	return &Session{
		email:    email,
		lists:    lists,
		registry: registry,
		fallback: fallback,
	}
}

// CurrentUser resolves the acting user. Resolution order: session cache,
// user registry, injected fallback strategy. A fallback-resolved profile is
// appended to the registry at most once per session.
func (s *Session) CurrentUser(ctx context.Context) (User, error) {
	if s.user != nil {
		return *s.user, nil
	}

	user := User{
		Email:              s.email,
		IsFinancialOfficer: IsOfficer(ctx, s.lists, s.email),
	}

	profile, found, err := s.registry.Lookup(ctx, s.email)
	if err != nil {
		return User{}, fmt.Errorf("failed to look up user registry: %w", err)
	}

	if !found {
		profile, err = s.fallback.Resolve(ctx, s.email)
		if err != nil {
			return User{}, fmt.Errorf("failed to resolve user identity: %w", err)
		}
		if s.fallback.Persist() && !s.appended {
			if err := s.registry.Append(ctx, s.email, profile); err != nil {
				return User{}, fmt.Errorf("failed to record new user: %w", err)
			}
			s.appended = true
			log.Info().Str("email", s.email).Msg("Recorded new user in registry")
		}
	}

	user.SlackID = profile.SlackID
	user.FullName = profile.FullName
	user.Phone = profile.Phone

	s.user = &user
	return user, nil
}

// PromptResolver collects a Slack ID and full name interactively, repeating
// each prompt until the answer is non-empty.
type PromptResolver struct {
	In  io.Reader
	Out io.Writer
}

func (r *PromptResolver) Resolve(ctx context.Context, email string) (Profile, error) {
	scanner := bufio.NewScanner(r.In)

	slackID, err := r.promptUntilNonEmpty(scanner, config.SlackIDPrompt)
	if err != nil {
		return Profile{}, err
	}
	fullName, err := r.promptUntilNonEmpty(scanner, config.FullNamePrompt)
	if err != nil {
		return Profile{}, err
	}

	return Profile{SlackID: slackID, FullName: fullName}, nil
}

func (r *PromptResolver) promptUntilNonEmpty(scanner *bufio.Scanner, prompt string) (string, error) {
	for {
		fmt.Fprintf(r.Out, "%s\n> ", prompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("failed to read prompt response: %w", err)
			}
			return "", fmt.Errorf("input closed before a response was given")
		}
		answer := strings.TrimSpace(scanner.Text())
		if answer != "" {
			return answer, nil
		}
	}
}

func (r *PromptResolver) Persist() bool { return true }

// AnonymousResolver yields a placeholder identity for entry points with no
// operator to prompt. Never persisted.
type AnonymousResolver struct{}

func (AnonymousResolver) Resolve(ctx context.Context, email string) (Profile, error) {
	name := "Unknown User"
	if email != "" {
		name = email
	}
	return Profile{FullName: name}, nil
}

func (AnonymousResolver) Persist() bool { return false }
