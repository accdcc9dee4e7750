// Package auth answers two questions for the transition engine: is the
// acting user allowed to perform officer-gated operations, and who are they
// for attribution and notifications. Identity is resolved once per session
// through an injected strategy and cached on the session object.
package auth

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"purchasing_manager/internal/config"
)

// User is a fully resolved acting user.
type User struct {
	Email              string
	SlackID            string
	FullName           string
	Phone              string
	IsFinancialOfficer bool
}

// Profile is the registry-backed part of a user's identity.
type Profile struct {
	SlackID  string
	FullName string
	Phone    string
}

// ListReader reads named lists from the spreadsheet. store.Store satisfies
// this.
type ListReader interface {
	NamedList(ctx context.Context, name string) ([]string, error)
}

// Registry is the append-only user directory (the Users sheet).
type Registry interface {
	// Lookup returns the profile for an email, reporting whether it exists.
	Lookup(ctx context.Context, email string) (Profile, bool, error)
	// Append records a newly seen user.
	Append(ctx context.Context, email string, profile Profile) error
}

// IsOfficer reports whether the email belongs to an approved financial
// officer. An unknown email or an unavailable officer list yields false,
// never an error.
func IsOfficer(ctx context.Context, lists ListReader, email string) bool {
	if email == "" {
		return false
	}
	officers, err := lists.NamedList(ctx, config.RangeApprovedOfficers)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read approved officers list")
		return false
	}
	for _, officer := range officers {
		if strings.EqualFold(strings.TrimSpace(officer), email) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the email is the configured admin address.
func IsAdmin(email, adminEmail string) bool {
	return adminEmail != "" && strings.EqualFold(email, adminEmail)
}
