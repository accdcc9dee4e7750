package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purchasing_manager/internal/config"
	"purchasing_manager/internal/store"
)

type memRegistry struct {
	entries  map[string]Profile
	appends  int
	failNext bool
}

func newMemRegistry() *memRegistry {
	return &memRegistry{entries: map[string]Profile{}}
}

func (m *memRegistry) Lookup(ctx context.Context, email string) (Profile, bool, error) {
	p, ok := m.entries[email]
	return p, ok, nil
}

func (m *memRegistry) Append(ctx context.Context, email string, profile Profile) error {
	m.appends++
	m.entries[email] = profile
	return nil
}

func officersStore(emails ...string) *store.MemStore {
	m := store.NewMemStore(nil)
	m.SetNamedList(config.RangeApprovedOfficers, emails)
	return m
}

func TestIsOfficer(t *testing.T) {
	ctx := context.Background()
	lists := officersStore("officer@usfsoar.com", "second@usfsoar.com")

	assert.True(t, IsOfficer(ctx, lists, "officer@usfsoar.com"))
	assert.True(t, IsOfficer(ctx, lists, "Officer@usfsoar.com"))
	assert.False(t, IsOfficer(ctx, lists, "member@usfsoar.com"))
	assert.False(t, IsOfficer(ctx, lists, ""))
}

func TestIsOfficerToleratesMissingList(t *testing.T) {
	// Empty store has no named ranges at all; must return false, not error.
	lists := store.NewMemStore(nil)
	assert.False(t, IsOfficer(context.Background(), lists, "officer@usfsoar.com"))
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, IsAdmin("admin@usfsoar.com", "admin@usfsoar.com"))
	assert.False(t, IsAdmin("other@usfsoar.com", "admin@usfsoar.com"))
	assert.False(t, IsAdmin("", ""))
}

func TestSessionRegistryHit(t *testing.T) {
	ctx := context.Background()
	registry := newMemRegistry()
	registry.entries["officer@usfsoar.com"] = Profile{SlackID: "U123", FullName: "Casey Officer"}

	session := NewSession("officer@usfsoar.com", officersStore("officer@usfsoar.com"), registry, AnonymousResolver{})

	user, err := session.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Casey Officer", user.FullName)
	assert.Equal(t, "U123", user.SlackID)
	assert.True(t, user.IsFinancialOfficer)
	assert.Zero(t, registry.appends)
}

func TestSessionMemoizes(t *testing.T) {
	ctx := context.Background()
	registry := newMemRegistry()
	prompt := &PromptResolver{In: strings.NewReader("U999\nNew Person\n"), Out: &strings.Builder{}}

	session := NewSession("new@usfsoar.com", officersStore(), registry, prompt)

	first, err := session.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "New Person", first.FullName)
	assert.Equal(t, 1, registry.appends)

	// Second call must come from the cache: the prompt reader is exhausted,
	// so any re-resolution would fail.
	second, err := session.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, registry.appends)
}

func TestPromptResolverRepeatsUntilNonEmpty(t *testing.T) {
	out := &strings.Builder{}
	prompt := &PromptResolver{
		In:  strings.NewReader("\n\nU777\n   \nPat Member\n"),
		Out: out,
	}

	profile, err := prompt.Resolve(context.Background(), "pat@usfsoar.com")
	require.NoError(t, err)
	assert.Equal(t, "U777", profile.SlackID)
	assert.Equal(t, "Pat Member", profile.FullName)
	assert.True(t, prompt.Persist())
}

func TestPromptResolverFailsOnClosedInput(t *testing.T) {
	prompt := &PromptResolver{In: strings.NewReader(""), Out: &strings.Builder{}}
	_, err := prompt.Resolve(context.Background(), "pat@usfsoar.com")
	assert.Error(t, err)
}

func TestAnonymousResolverNotPersisted(t *testing.T) {
	ctx := context.Background()
	registry := newMemRegistry()
	session := NewSession("", officersStore(), registry, AnonymousResolver{})

	user, err := session.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Unknown User", user.FullName)
	assert.False(t, user.IsFinancialOfficer)
	assert.Zero(t, registry.appends)
}
