// Package engine implements the batch transition executor: validating a set
// of candidate rows against a target status and applying the status change
// across them as one logical batch of per-column writes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"purchasing_manager/internal/auth"
	"purchasing_manager/internal/status"
	"purchasing_manager/internal/store"
)

// ErrNotOfficer rejects an officer-gated operation for a non-officer actor.
var ErrNotOfficer = errors.New("only financial officers may perform this action")

// ErrNoEligibleRows is returned by a standard transition when no selected
// row was in an allowed previous status.
var ErrNoEligibleRows = errors.New("no valid items selected")

// ValidationError blocks an entire batch before any writes: a candidate row
// is missing a value the target status requires.
type ValidationError struct {
	Column string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cannot mark: one or more items is missing a value for %q; this value is required and the items were not marked", e.Column)
}

// NotifyError reports a notification failure after the sheet mutation has
// already committed. The sheet is the source of truth; it is never rolled
// back because a message could not be delivered.
type NotifyError struct {
	Err error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("items were marked, but sending the notification failed: %v", e.Err)
}

func (e *NotifyError) Unwrap() error { return e.Err }

// Item is the projection of a transitioned row used to build notifications.
// Values are raw cell text; the composer does its own number formatting.
type Item struct {
	Name              string
	Quantity          string
	TotalPrice        string
	UnitPrice         string
	Category          string
	RequestorComments string
	OfficerComments   string
	Supplier          string
	ProductNum        string
	Link              string
}

// Project identifies the project sheet a batch operation runs against.
type Project struct {
	Name     string
	SheetURL string
	Color    string
}

// Notifier receives the items affected by a standard transition. Implemented
// by the Slack composer; fast-forward never calls it.
type Notifier interface {
	NotifyItems(ctx context.Context, st *status.Status, actor auth.User, requestors []string, items []Item, project Project) error
}

// Result summarizes a completed standard transition.
type Result struct {
	Marked       int
	FromStatuses []string
	Warnings     []string
}

// Engine applies batch transitions to one project sheet.
type Engine struct {
	store    store.Store
	notifier Notifier
	project  Project

	now   func() time.Time
	newID func() string
}

// New builds an engine over the given store. notifier may be nil to disable
// notifications (diagnostics, dry runs).
func New(st store.Store, notifier Notifier, project Project) *Engine {
	return &Engine{
		store:    st,
		notifier: notifier,
		project:  project,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}
