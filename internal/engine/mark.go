package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"purchasing_manager/internal/auth"
	"purchasing_manager/internal/config"
	"purchasing_manager/internal/status"
	"purchasing_manager/internal/store"
	"purchasing_manager/internal/textutil"
)

// MarkItems transitions every eligible row in the selected ranges to the
// target status, writing the status, attribution, date, and default columns
// as one batched write per column, then notifies the status's audience.
//
// The operation is two sequential phases: a validation pre-pass over all
// candidate rows (any blocking failure aborts with zero writes), then the
// write phase. Rows whose current status is not an allowed predecessor are
// silently skipped, not errors.
func (e *Engine) MarkItems(ctx context.Context, st *status.Status, ranges []store.RowRange, user auth.User) (*Result, error) {
	if st.OfficersOnly && !user.IsFinancialOfficer {
		return nil, ErrNotOfficer
	}

	ranges = store.ClipHeaderAll(ranges)
	if len(ranges) == 0 {
		return nil, ErrNoEligibleRows
	}

	statusIdx := config.Columns.Status.Index - 1

	// Read every selected row once; reused by both phases.
	rangeRows := make([][][]string, len(ranges))
	for i, rr := range ranges {
		rows, err := e.store.Rows(ctx, rr)
		if err != nil {
			return nil, fmt.Errorf("failed to read selected rows: %w", err)
		}
		rangeRows[i] = rows
	}

	warnings, err := validateCandidates(rangeRows, statusIdx, st)
	if err != nil {
		return nil, err
	}

	cols, err := e.loadColumns(ctx, st)
	if err != nil {
		return nil, err
	}

	nowText := e.now().Format(config.DateTimeFormat)
	var items []Item
	var requestors []string
	marked := 0

	for i, rr := range ranges {
		for j := 0; j < rr.Count; j++ {
			vi := store.ValuesIndex(rr.Start + j)
			if vi < 0 || vi >= len(cols.status) {
				continue
			}
			if !st.IsAllowedFrom(cols.status[vi]) {
				continue
			}

			cols.status[vi] = st.Text
			if cols.user != nil {
				cols.user[vi] = user.Email
			}
			if cols.date != nil {
				cols.date[vi] = nowText
			}
			if st.FillInDefaults {
				if cols.account[vi] == "" {
					cols.account[vi] = cols.defaultAccount
				}
				if cols.category[vi] == "" {
					cols.category[vi] = config.DefaultCategory
				}
			}
			if cols.requestID != nil && cols.requestID[vi] == "" {
				cols.requestID[vi] = e.newID()
			}
			if cols.requestor != nil {
				requestors = textutil.AppendIfNew(requestors, strings.TrimSpace(cols.requestor[vi]))
			}

			items = append(items, itemFromRow(rangeRows[i][j]))
			marked++
		}
	}

	if marked == 0 {
		return nil, ErrNoEligibleRows
	}

	if err := e.writeColumns(ctx, st, cols); err != nil {
		return nil, err
	}

	fromStatuses := make([]string, len(st.AllowedPrevious))
	for i, prev := range st.AllowedPrevious {
		fromStatuses[i] = textutil.WrapInDoubleQuotes(string(prev))
	}

	result := &Result{
		Marked:       marked,
		FromStatuses: fromStatuses,
		Warnings:     warnings,
	}

	log.Info().
		Int("marked", marked).
		Str("from", textutil.MakeList(fromStatuses, "or")).
		Str("to", st.Text).
		Str("project", e.project.Name).
		Msg("Items marked")

	if e.notifier != nil {
		if err := e.notifier.NotifyItems(ctx, st, user, requestors, items, e.project); err != nil {
			log.Error().Err(err).Str("status", st.Key).Msg("Notification failed after sheet update")
			return result, &NotifyError{Err: err}
		}
	}

	return result, nil
}

// MarkAllItems runs MarkItems over every data row up to the last row with a
// non-empty Name.
func (e *Engine) MarkAllItems(ctx context.Context, st *status.Status, user auth.User) (*Result, error) {
	names, err := e.store.Column(ctx, config.Columns.Name.Index)
	if err != nil {
		return nil, fmt.Errorf("failed to read name column: %w", err)
	}

	lastDataIdx := -1
	for i, name := range names {
		if strings.TrimSpace(name) != "" {
			lastDataIdx = i
		}
	}
	if lastDataIdx < 0 {
		return nil, ErrNoEligibleRows
	}

	all := store.RowRange{Start: config.NumHeaderRows + 1, Count: lastDataIdx + 1}
	return e.MarkItems(ctx, st, []store.RowRange{all}, user)
}

// transitionColumns caches every column a transition touches, so each is
// read once before the write phase and written once after it.
type transitionColumns struct {
	status         []string
	user           []string
	date           []string
	account        []string
	category       []string
	requestID      []string
	requestor      []string
	defaultAccount string
}

func (e *Engine) loadColumns(ctx context.Context, st *status.Status) (*transitionColumns, error) {
	cols := &transitionColumns{}

	var err error
	if cols.status, err = e.store.Column(ctx, config.Columns.Status.Index); err != nil {
		return nil, fmt.Errorf("failed to read status column: %w", err)
	}
	if st.UserColumn != nil {
		if cols.user, err = e.store.Column(ctx, st.UserColumn.Index); err != nil {
			return nil, fmt.Errorf("failed to read %q column: %w", st.UserColumn.Name, err)
		}
	}
	if st.DateColumn != nil {
		if cols.date, err = e.store.Column(ctx, st.DateColumn.Index); err != nil {
			return nil, fmt.Errorf("failed to read %q column: %w", st.DateColumn.Name, err)
		}
	}
	if st.FillInDefaults {
		if cols.account, err = e.store.Column(ctx, config.Columns.Account.Index); err != nil {
			return nil, fmt.Errorf("failed to read account column: %w", err)
		}
		if cols.category, err = e.store.Column(ctx, config.Columns.Category.Index); err != nil {
			return nil, fmt.Errorf("failed to read category column: %w", err)
		}
		accounts, err := e.store.NamedList(ctx, config.RangeAccounts)
		if err != nil {
			return nil, fmt.Errorf("failed to read default account list: %w", err)
		}
		if len(accounts) == 0 {
			return nil, fmt.Errorf("default account list %q is empty", config.RangeAccounts)
		}
		cols.defaultAccount = accounts[0]
	}
	if st.AssignRequestID {
		if cols.requestID, err = e.store.Column(ctx, config.Columns.RequestID.Index); err != nil {
			return nil, fmt.Errorf("failed to read request id column: %w", err)
		}
	}
	if st.Slack.TargetUsers == status.AudienceRequestors {
		// Read-only: requestor emails feed the notification recipient set.
		if cols.requestor, err = e.store.Column(ctx, config.Columns.RequestEmail.Index); err != nil {
			return nil, fmt.Errorf("failed to read requestor column: %w", err)
		}
	}

	return cols, nil
}

// writeColumns flushes the cached columns, one write per column. A failure
// partway leaves earlier columns written; the failure point is reported and
// nothing is rolled back.
func (e *Engine) writeColumns(ctx context.Context, st *status.Status, cols *transitionColumns) error {
	write := func(index int, name string, values []string) error {
		if values == nil {
			return nil
		}
		if err := e.store.SetColumn(ctx, index, values); err != nil {
			return fmt.Errorf("failed to write %q column (sheet may be partially updated): %w", name, err)
		}
		return nil
	}

	if err := write(config.Columns.Status.Index, config.Columns.Status.Name, cols.status); err != nil {
		return err
	}
	if st.UserColumn != nil {
		if err := write(st.UserColumn.Index, st.UserColumn.Name, cols.user); err != nil {
			return err
		}
	}
	if st.DateColumn != nil {
		if err := write(st.DateColumn.Index, st.DateColumn.Name, cols.date); err != nil {
			return err
		}
	}
	if err := write(config.Columns.Account.Index, config.Columns.Account.Name, cols.account); err != nil {
		return err
	}
	if err := write(config.Columns.Category.Index, config.Columns.Category.Name, cols.category); err != nil {
		return err
	}
	return write(config.Columns.RequestID.Index, config.Columns.RequestID.Name, cols.requestID)
}

func itemFromRow(row []string) Item {
	cell := func(c config.Column) string { return store.CellString(row, c.Index-1) }
	return Item{
		Name:              cell(config.Columns.Name),
		Quantity:          cell(config.Columns.Quantity),
		TotalPrice:        cell(config.Columns.TotalPrice),
		UnitPrice:         cell(config.Columns.UnitPrice),
		Category:          cell(config.Columns.Category),
		RequestorComments: cell(config.Columns.RequestComments),
		OfficerComments:   cell(config.Columns.OfficerComments),
		Supplier:          cell(config.Columns.Supplier),
		ProductNum:        cell(config.Columns.ProductNum),
		Link:              cell(config.Columns.Link),
	}
}
