package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"purchasing_manager/internal/auth"
	"purchasing_manager/internal/config"
	"purchasing_manager/internal/status"
	"purchasing_manager/internal/store"
)

// FastForwardItems jumps every selected row directly to the target status,
// back-filling any empty attribution and date columns that intermediate
// statuses would have written. It is an administrative correction tool:
// officer-only regardless of the status's own gate, no predecessor filter,
// no field validation, and never a notification. An empty selection is a
// valid zero-count outcome.
func (e *Engine) FastForwardItems(ctx context.Context, st *status.Status, ranges []store.RowRange, user auth.User) (int, error) {
	if !user.IsFinancialOfficer {
		return 0, ErrNotOfficer
	}

	ranges = store.ClipHeaderAll(ranges)
	if len(ranges) == 0 {
		return 0, nil
	}

	cols, err := e.loadColumns(ctx, st)
	if err != nil {
		return 0, err
	}

	// Columns that should already be filled had the row walked through the
	// skipped statuses; only their empty cells are back-filled.
	pastUser := make([][]string, len(st.FastForwardUser))
	for i, column := range st.FastForwardUser {
		if pastUser[i], err = e.store.Column(ctx, column.Index); err != nil {
			return 0, fmt.Errorf("failed to read %q column: %w", column.Name, err)
		}
	}
	pastDate := make([][]string, len(st.FastForwardDate))
	for i, column := range st.FastForwardDate {
		if pastDate[i], err = e.store.Column(ctx, column.Index); err != nil {
			return 0, fmt.Errorf("failed to read %q column: %w", column.Name, err)
		}
	}

	nowText := e.now().Format(config.DateTimeFormat)
	count := 0

	for _, rr := range ranges {
		for j := 0; j < rr.Count; j++ {
			vi := store.ValuesIndex(rr.Start + j)
			if vi < 0 || vi >= len(cols.status) {
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
			for _, values := range pastUser {
				if values[vi] == "" {
					values[vi] = user.Email
				}
			}
			for _, values := range pastDate {
				if values[vi] == "" {
					values[vi] = nowText
				}
			}
			count++
		}
	}

	if count == 0 {
		return 0, nil
	}

	if err := e.writeColumns(ctx, st, cols); err != nil {
		return 0, err
	}
	for i, column := range st.FastForwardUser {
		if err := e.store.SetColumn(ctx, column.Index, pastUser[i]); err != nil {
			return 0, fmt.Errorf("failed to write %q column (sheet may be partially updated): %w", column.Name, err)
		}
	}
	for i, column := range st.FastForwardDate {
		if err := e.store.SetColumn(ctx, column.Index, pastDate[i]); err != nil {
			return 0, fmt.Errorf("failed to write %q column (sheet may be partially updated): %w", column.Name, err)
		}
	}

	log.Info().
		Int("fast_forwarded", count).
		Str("to", st.Text).
		Str("project", e.project.Name).
		Msg("Items fast-forwarded")

	return count, nil
}
