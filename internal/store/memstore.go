package store

import (
	"context"
	"fmt"
	"sync"

	"purchasing_manager/internal/config"
)

// MemStore is an in-memory Store for tests. Data rows are stored 0-indexed,
// with index 0 corresponding to the first sheet row below the header.
type MemStore struct {
	mu       sync.RWMutex
	rows     [][]string
	named    map[string][]string
	appended map[string][][]string
}

// NewMemStore builds a store from data rows, padding each to the full item
// column width.
func NewMemStore(rows [][]string) *MemStore {
	padded := make([][]string, len(rows))
	for i, row := range rows {
		p := make([]string, config.NumItemColumns)
		copy(p, row)
		padded[i] = p
	}
	return &MemStore{
		rows:     padded,
		named:    make(map[string][]string),
		appended: make(map[string][][]string),
	}
}

// SetNamedList installs the raw values of a named range.
func (m *MemStore) SetNamedList(name string, values []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.named[name] = append([]string(nil), values...)
}

func (m *MemStore) Column(ctx context.Context, index int) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	values := make([]string, len(m.rows))
	for i, row := range m.rows {
		values[i] = row[index-1]
	}
	return values, nil
}

func (m *MemStore) SetColumn(ctx context.Context, index int, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(values) != len(m.rows) {
		return fmt.Errorf("column %d: got %d values for %d rows", index, len(values), len(m.rows))
	}
	for i, v := range values {
		m.rows[i][index-1] = v
	}
	return nil
}

func (m *MemStore) Rows(ctx context.Context, rr RowRange) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	start := ValuesIndex(rr.Start)
	if start < 0 || start+rr.Count > len(m.rows) {
		return nil, fmt.Errorf("row range %d:%d out of bounds", rr.Start, rr.End())
	}
	out := make([][]string, rr.Count)
	for i := range out {
		out[i] = append([]string(nil), m.rows[start+i]...)
	}
	return out, nil
}

func (m *MemStore) NamedList(ctx context.Context, name string) ([]string, error) {
	raw, err := m.NamedListRaw(ctx, name)
	if err != nil {
		return nil, err
	}
	var values []string
	for _, v := range raw {
		if v != "" {
			values = append(values, v)
		}
	}
	return values, nil
}

func (m *MemStore) NamedListRaw(ctx context.Context, name string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	values, ok := m.named[name]
	if !ok {
		return nil, fmt.Errorf("named range %q not found", name)
	}
	return append([]string(nil), values...), nil
}

func (m *MemStore) AppendRow(ctx context.Context, sheet string, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appended[sheet] = append(m.appended[sheet], append([]string(nil), row...))
	return nil
}

// Appended returns the rows appended to the named sheet.
func (m *MemStore) Appended(sheet string) [][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.appended[sheet]
}

// Row returns a copy of the data row at the given 1-based sheet row number.
func (m *MemStore) Row(sheetRow int) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.rows[ValuesIndex(sheetRow)]...)
}

// NumRows returns the number of data rows.
func (m *MemStore) NumRows() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}
