package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClipHeader(t *testing.T) {
	tests := []struct {
		name  string
		in    RowRange
		want  RowRange
		keeps bool
	}{
		{"below header untouched", RowRange{Start: 5, Count: 3}, RowRange{Start: 5, Count: 3}, true},
		{"starts at row 1", RowRange{Start: 1, Count: 5}, RowRange{Start: 3, Count: 3}, true},
		{"starts at row 2", RowRange{Start: 2, Count: 2}, RowRange{Start: 3, Count: 1}, true},
		{"entirely header", RowRange{Start: 1, Count: 2}, RowRange{}, false},
		{"single header row", RowRange{Start: 2, Count: 1}, RowRange{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.in.ClipHeader()
			assert.Equal(t, tt.keeps, ok)
			if tt.keeps {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseRowRanges(t *testing.T) {
	ranges, err := ParseRowRanges("4:6,9")
	require.NoError(t, err)
	assert.Equal(t, []RowRange{{Start: 4, Count: 3}, {Start: 9, Count: 1}}, ranges)

	_, err = ParseRowRanges("6:4")
	assert.Error(t, err)

	_, err = ParseRowRanges("abc")
	assert.Error(t, err)

	_, err = ParseRowRanges("")
	assert.Error(t, err)
}

func TestMemStoreColumnRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore([][]string{
		{"New", "Widget"},
		{"Denied", "Gadget"},
	})

	col, err := m.Column(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"New", "Denied"}, col)

	col[0] = "Submitted"
	require.NoError(t, m.SetColumn(ctx, 1, col))

	assert.Equal(t, "Submitted", m.Row(3)[0])
	assert.Equal(t, "Denied", m.Row(4)[0])
}

func TestMemStoreSetColumnLengthMismatch(t *testing.T) {
	m := NewMemStore([][]string{{"New"}})
	err := m.SetColumn(context.Background(), 1, []string{"a", "b"})
	assert.Error(t, err)
}

func TestMemStoreNamedLists(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore(nil)
	m.SetNamedList("Officers", []string{"a@x.edu", "", "b@x.edu"})

	flat, err := m.NamedList(ctx, "Officers")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.edu", "b@x.edu"}, flat)

	raw, err := m.NamedListRaw(ctx, "Officers")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.edu", "", "b@x.edu"}, raw)

	_, err = m.NamedList(ctx, "Missing")
	assert.Error(t, err)
}

func TestMemStoreRowsOutOfBounds(t *testing.T) {
	m := NewMemStore([][]string{{"New"}})
	_, err := m.Rows(context.Background(), RowRange{Start: 3, Count: 2})
	assert.Error(t, err)
}

func TestCellString(t *testing.T) {
	row := []string{"a", "b"}
	assert.Equal(t, "b", CellString(row, 1))
	assert.Equal(t, "", CellString(row, 5))
	assert.Equal(t, "", CellString(row, -1))
}
