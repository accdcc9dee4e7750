package purchasing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sheetsapi "google.golang.org/api/sheets/v4"

	"purchasing_manager/internal/auth"
	"purchasing_manager/internal/config"
	"purchasing_manager/internal/engine"
	"purchasing_manager/internal/store"
)

func orderRow(statusText, name, supplier string) []string {
	row := make([]string, config.NumItemColumns)
	row[config.Columns.Status.Index-1] = statusText
	row[config.Columns.Name.Index-1] = name
	row[config.Columns.Supplier.Index-1] = supplier
	row[config.Columns.Link.Index-1] = "https://example.com/" + name
	row[config.Columns.Quantity.Index-1] = "2"
	row[config.Columns.UnitPrice.Index-1] = "9.99"
	return row
}

func TestValidateSelection(t *testing.T) {
	t.Run("extracts items", func(t *testing.T) {
		vendor, items, err := ValidateSelection([][]string{
			orderRow("New", "Bolt", "McMaster-Carr"),
			orderRow("New", "Nut", "McMaster-Carr"),
		})
		require.NoError(t, err)
		assert.Equal(t, "McMaster-Carr", vendor)
		require.Len(t, items, 2)
		assert.Equal(t, "Bolt", items[0].Name)
		assert.Equal(t, "https://example.com/Bolt", items[0].Link)
		assert.Equal(t, "2", items[0].Quantity)
		assert.Equal(t, "9.99", items[0].UnitPrice)
	})

	t.Run("empty selection", func(t *testing.T) {
		_, _, err := ValidateSelection(nil)
		assert.ErrorIs(t, err, ErrRowCount)
	})

	t.Run("too many rows", func(t *testing.T) {
		rows := make([][]string, MaxOrderRows+1)
		for i := range rows {
			rows[i] = orderRow("New", "Bolt", "McMaster-Carr")
		}
		_, _, err := ValidateSelection(rows)
		assert.ErrorIs(t, err, ErrRowCount)
	})

	t.Run("not all new", func(t *testing.T) {
		_, _, err := ValidateSelection([][]string{
			orderRow("New", "Bolt", "McMaster-Carr"),
			orderRow("Submitted", "Nut", "McMaster-Carr"),
		})
		assert.ErrorIs(t, err, ErrNotAllNew)
	})

	t.Run("mixed vendors", func(t *testing.T) {
		_, _, err := ValidateSelection([][]string{
			orderRow("New", "Bolt", "McMaster-Carr"),
			orderRow("New", "Nut", "Grainger"),
		})
		assert.ErrorIs(t, err, ErrMixedVendors)
	})
}

type fakeOps struct {
	created  []string
	copies   int
	renamed  map[int64]string
	deleted  []int64
	updates  map[string][][]interface{}
	moves    map[string]string
	createID string
}

func newFakeOps() *fakeOps {
	return &fakeOps{
		renamed:  make(map[int64]string),
		updates:  make(map[string][][]interface{}),
		moves:    make(map[string]string),
		createID: "new-spreadsheet",
	}
}

func (f *fakeOps) SheetProperties(ctx context.Context, sheetName string) (*sheetsapi.SheetProperties, error) {
	return &sheetsapi.SheetProperties{SheetId: 77, Title: sheetName}, nil
}

func (f *fakeOps) CreateSpreadsheet(ctx context.Context, title string) (string, error) {
	f.created = append(f.created, title)
	return f.createID, nil
}

func (f *fakeOps) CopySheetTo(ctx context.Context, sheetID int64, destSpreadsheetID string) (int64, error) {
	f.copies++
	return 101, nil
}

func (f *fakeOps) RenameSheet(ctx context.Context, spreadsheetID string, sheetID int64, title string) error {
	f.renamed[sheetID] = title
	return nil
}

func (f *fakeOps) DeleteSheet(ctx context.Context, spreadsheetID string, sheetID int64) error {
	f.deleted = append(f.deleted, sheetID)
	return nil
}

func (f *fakeOps) UpdateExternalRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error {
	f.updates[range_] = values
	return nil
}

func (f *fakeOps) MoveToFolder(ctx context.Context, fileID, folderID string) error {
	f.moves[fileID] = folderID
	return nil
}

type fakeInfo struct{}

func (fakeInfo) ProjectNameForSheet(ctx context.Context, sheetName string) (string, error) {
	return "Rocket", nil
}

func (fakeInfo) ProjectDescription(ctx context.Context, sheetName string) (string, error) {
	return "Annual competition rocket", nil
}

func (fakeInfo) PurchasingFolderID(ctx context.Context) (string, error) {
	return "folder-123", nil
}

var testOfficer = auth.User{
	Email:              "officer@usfsoar.com",
	FullName:           "Casey Officer",
	Phone:              "555-0100",
	IsFinancialOfficer: true,
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	ops := newFakeOps()
	g := NewGenerator(ops, fakeInfo{})
	g.now = func() time.Time { return time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC) }

	mem := store.NewMemStore([][]string{
		orderRow("New", "Bolt", "McMaster-Carr"),
		orderRow("New", "Nut", "McMaster-Carr"),
	})

	result, err := g.Generate(ctx, mem, "SOAR Rocket", []store.RowRange{{Start: 3, Count: 2}}, testOfficer)
	require.NoError(t, err)

	wantTitle := "26-08-29 - Rocket - McMaster-Carr"
	assert.Equal(t, wantTitle, result.Title)
	assert.Equal(t, "McMaster-Carr", result.Vendor)
	assert.Equal(t, 2, result.NumItems)
	assert.Equal(t, []string{wantTitle}, ops.created)
	assert.Equal(t, 1, ops.copies)
	assert.Equal(t, wantTitle, ops.renamed[101])
	assert.Equal(t, []int64{0}, ops.deleted)
	assert.Equal(t, "folder-123", ops.moves["new-spreadsheet"])

	cell := func(addr string) interface{} {
		values, ok := ops.updates["'"+wantTitle+"'!"+addr]
		require.True(t, ok, "missing update for %s", addr)
		return values[0][0]
	}
	assert.Equal(t, "Casey Officer", cell("I6"))
	assert.Equal(t, "officer@usfsoar.com", cell("I7"))
	assert.Equal(t, "555-0100", cell("I8"))
	assert.Equal(t, "Rocket", cell("F14"))
	assert.Equal(t, "Annual competition rocket", cell("A21"))
	assert.Equal(t, "09/12/26", cell("M38"))
	assert.Equal(t, "McMaster-Carr", cell("J42"))

	names := ops.updates["'"+wantTitle+"'!B50:B51"]
	require.Len(t, names, 2)
	assert.Equal(t, "Bolt", names[0][0])
	assert.Equal(t, "Nut", names[1][0])
	assert.Contains(t, ops.updates, "'"+wantTitle+"'!H50:H51")
	assert.Contains(t, ops.updates, "'"+wantTitle+"'!M50:M51")
	assert.Contains(t, ops.updates, "'"+wantTitle+"'!O50:O51")
}

func TestGenerateRequiresOfficer(t *testing.T) {
	ops := newFakeOps()
	g := NewGenerator(ops, fakeInfo{})

	mem := store.NewMemStore([][]string{orderRow("New", "Bolt", "McMaster-Carr")})
	_, err := g.Generate(context.Background(), mem, "SOAR Rocket",
		[]store.RowRange{{Start: 3, Count: 1}}, auth.User{Email: "member@usfsoar.com"})
	assert.ErrorIs(t, err, engine.ErrNotOfficer)
	assert.Empty(t, ops.created)
}

func TestGenerateInvalidSelectionCreatesNothing(t *testing.T) {
	ops := newFakeOps()
	g := NewGenerator(ops, fakeInfo{})

	mem := store.NewMemStore([][]string{
		orderRow("New", "Bolt", "McMaster-Carr"),
		orderRow("Denied", "Nut", "McMaster-Carr"),
	})
	_, err := g.Generate(context.Background(), mem, "SOAR Rocket",
		[]store.RowRange{{Start: 3, Count: 2}}, testOfficer)
	assert.ErrorIs(t, err, ErrNotAllNew)

	// Nothing remote was touched.
	assert.Empty(t, ops.created)
	assert.Empty(t, ops.updates)
}
