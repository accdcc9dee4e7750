// Package purchasing generates standalone purchasing-form spreadsheets from
// selected request rows: a copy of the form template, filled with the
// officer's details and the selected items, filed into the shared Drive
// folder.
package purchasing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	sheetsapi "google.golang.org/api/sheets/v4"

	"purchasing_manager/internal/auth"
	"purchasing_manager/internal/config"
	"purchasing_manager/internal/engine"
	"purchasing_manager/internal/status"
	"purchasing_manager/internal/store"
)

// Selection limits for one purchasing form.
const (
	MinOrderRows = 1
	MaxOrderRows = 12
)

// firstItemRow is the template row where the item table begins.
const firstItemRow = 50

var (
	ErrRowCount     = fmt.Errorf("can only send %d-%d rows at a time to a purchasing sheet", MinOrderRows, MaxOrderRows)
	ErrNotAllNew    = errors.New("one or more selected items is not \"New\"")
	ErrMixedVendors = errors.New("the items selected do not all have the same vendor")
)

// OrderItem is one line of the purchasing form's item table.
type OrderItem struct {
	Name      string
	Link      string
	Quantity  string
	UnitPrice string
}

// SheetOps is the slice of spreadsheet and Drive operations the generator
// performs.
type SheetOps interface {
	SheetProperties(ctx context.Context, sheetName string) (*sheetsapi.SheetProperties, error)
	CreateSpreadsheet(ctx context.Context, title string) (string, error)
	CopySheetTo(ctx context.Context, sheetID int64, destSpreadsheetID string) (int64, error)
	RenameSheet(ctx context.Context, spreadsheetID string, sheetID int64, title string) error
	DeleteSheet(ctx context.Context, spreadsheetID string, sheetID int64) error
	UpdateExternalRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error
	MoveToFolder(ctx context.Context, fileID, folderID string) error
}

// ProjectInfo resolves the project details stamped onto the form.
type ProjectInfo interface {
	ProjectNameForSheet(ctx context.Context, sheetName string) (string, error)
	ProjectDescription(ctx context.Context, sheetName string) (string, error)
	PurchasingFolderID(ctx context.Context) (string, error)
}

// Result points at the generated form.
type Result struct {
	SpreadsheetID  string
	SpreadsheetURL string
	FolderURL      string
	Title          string
	Vendor         string
	NumItems       int
}

// Generator builds purchasing forms.
type Generator struct {
	ops  SheetOps
	info ProjectInfo

	now func() time.Time
}

func NewGenerator(ops SheetOps, info ProjectInfo) *Generator {
	return &Generator{
		ops:  ops,
		info: info,
		now:  time.Now,
	}
}

// ValidateSelection checks the selected rows and extracts the order lines.
// Every row must be in the "New" status and share one vendor.
func ValidateSelection(rows [][]string) (string, []OrderItem, error) {
	if len(rows) < MinOrderRows || len(rows) > MaxOrderRows {
		return "", nil, ErrRowCount
	}

	newText := status.Get("NEW").Text
	vendor := store.CellString(rows[0], config.Columns.Supplier.Index-1)

	items := make([]OrderItem, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(store.CellString(row, config.Columns.Status.Index-1)) != newText {
			return "", nil, ErrNotAllNew
		}
		if store.CellString(row, config.Columns.Supplier.Index-1) != vendor {
			return "", nil, ErrMixedVendors
		}
		items = append(items, OrderItem{
			Name:      store.CellString(row, config.Columns.Name.Index-1),
			Link:      store.CellString(row, config.Columns.Link.Index-1),
			Quantity:  store.CellString(row, config.Columns.Quantity.Index-1),
			UnitPrice: store.CellString(row, config.Columns.UnitPrice.Index-1),
		})
	}

	return vendor, items, nil
}

// Generate builds a purchasing form for the selected rows of a project
// sheet. Validation runs before anything remote is created, so a bad
// selection never leaves a half-built spreadsheet behind.
func (g *Generator) Generate(ctx context.Context, st store.Store, sheetName string, ranges []store.RowRange, officer auth.User) (*Result, error) {
	if !officer.IsFinancialOfficer {
		return nil, engine.ErrNotOfficer
	}

	ranges = store.ClipHeaderAll(ranges)
	var rows [][]string
	for _, rr := range ranges {
		selected, err := st.Rows(ctx, rr)
		if err != nil {
			return nil, fmt.Errorf("failed to read selected rows: %w", err)
		}
		rows = append(rows, selected...)
	}

	vendor, items, err := ValidateSelection(rows)
	if err != nil {
		return nil, err
	}

	projectName, err := g.info.ProjectNameForSheet(ctx, sheetName)
	if err != nil {
		return nil, err
	}
	description, err := g.info.ProjectDescription(ctx, sheetName)
	if err != nil {
		return nil, err
	}
	folderID, err := g.info.PurchasingFolderID(ctx)
	if err != nil {
		return nil, err
	}

	now := g.now()
	title := fmt.Sprintf("%s - %s - %s", now.Format("06-01-02"), projectName, vendor)

	spreadsheetID, err := g.ops.CreateSpreadsheet(ctx, title)
	if err != nil {
		return nil, err
	}

	template, err := g.ops.SheetProperties(ctx, config.SheetPurchasingTemplate)
	if err != nil {
		return nil, err
	}
	formSheetID, err := g.ops.CopySheetTo(ctx, template.SheetId, spreadsheetID)
	if err != nil {
		return nil, err
	}
	if err := g.ops.RenameSheet(ctx, spreadsheetID, formSheetID, title); err != nil {
		return nil, err
	}
	// A freshly created spreadsheet has one default sheet with ID 0.
	if err := g.ops.DeleteSheet(ctx, spreadsheetID, 0); err != nil {
		return nil, err
	}

	if err := g.fillForm(ctx, spreadsheetID, title, officer, projectName, description, vendor, items, now); err != nil {
		return nil, err
	}

	if err := g.ops.MoveToFolder(ctx, spreadsheetID, folderID); err != nil {
		return nil, err
	}

	log.Info().
		Str("title", title).
		Str("vendor", vendor).
		Int("items", len(items)).
		Msg("Purchasing sheet generated")

	return &Result{
		SpreadsheetID:  spreadsheetID,
		SpreadsheetURL: "https://docs.google.com/spreadsheets/d/" + spreadsheetID,
		FolderURL:      "https://drive.google.com/drive/folders/" + folderID,
		Title:          title,
		Vendor:         vendor,
		NumItems:       len(items),
	}, nil
}

// fillForm writes the form's fixed cells and the item table. Cell addresses
// match the purchasing template layout.
func (g *Generator) fillForm(ctx context.Context, spreadsheetID, sheetTitle string, officer auth.User, projectName, description, vendor string, items []OrderItem, now time.Time) error {
	needBy := now.AddDate(0, 0, 14).Format("01/02/06")

	cells := []struct {
		addr  string
		value string
	}{
		{"I6", officer.FullName},
		{"I7", officer.Email},
		{"I8", officer.Phone},
		{"F14", projectName},
		{"A21", description},
		{"M38", needBy},
		{"J42", vendor},
	}
	for _, cell := range cells {
		range_ := fmt.Sprintf("'%s'!%s", sheetTitle, cell.addr)
		if err := g.ops.UpdateExternalRange(ctx, spreadsheetID, range_, [][]interface{}{{cell.value}}); err != nil {
			return fmt.Errorf("failed to fill form cell %s: %w", cell.addr, err)
		}
	}

	columns := []struct {
		letter string
		value  func(OrderItem) string
	}{
		{"B", func(it OrderItem) string { return it.Name }},
		{"H", func(it OrderItem) string { return it.Link }},
		{"M", func(it OrderItem) string { return it.Quantity }},
		{"O", func(it OrderItem) string { return it.UnitPrice }},
	}
	for _, column := range columns {
		values := make([][]interface{}, len(items))
		for i, item := range items {
			values[i] = []interface{}{column.value(item)}
		}
		range_ := fmt.Sprintf("'%s'!%s%d:%s%d",
			sheetTitle, column.letter, firstItemRow, column.letter, firstItemRow+len(items)-1)
		if err := g.ops.UpdateExternalRange(ctx, spreadsheetID, range_, values); err != nil {
			return fmt.Errorf("failed to fill item column %s: %w", column.letter, err)
		}
	}

	return nil
}
