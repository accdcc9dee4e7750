package sheets

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"purchasing_manager/internal/config"
	"purchasing_manager/internal/retry"
	"purchasing_manager/internal/store"
)

// SheetStore exposes one project sheet as a row store. Column reads and
// writes cover the whole data region below the header, padded to the sheet's
// grid height so every column comes back the same length.
type SheetStore struct {
	client    *Client
	sheetName string

	readCfg  retry.Config
	writeCfg retry.Config

	mu       sync.Mutex
	gridRows int
}

func NewStore(client *Client, sheetName string) *SheetStore {
	return &SheetStore{
		client:    client,
		sheetName: sheetName,
		readCfg:   config.DefaultResilienceConfig.SheetRead,
		writeCfg:  config.DefaultResilienceConfig.SheetWrite,
	}
}

// SheetName returns the sheet tab this store is bound to.
func (s *SheetStore) SheetName() string {
	return s.sheetName
}

// dataRows returns the number of rows below the header, from the sheet's
// grid height. Cached after the first call.
func (s *SheetStore) dataRows(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gridRows > 0 {
		return s.gridRows - config.NumHeaderRows, nil
	}

	props, err := retry.WithRetry(ctx, s.readCfg, func(ctx context.Context) (int64, error) {
		p, err := s.client.SheetProperties(ctx, s.sheetName)
		if err != nil {
			return 0, err
		}
		if p.GridProperties == nil {
			return 0, fmt.Errorf("sheet %q has no grid properties", s.sheetName)
		}
		return p.GridProperties.RowCount, nil
	})
	if err != nil {
		return 0, err
	}

	s.gridRows = int(props)
	log.Debug().
		Str("sheet", s.sheetName).
		Int("grid_rows", s.gridRows).
		Msg("Cached sheet grid height")

	return s.gridRows - config.NumHeaderRows, nil
}

func (s *SheetStore) Column(ctx context.Context, index int) ([]string, error) {
	numRows, err := s.dataRows(ctx)
	if err != nil {
		return nil, err
	}

	letter := colLetter(index)
	range_ := fmt.Sprintf("'%s'!%s%d:%s%d",
		s.sheetName, letter, config.NumHeaderRows+1, letter, config.NumHeaderRows+numRows)

	rows, err := retry.WithRetry(ctx, s.readCfg, func(ctx context.Context) ([][]interface{}, error) {
		return s.client.ReadRange(ctx, range_)
	})
	if err != nil {
		return nil, err
	}

	values := make([]string, numRows)
	for i, row := range rows {
		if i >= numRows {
			break
		}
		if len(row) > 0 {
			values[i] = cellText(row[0])
		}
	}
	return values, nil
}

func (s *SheetStore) SetColumn(ctx context.Context, index int, values []string) error {
	letter := colLetter(index)
	range_ := fmt.Sprintf("'%s'!%s%d:%s%d",
		s.sheetName, letter, config.NumHeaderRows+1, letter, config.NumHeaderRows+len(values))

	rows := make([][]interface{}, len(values))
	for i, v := range values {
		rows[i] = []interface{}{v}
	}

	_, err := retry.WithRetry(ctx, s.writeCfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.client.UpdateRange(ctx, range_, rows)
	})
	return err
}

func (s *SheetStore) Rows(ctx context.Context, rr store.RowRange) ([][]string, error) {
	range_ := fmt.Sprintf("'%s'!A%d:%s%d",
		s.sheetName, rr.Start, colLetter(config.NumItemColumns), rr.End())

	raw, err := retry.WithRetry(ctx, s.readCfg, func(ctx context.Context) ([][]interface{}, error) {
		return s.client.ReadRange(ctx, range_)
	})
	if err != nil {
		return nil, err
	}

	// The API drops trailing empty rows and cells; pad back to shape.
	rows := make([][]string, rr.Count)
	for i := range rows {
		rows[i] = make([]string, config.NumItemColumns)
		if i >= len(raw) {
			continue
		}
		for j, cell := range raw[i] {
			if j >= config.NumItemColumns {
				break
			}
			rows[i][j] = cellText(cell)
		}
	}
	return rows, nil
}

func (s *SheetStore) NamedList(ctx context.Context, name string) ([]string, error) {
	raw, err := s.NamedListRaw(ctx, name)
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

func (s *SheetStore) NamedListRaw(ctx context.Context, name string) ([]string, error) {
	rows, err := retry.WithRetry(ctx, s.readCfg, func(ctx context.Context) ([][]interface{}, error) {
		return s.client.ReadRange(ctx, name)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read named range %q: %w", name, err)
	}

	values := make([]string, len(rows))
	for i, row := range rows {
		if len(row) > 0 {
			values[i] = cellText(row[0])
		}
	}
	return values, nil
}

func (s *SheetStore) AppendRow(ctx context.Context, sheet string, row []string) error {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}

	_, err := retry.WithRetry(ctx, s.writeCfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.client.AppendRows(ctx, fmt.Sprintf("'%s'!A1", sheet), [][]interface{}{cells})
	})
	return err
}

// colLetter converts a 1-based column index to its A1 letter form.
func colLetter(index int) string {
	letters := ""
	for index > 0 {
		index--
		letters = string(rune('A'+index%26)) + letters
		index /= 26
	}
	return letters
}

func cellText(cell interface{}) string {
	if cell == nil {
		return ""
	}
	return fmt.Sprintf("%v", cell)
}
