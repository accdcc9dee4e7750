// Package sheets is the Google Sheets and Drive boundary: a thin API client,
// the spreadsheet-backed row store, the user registry, and the project
// catalog.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Client wraps the Sheets and Drive services for one spreadsheet.
type Client struct {
	sheets        *sheetsapi.Service
	drive         *drive.Service
	spreadsheetID string
}

func NewClient(ctx context.Context, credentialsFile, spreadsheetID string) (*Client, error) {
	sheetsService, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	driveService, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &Client{
		sheets:        sheetsService,
		drive:         driveService,
		spreadsheetID: spreadsheetID,
	}, nil
}

// SpreadsheetID returns the ID of the spreadsheet this client operates on.
func (c *Client) SpreadsheetID() string {
	return c.spreadsheetID
}

// SpreadsheetURL returns the base URL of the spreadsheet.
func (c *Client) SpreadsheetURL() string {
	return "https://docs.google.com/spreadsheets/d/" + c.spreadsheetID
}

func (c *Client) ReadRange(ctx context.Context, range_ string) ([][]interface{}, error) {
	resp, err := c.sheets.Spreadsheets.Values.Get(c.spreadsheetID, range_).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", range_, err)
	}
	return resp.Values, nil
}

// ReadRangeUnformatted reads a range with raw cell values instead of display
// text, so numbers come back as numbers.
func (c *Client) ReadRangeUnformatted(ctx context.Context, range_ string) ([][]interface{}, error) {
	resp, err := c.sheets.Spreadsheets.Values.Get(c.spreadsheetID, range_).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", range_, err)
	}
	return resp.Values, nil
}

func (c *Client) UpdateRange(ctx context.Context, range_ string, values [][]interface{}) error {
	valueRange := &sheetsapi.ValueRange{
		Values: values,
	}

	_, err := c.sheets.Spreadsheets.Values.Update(c.spreadsheetID, range_, valueRange).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update range %s: %w", range_, err)
	}

	return nil
}

func (c *Client) AppendRows(ctx context.Context, range_ string, rows [][]interface{}) error {
	valueRange := &sheetsapi.ValueRange{
		Values: rows,
	}

	_, err := c.sheets.Spreadsheets.Values.Append(c.spreadsheetID, range_, valueRange).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append rows: %w", err)
	}

	return nil
}

// SheetProperties returns the properties of the named sheet tab.
func (c *Client) SheetProperties(ctx context.Context, sheetName string) (*sheetsapi.SheetProperties, error) {
	spreadsheet, err := c.sheets.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet metadata: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == sheetName {
			return sheet.Properties, nil
		}
	}
	return nil, fmt.Errorf("sheet %q not found", sheetName)
}

// SheetURL returns the direct URL of the named sheet tab.
func (c *Client) SheetURL(ctx context.Context, sheetName string) (string, error) {
	props, err := c.SheetProperties(ctx, sheetName)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s#gid=%d", c.SpreadsheetURL(), props.SheetId), nil
}

// CreateSpreadsheet creates a new standalone spreadsheet and returns its ID.
func (c *Client) CreateSpreadsheet(ctx context.Context, title string) (string, error) {
	spreadsheet, err := c.sheets.Spreadsheets.Create(&sheetsapi.Spreadsheet{
		Properties: &sheetsapi.SpreadsheetProperties{Title: title},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create spreadsheet %q: %w", title, err)
	}
	return spreadsheet.SpreadsheetId, nil
}

// CopySheetTo copies a sheet tab into the destination spreadsheet and returns
// the new tab's sheet ID.
func (c *Client) CopySheetTo(ctx context.Context, sheetID int64, destSpreadsheetID string) (int64, error) {
	props, err := c.sheets.Spreadsheets.Sheets.CopyTo(c.spreadsheetID, sheetID,
		&sheetsapi.CopySheetToAnotherSpreadsheetRequest{
			DestinationSpreadsheetId: destSpreadsheetID,
		}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to copy sheet: %w", err)
	}
	return props.SheetId, nil
}

// RenameSheet renames a tab inside the given spreadsheet.
func (c *Client) RenameSheet(ctx context.Context, spreadsheetID string, sheetID int64, title string) error {
	_, err := c.sheets.Spreadsheets.BatchUpdate(spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			UpdateSheetProperties: &sheetsapi.UpdateSheetPropertiesRequest{
				Properties: &sheetsapi.SheetProperties{
					SheetId: sheetID,
					Title:   title,
				},
				Fields: "title",
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	return nil
}

// DeleteSheet removes a tab from the given spreadsheet.
func (c *Client) DeleteSheet(ctx context.Context, spreadsheetID string, sheetID int64) error {
	_, err := c.sheets.Spreadsheets.BatchUpdate(spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			DeleteSheet: &sheetsapi.DeleteSheetRequest{SheetId: sheetID},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to delete sheet: %w", err)
	}
	return nil
}

// UpdateExternalRange writes values into a spreadsheet other than the one
// this client is bound to.
func (c *Client) UpdateExternalRange(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error {
	valueRange := &sheetsapi.ValueRange{
		Values: values,
	}

	_, err := c.sheets.Spreadsheets.Values.Update(spreadsheetID, range_, valueRange).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update range %s: %w", range_, err)
	}

	return nil
}

// MoveToFolder reparents a Drive file into the target folder.
func (c *Client) MoveToFolder(ctx context.Context, fileID, folderID string) error {
	file, err := c.drive.Files.Get(fileID).
		Fields("parents").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to get file parents: %w", err)
	}

	previousParents := ""
	for i, parent := range file.Parents {
		if i > 0 {
			previousParents += ","
		}
		previousParents += parent
	}

	_, err = c.drive.Files.Update(fileID, nil).
		AddParents(folderID).
		RemoveParents(previousParents).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to move file to folder: %w", err)
	}

	return nil
}
