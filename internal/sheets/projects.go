package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sheetsapi "google.golang.org/api/sheets/v4"

	"purchasing_manager/internal/config"
	"purchasing_manager/internal/engine"
	"purchasing_manager/internal/retry"
	"purchasing_manager/internal/slack"
)

// Catalog answers questions about the spreadsheet's projects: which sheets
// are project sheets, how project names map to sheet names, and what the
// dashboards currently say.
type Catalog struct {
	client  *Client
	readCfg retry.Config
}

func NewCatalog(client *Client) *Catalog {
	return &Catalog{
		client:  client,
		readCfg: config.DefaultResilienceConfig.SheetRead,
	}
}

// IsProjectSheet reports whether the sheet name appears in the project sheet
// list. Batch operations refuse to run anywhere else.
func (c *Catalog) IsProjectSheet(ctx context.Context, sheetName string) (bool, error) {
	names, err := c.namedColumn(ctx, config.RangeProjectSheets)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == sheetName {
			return true, nil
		}
	}
	return false, nil
}

// SheetNameForProject resolves a project's display name to its sheet name.
func (c *Catalog) SheetNameForProject(ctx context.Context, projectName string) (string, bool, error) {
	pairs, err := c.namePairs(ctx)
	if err != nil {
		return "", false, err
	}
	for _, pair := range pairs {
		if pair[0] == projectName {
			return pair[1], true, nil
		}
	}
	return "", false, nil
}

// ProjectNameForSheet resolves a sheet name back to the project's display
// name. Falls back to the sheet name itself when no mapping exists.
func (c *Catalog) ProjectNameForSheet(ctx context.Context, sheetName string) (string, error) {
	pairs, err := c.namePairs(ctx)
	if err != nil {
		return "", err
	}
	for _, pair := range pairs {
		if pair[1] == sheetName {
			return pair[0], nil
		}
	}
	return sheetName, nil
}

// Project assembles the project identity a batch operation stamps on its
// notifications.
func (c *Catalog) Project(ctx context.Context, sheetName string) (engine.Project, error) {
	name, err := c.ProjectNameForSheet(ctx, sheetName)
	if err != nil {
		return engine.Project{}, err
	}

	props, err := c.client.SheetProperties(ctx, sheetName)
	if err != nil {
		return engine.Project{}, err
	}

	return engine.Project{
		Name:     name,
		SheetURL: fmt.Sprintf("%s#gid=%d", c.client.SpreadsheetURL(), props.SheetId),
		Color:    colorToHex(props.TabColor),
	}, nil
}

// BudgetStatus reads the project's dashboard numbers for the slash command
// response. The second return is false when the project is unknown.
func (c *Catalog) BudgetStatus(ctx context.Context, projectName string) (slack.BudgetStatus, bool, error) {
	sheetName, ok, err := c.SheetNameForProject(ctx, projectName)
	if err != nil {
		return slack.BudgetStatus{}, false, err
	}
	if !ok {
		// Accept a sheet name directly, the way officers type it.
		sheetName = projectName
	}

	isProject, err := c.IsProjectSheet(ctx, sheetName)
	if err != nil {
		return slack.BudgetStatus{}, false, err
	}
	if !isProject {
		return slack.BudgetStatus{}, false, nil
	}

	dashboardName := sheetName + " Dashboard"
	cells, err := retry.WithRetry(ctx, c.readCfg, func(ctx context.Context) ([][]interface{}, error) {
		return c.client.ReadRangeUnformatted(ctx, fmt.Sprintf("'%s'!C%d:D%d",
			dashboardName, config.CellTotalBudget.Row, config.CellTotalBudget.Row))
	})
	if err != nil {
		return slack.BudgetStatus{}, false, fmt.Errorf("failed to read dashboard for %q: %w", projectName, err)
	}

	bs := slack.BudgetStatus{}
	if len(cells) > 0 {
		if len(cells[0]) > 0 {
			bs.TotalBudget = cellFloat(cells[0][0])
		}
		if len(cells[0]) > 1 {
			bs.TotalExpenses = cellFloat(cells[0][1])
		}
	}

	bs.ProjectName, err = c.ProjectNameForSheet(ctx, sheetName)
	if err != nil {
		return slack.BudgetStatus{}, false, err
	}

	dashProps, err := c.client.SheetProperties(ctx, dashboardName)
	if err != nil {
		return slack.BudgetStatus{}, false, err
	}
	bs.DashboardURL = fmt.Sprintf("%s#gid=%d", c.client.SpreadsheetURL(), dashProps.SheetId)
	bs.Color = colorToHex(dashProps.TabColor)

	if sheetProps, err := c.client.SheetProperties(ctx, sheetName); err == nil {
		bs.SheetURL = fmt.Sprintf("%s#gid=%d", c.client.SpreadsheetURL(), sheetProps.SheetId)
	}

	return bs, true, nil
}

// ProjectDescription reads the free-text description cell from the project's
// dashboard.
func (c *Catalog) ProjectDescription(ctx context.Context, sheetName string) (string, error) {
	dashboardName := sheetName + " Dashboard"
	cell := config.CellProjectDescription
	rows, err := retry.WithRetry(ctx, c.readCfg, func(ctx context.Context) ([][]interface{}, error) {
		return c.client.ReadRange(ctx, fmt.Sprintf("'%s'!%s%d",
			dashboardName, colLetter(cell.Column), cell.Row))
	})
	if err != nil {
		return "", fmt.Errorf("failed to read project description: %w", err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return "", nil
	}
	return cellText(rows[0][0]), nil
}

// PurchasingFolderID reads the Drive folder that receives generated
// purchasing sheets.
func (c *Catalog) PurchasingFolderID(ctx context.Context) (string, error) {
	values, err := c.namedColumn(ctx, config.RangePurchasingFolderID)
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		return "", fmt.Errorf("named range %q is empty", config.RangePurchasingFolderID)
	}
	return values[0], nil
}

func (c *Catalog) namedColumn(ctx context.Context, name string) ([]string, error) {
	rows, err := retry.WithRetry(ctx, c.readCfg, func(ctx context.Context) ([][]interface{}, error) {
		return c.client.ReadRange(ctx, name)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read named range %q: %w", name, err)
	}

	var values []string
	for _, row := range rows {
		if len(row) > 0 && cellText(row[0]) != "" {
			values = append(values, cellText(row[0]))
		}
	}
	return values, nil
}

// namePairs reads the two-column project-name-to-sheet-name mapping.
func (c *Catalog) namePairs(ctx context.Context) ([][2]string, error) {
	rows, err := retry.WithRetry(ctx, c.readCfg, func(ctx context.Context) ([][]interface{}, error) {
		return c.client.ReadRange(ctx, config.RangeProjectNamesToSheets)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read project mapping: %w", err)
	}

	var pairs [][2]string
	for _, row := range rows {
		pair := [2]string{}
		if len(row) > 0 {
			pair[0] = cellText(row[0])
		}
		if len(row) > 1 {
			pair[1] = cellText(row[1])
		}
		if pair[0] != "" || pair[1] != "" {
			pairs = append(pairs, pair)
		}
	}
	return pairs, nil
}

func cellFloat(cell interface{}) float64 {
	switch v := cell.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case string:
		cleaned := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(v), "$"))
		f, err := strconv.ParseFloat(strings.ReplaceAll(cleaned, ",", ""), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

func colorToHex(color *sheetsapi.Color) string {
	if color == nil {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x",
		int(color.Red*255), int(color.Green*255), int(color.Blue*255))
}
