package config

// Column identifies a single field slot in the fixed-width project sheet
// schema. Index is 1-based, matching spreadsheet column numbering.
type Column struct {
	Index int
	Name  string
}

// NumHeaderRows is the number of header rows in every project sheet. Row
// selections are clipped past the header before any batch operation.
const NumHeaderRows = 2

// NumItemColumns is the width of the project sheet row schema.
const NumItemColumns = 22

// DateTimeFormat is the format written into date columns on transitions.
const DateTimeFormat = "01/02/2006 15:04:05"

// Columns holds the project sheet column schema, as 1-based indexes.
var Columns = struct {
	Status          Column
	Name            Column
	Supplier        Column
	ProductNum      Column
	Link            Column
	UnitPrice       Column
	Quantity        Column
	Shipping        Column
	TotalPrice      Column
	Category        Column
	RequestComments Column
	RequestEmail    Column
	RequestDate     Column
	OfficerEmail    Column
	OfficerComments Column
	Account         Column
	RequestID       Column
	SubmitDate      Column
	UpdateDate      Column
	ArriveDate      Column
	ReceiveEmail    Column
	ReceiveDate     Column
}{
	Status:          Column{1, "Status"},
	Name:            Column{2, "Name"},
	Supplier:        Column{3, "Supplier"},
	ProductNum:      Column{4, "Product Number"},
	Link:            Column{5, "Link"},
	UnitPrice:       Column{6, "Unit Price"},
	Quantity:        Column{7, "Quantity"},
	Shipping:        Column{8, "Shipping Price"},
	TotalPrice:      Column{9, "Total Price"},
	Category:        Column{10, "Category"},
	RequestComments: Column{11, "Request Comments"},
	RequestEmail:    Column{12, "Requestor Email"},
	RequestDate:     Column{13, "Request Date"},
	OfficerEmail:    Column{14, "Financial Officer Email"},
	OfficerComments: Column{15, "Financial Officer Comments"},
	Account:         Column{16, "Purchasing Account"},
	RequestID:       Column{17, "Request ID"},
	SubmitDate:      Column{18, "Submit Date"},
	UpdateDate:      Column{19, "Update Date"},
	ArriveDate:      Column{20, "Arrival Date"},
	ReceiveEmail:    Column{21, "Receiver Email"},
	ReceiveDate:     Column{22, "Receive Date"},
}

// Named ranges throughout the spreadsheet.
const (
	RangeApprovedOfficers       = "ApprovedOfficers"
	RangeNotifyApprovedOfficers = "NotifyApprovedOfficers"
	RangeProjectSheets          = "ProjectSheets"
	RangeProjectNamesToSheets   = "ProjectNamesToSheets"
	RangeAccounts               = "Accounts"
	RangePurchasingFolderID     = "PurchasingSheetsFolderID"
)

// Sheet names inside the spreadsheet.
const (
	SheetUsers              = "Users"
	SheetPurchasingTemplate = "Purchasing Sheet Template"
	SheetMainDashboard      = "Main Dashboard"
)

// DefaultCategory is filled into an empty Category cell when a status has
// fill-in-defaults set. The default Account value comes from the first entry
// of the Accounts named range and is resolved at transition time.
const DefaultCategory = "Uncategorized"

// Slack interface constants.
const (
	SlackStatusSlashCommand    = "/budgetstatus"
	SlackItemListActionLegacy  = "listItems"
	SlackItemListAction        = "showItemList"
	SlackCheckMarkEmoji        = ":heavy_check_mark:"
	SlackFooterIcon            = "https://www.usfsoar.com/wp-content/uploads/2018/09/595bae9a-c1f9-4b46-880e-dc6d4e1d0dac.png"
	SlackFooterText            = "SOAR Purchasing Database"
	SlackAttachmentValueLimit  = 2000
	SlackTooManyItemsFallback  = "Sorry, there were too many items to list. Open the project sheet to view them instead."
	SlackItemListIntro         = "Here are all the items that were affected by that action:"
)

// DashboardCell addresses a single cell in a project dashboard sheet,
// 1-based.
type DashboardCell struct {
	Row    int
	Column int
}

// Dashboard cell locations for the budget status slash command.
var (
	CellTotalBudget        = DashboardCell{Row: 4, Column: 3}
	CellTotalExpenses      = DashboardCell{Row: 4, Column: 4}
	CellProjectDescription = DashboardCell{Row: 11, Column: 3}
)

// Prompts shown when an unknown user performs their first action.
const (
	SlackIDPrompt = "Looks like this is your first time using the purchasing database. " +
		"Please enter your Slack Member ID (NOT your username!), found in your Slack profile dropdown menu."
	FullNamePrompt = "Great, thank you! Please also enter your full name. You won't have to do this next time."
)
