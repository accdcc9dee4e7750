package status

import "purchasing_manager/internal/config"

func col(c config.Column) *config.Column { return &c }

// Registry holds every status in the normal workflow graph, keyed by logical
// name. Lookups are by these fixed keys; there is no mutation API.
var Registry = map[string]*Status{
	"CREATED": {
		Key:             "CREATED",
		Text:            string(Unset),
		AllowedPrevious: []Text{},
	},
	"NEW": {
		Key:             "NEW",
		Text:            "New",
		AllowedPrevious: []Text{Unset, "Awaiting Info"},
		UserColumn:      col(config.Columns.RequestEmail),
		DateColumn:      col(config.Columns.RequestDate),
		RequiredColumns: []config.Column{
			config.Columns.Name,
			config.Columns.Supplier,
			config.Columns.UnitPrice,
			config.Columns.Quantity,
			config.Columns.Category,
		},
		AssignRequestID: true,
		Slack: Slack{
			Emoji:       ":new:",
			TargetUsers: AudienceOfficers,
			MessageTemplates: []string{
				"{emoji} {userTags} {userFullName} has submitted {numMarked} new item{plural} to be purchased for {projectName}.",
			},
			ChannelWebhooks: []string{ChannelPurchasing},
		},
	},
	"SUBMITTED": {
		Key:             "SUBMITTED",
		Text:            "Submitted",
		AllowedPrevious: []Text{"New"},
		OfficersOnly:    true,
		UserColumn:      col(config.Columns.OfficerEmail),
		DateColumn:      col(config.Columns.SubmitDate),
		FastForwardUser: []config.Column{config.Columns.RequestEmail},
		FastForwardDate: []config.Column{config.Columns.RequestDate},
		RecommendedColumns: []config.Column{
			config.Columns.Account,
			config.Columns.Category,
		},
		FillInDefaults: true,
		Slack: Slack{
			Emoji:       ":usf:",
			TargetUsers: AudienceRequestors,
			MessageTemplates: []string{
				"{emoji} {userTags} {userFullName} marked {numMarked} item{plural} for {projectName} as *submitted* to Student Government.",
			},
			ChannelWebhooks: []string{ChannelPurchasing},
		},
	},
	"APPROVED": {
		Key:             "APPROVED",
		Text:            "Ordered",
		AllowedPrevious: []Text{"Submitted", "New"},
		OfficersOnly:    true,
		DateColumn:      col(config.Columns.UpdateDate),
		FastForwardUser: []config.Column{config.Columns.RequestEmail, config.Columns.OfficerEmail},
		FastForwardDate: []config.Column{config.Columns.RequestDate, config.Columns.SubmitDate},
		FillInDefaults:  true,
		Slack: Slack{
			Emoji:       ":white_check_mark:",
			TargetUsers: AudienceRequestors,
			MessageTemplates: []string{
				"{emoji} {userTags} {userFullName} marked {numMarked} item{plural} for {projectName} as *ordered*.",
			},
			ChannelWebhooks: []string{ChannelPurchasing},
		},
	},
	"AWAITING_PICKUP": {
		Key:             "AWAITING_PICKUP",
		Text:            "Awaiting Pickup",
		AllowedPrevious: []Text{"Submitted", "Ordered"},
		OfficersOnly:    true,
		DateColumn:      col(config.Columns.ArriveDate),
		FastForwardUser: []config.Column{config.Columns.RequestEmail, config.Columns.OfficerEmail},
		FastForwardDate: []config.Column{
			config.Columns.RequestDate,
			config.Columns.SubmitDate,
			config.Columns.UpdateDate,
		},
		FillInDefaults: true,
		Slack: Slack{
			Emoji:       ":package:",
			TargetUsers: AudienceChannel,
			MessageTemplates: []string{
				"{emoji} {userFullName} marked {numMarked} item{plural} for {projectName} as awaiting pickup (usually in MSC 4300). _React with " +
					config.SlackCheckMarkEmoji +
					" if you're going to pick them up._",
			},
			ChannelWebhooks: []string{ChannelPurchasing},
		},
	},
	"RECEIVED": {
		Key:             "RECEIVED",
		Text:            "Received",
		AllowedPrevious: []Text{"Awaiting Pickup", "Submitted", "Ordered"},
		UserColumn:      col(config.Columns.ReceiveEmail),
		DateColumn:      col(config.Columns.ReceiveDate),
		FastForwardUser: []config.Column{config.Columns.RequestEmail, config.Columns.OfficerEmail},
		FastForwardDate: []config.Column{
			config.Columns.RequestDate,
			config.Columns.SubmitDate,
			config.Columns.UpdateDate,
			config.Columns.ArriveDate,
		},
		Slack: Slack{
			Emoji:       ":heavy_check_mark:",
			TargetUsers: AudienceRequestors,
			MessageTemplates: []string{
				"{emoji} {userTags} {userFullName} marked {numMarked} item{plural} for {projectName} as received (picked up).",
			},
			ChannelWebhooks: []string{ChannelPurchasing},
		},
	},
	"DENIED": {
		Key:             "DENIED",
		Text:            "Denied",
		AllowedPrevious: []Text{"New", "Submitted", "Ordered", "Awaiting Info"},
		OfficersOnly:    true,
		UserColumn:      col(config.Columns.OfficerEmail),
		DateColumn:      col(config.Columns.UpdateDate),
		FastForwardUser: []config.Column{config.Columns.RequestEmail},
		FastForwardDate: []config.Column{config.Columns.RequestDate},
		RequiredColumns: []config.Column{config.Columns.OfficerComments},
		Slack: Slack{
			Emoji:       ":x:",
			TargetUsers: AudienceRequestors,
			MessageTemplates: []string{
				"{emoji} {userTags} {userFullName} *denied* {numMarked} item{plural} for {projectName} (_see comments in database_).",
			},
			ChannelWebhooks: []string{ChannelPurchasing},
		},
	},
	"AWAITING_INFO": {
		Key:             "AWAITING_INFO",
		Text:            "Awaiting Info",
		AllowedPrevious: []Text{"New", "Submitted", "Denied", "Ordered", "Received"},
		OfficersOnly:    true,
		UserColumn:      col(config.Columns.OfficerEmail),
		DateColumn:      col(config.Columns.UpdateDate),
		FastForwardUser: []config.Column{config.Columns.RequestEmail},
		FastForwardDate: []config.Column{config.Columns.RequestDate},
		RequiredColumns: []config.Column{config.Columns.OfficerComments},
		Slack: Slack{
			Emoji:       ":exclamation:",
			TargetUsers: AudienceRequestors,
			MessageTemplates: []string{
				"{emoji} {userTags} {userFullName} requested more info for {numMarked} item{plural} for {projectName} (_see comments in database_). Update the information, then resubmit as new items.",
			},
			ChannelWebhooks: []string{ChannelPurchasing},
		},
	},
	"RECEIVED_REIMBURSE": {
		Key:  "RECEIVED_REIMBURSE",
		Text: "Received - Awaiting Reimbursement",
		AllowedPrevious: []Text{
			Unset,
			"New",
			"Submitted",
			"Ordered",
			"Received",
			"Awaiting Pickup",
			"Awaiting Info",
		},
		DateColumn:      col(config.Columns.ReceiveDate),
		FastForwardUser: []config.Column{config.Columns.RequestEmail, config.Columns.OfficerEmail},
		FastForwardDate: []config.Column{
			config.Columns.RequestDate,
			config.Columns.SubmitDate,
			config.Columns.UpdateDate,
			config.Columns.ArriveDate,
		},
		RequiredColumns: []config.Column{config.Columns.RequestComments},
		Slack: Slack{
			Emoji:       ":heavy_dollar_sign:",
			TargetUsers: AudienceOfficers,
			MessageTemplates: []string{
				"{emoji} {userTags} {userFullName} marked {numMarked} item{plural} as received for {projectName} and requested reimbursement for them.",
			},
			ChannelWebhooks: []string{ChannelPurchasing},
		},
	},
	"REIMBURSED": {
		Key:             "REIMBURSED",
		Text:            "Reimbursed",
		AllowedPrevious: []Text{"Received - Awaiting Reimbursement", "Received"},
		OfficersOnly:    true,
		DateColumn:      col(config.Columns.UpdateDate),
		FastForwardUser: []config.Column{config.Columns.RequestEmail, config.Columns.OfficerEmail},
		FastForwardDate: []config.Column{
			config.Columns.RequestDate,
			config.Columns.SubmitDate,
			config.Columns.UpdateDate,
			config.Columns.ArriveDate,
		},
		Slack: Slack{
			Emoji:       ":money_with_wings:",
			TargetUsers: AudienceRequestors,
			MessageTemplates: []string{
				"{emoji} {userTags} {userFullName} sent reimbursement for {numMarked} item{plural}.",
			},
			ChannelWebhooks: []string{ChannelPurchasing},
		},
	},
}

// TestStatus is a diagnostic status outside the normal graph. It behaves like
// any other status but notifies the dev channel only.
var TestStatus = &Status{
	Key:             "TEST",
	Text:            "Test",
	AllowedPrevious: []Text{Unset, "Test"},
	OfficersOnly:    true,
	DateColumn:      col(config.Columns.UpdateDate),
	FastForwardUser: []config.Column{config.Columns.RequestEmail, config.Columns.OfficerEmail},
	FastForwardDate: []config.Column{config.Columns.RequestDate, config.Columns.SubmitDate},
	FillInDefaults:  true,
	Slack: Slack{
		Emoji:       ":checkered_flag:",
		TargetUsers: AudienceChannel,
		MessageTemplates: []string{
			"{emoji} {userTags} {userFullName} marked {numMarked} item{plural} for {projectName} as *test*.",
		},
		ChannelWebhooks: []string{ChannelDev},
	},
}

// Get returns the status for the given registry key, or nil if unknown.
func Get(key string) *Status {
	return Registry[key]
}
