package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"purchasing_manager/internal/auth"
	"purchasing_manager/internal/config"
	"purchasing_manager/internal/engine"
	"purchasing_manager/internal/status"
	"purchasing_manager/internal/textutil"
)

// Lists provides the named ranges the composer reads to resolve the officer
// audience. The raw variant preserves empty cells, keeping the officer list
// and its opt-out list index-paired.
type Lists interface {
	NamedList(ctx context.Context, name string) ([]string, error)
	NamedListRaw(ctx context.Context, name string) ([]string, error)
}

// Directory resolves an email address to a Slack member ID. A missing entry
// is not an error; the person simply is not tagged.
type Directory interface {
	SlackIDByEmail(ctx context.Context, email string) (string, bool, error)
}

// WebhookResolver turns a logical channel name into a webhook URL.
type WebhookResolver interface {
	WebhookURL(channel string) (string, error)
}

// Sender delivers one finished message to a webhook URL.
type Sender interface {
	Send(ctx context.Context, webhookURL string, msg *Message) error
}

// Composer turns transition results into Slack messages and fans them out to
// each of the status's channels. It implements the transition engine's
// Notifier.
type Composer struct {
	lists    Lists
	dir      Directory
	webhooks WebhookResolver
	sender   Sender
}

// NewComposer wires a composer from its collaborators.
func NewComposer(lists Lists, dir Directory, webhooks WebhookResolver, sender Sender) *Composer {
	return &Composer{
		lists:    lists,
		dir:      dir,
		webhooks: webhooks,
		sender:   sender,
	}
}

// NotifyItems announces a completed transition on every channel the status
// names. Only the first channel gets user tags, so nobody is pinged twice for
// the same event. The last message on each channel carries the interactive
// item-list attachment.
func (c *Composer) NotifyItems(ctx context.Context, st *status.Status, actor auth.User, requestors []string, items []engine.Item, project engine.Project) error {
	if len(st.Slack.MessageTemplates) == 0 {
		return nil
	}

	for i, channel := range st.Slack.ChannelWebhooks {
		webhookURL, err := c.webhooks.WebhookURL(channel)
		if err != nil {
			return err
		}

		texts, err := c.buildTexts(ctx, st, actor.FullName, requestors, len(items), project, i == 0)
		if err != nil {
			return err
		}

		messages := make([]*Message, len(texts))
		for j, text := range texts {
			messages[j] = &Message{Text: text}
		}
		last := messages[len(messages)-1]
		last.Attachments = []Attachment{
			c.itemActionsAttachment(items, project, actor.FullName, st.Text),
		}

		for _, msg := range messages {
			if err := c.sender.Send(ctx, webhookURL, msg); err != nil {
				return fmt.Errorf("channel %q: %w", channel, err)
			}
		}

		log.Debug().
			Str("channel", channel).
			Str("status", st.Key).
			Int("messages", len(messages)).
			Msg("Transition announced")
	}

	return nil
}

// buildTexts fills in the status's message templates. Substitution is a
// single pass, so placeholder-like text inside cell values is never expanded.
func (c *Composer) buildTexts(ctx context.Context, st *status.Status, actorName string, requestors []string, numMarked int, project engine.Project, tagUsers bool) ([]string, error) {
	userTags := ""
	if tagUsers {
		tags, err := c.audienceTags(ctx, st.Slack.TargetUsers, requestors)
		if err != nil {
			return nil, err
		}
		userTags = tags + ":"
	}

	plural := "s"
	if numMarked == 1 {
		plural = ""
	}

	r := strings.NewReplacer(
		"{emoji}", st.Slack.Emoji,
		"{userTags}", userTags,
		"{userFullName}", actorName,
		"{numMarked}", strconv.Itoa(numMarked),
		"{projectName}", project.Name,
		"{projectSheetUrl}", project.SheetURL,
		"{plural}", plural,
	)

	texts := make([]string, len(st.Slack.MessageTemplates))
	for i, template := range st.Slack.MessageTemplates {
		texts[i] = r.Replace(template)
	}
	return texts, nil
}

func (c *Composer) audienceTags(ctx context.Context, audience status.Audience, requestors []string) (string, error) {
	switch audience {
	case status.AudienceChannel:
		return "<!channel>", nil
	case status.AudienceOfficers:
		return c.officerTags(ctx)
	case status.AudienceRequestors:
		return c.requestorTags(ctx, requestors)
	}
	return "", nil
}

// officerTags tags every approved officer except those who opted out. The
// opt-out list sits in a parallel named range; anything other than an exact
// "NO" means notify.
func (c *Composer) officerTags(ctx context.Context) (string, error) {
	emails, err := c.lists.NamedListRaw(ctx, config.RangeApprovedOfficers)
	if err != nil {
		return "", fmt.Errorf("failed to read officer list: %w", err)
	}
	optOuts, err := c.lists.NamedListRaw(ctx, config.RangeNotifyApprovedOfficers)
	if err != nil {
		return "", fmt.Errorf("failed to read officer notify list: %w", err)
	}

	var tags []string
	for i, email := range emails {
		if email == "" {
			continue
		}
		if i < len(optOuts) && optOuts[i] == "NO" {
			continue
		}
		tag, err := c.slackTag(ctx, email)
		if err != nil {
			return "", err
		}
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return textutil.MakeList(tags, "or"), nil
}

func (c *Composer) requestorTags(ctx context.Context, requestors []string) (string, error) {
	var tags []string
	for _, email := range requestors {
		tag, err := c.slackTag(ctx, email)
		if err != nil {
			return "", err
		}
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return textutil.MakeList(tags, ""), nil
}

func (c *Composer) slackTag(ctx context.Context, email string) (string, error) {
	id, ok, err := c.dir.SlackIDByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to look up slack id for %s: %w", email, err)
	}
	if !ok || id == "" {
		return "", nil
	}
	return "<@" + id + ">", nil
}

// itemActionsAttachment builds the attachment holding the List Items button
// and the sheet link.
func (c *Composer) itemActionsAttachment(items []engine.Item, project engine.Project, actorName, statusText string) Attachment {
	return Attachment{
		CallbackID: "itemNotification",
		Fallback:   "<" + project.SheetURL + "|View Items>",
		Color:      project.Color,
		Actions: []Action{
			c.itemListAction(items, project, actorName, statusText),
			{
				Type: "button",
				Text: "Open Sheet ↗",
				URL:  project.SheetURL,
			},
		},
	}
}

// itemListAction packs the full item-list message into the button's value so
// the interactive endpoint can echo it back without any storage. If the
// payload exceeds Slack's value limit, it degrades to a pointer at the sheet.
func (c *Composer) itemListAction(items []engine.Item, project engine.Project, actorName, statusText string) Action {
	listMsg := BuildItemListMessage(items, project, actorName+" - "+statusText)

	value, err := json.Marshal(listMsg)
	if err == nil && len(value) >= config.SlackAttachmentValueLimit {
		listMsg.Text = config.SlackTooManyItemsFallback
		listMsg.Attachments = nil
		value, err = json.Marshal(listMsg)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode item list; sending sheet link only")
		value = []byte(`{"response_type":"ephemeral","text":"` + config.SlackTooManyItemsFallback + `"}`)
	}

	return Action{
		Type:  "button",
		Text:  "List Items",
		Name:  config.SlackItemListAction,
		Value: string(value),
	}
}

// BuildItemListMessage renders the affected items as one attachment per
// category, in first-seen order.
func BuildItemListMessage(items []engine.Item, project engine.Project, author string) *Message {
	msg := &Message{
		ResponseType: "ephemeral",
		Text:         config.SlackItemListIntro,
		Parse:        "full",
		Mrkdwn:       true,
	}

	var categories []string
	byCategory := make(map[string][]engine.Item)
	for _, item := range items {
		if _, seen := byCategory[item.Category]; !seen {
			categories = append(categories, item.Category)
		}
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	for _, category := range categories {
		attachment := Attachment{
			AuthorName: author,
			Title:      category,
			TitleLink:  project.SheetURL,
			Color:      project.Color,
			Footer:     project.Name,
			FooterIcon: config.SlackFooterIcon,
			MrkdwnIn:   []string{"fields"},
		}
		for _, item := range byCategory[category] {
			attachment.Fields = append(attachment.Fields, itemField(item))
		}
		msg.Attachments = append(msg.Attachments, attachment)
	}

	return msg
}

func itemField(item engine.Item) Field {
	var b strings.Builder
	b.WriteString("$" + formatPrice(item.TotalPrice))
	b.WriteString("\n\t (" + item.Quantity + "x @ $" + formatPrice(item.UnitPrice) + "/e)")

	if item.Supplier != "" || item.ProductNum != "" {
		b.WriteString("\n\t")
	}
	if item.ProductNum != "" {
		b.WriteString("`#" + item.ProductNum + "`")
	}
	if item.Supplier != "" {
		b.WriteString(" from " + item.Supplier)
	}

	if item.RequestorComments != "" {
		b.WriteString("\n Requestor Comment: \n> _" + item.RequestorComments + "_")
	}
	if item.OfficerComments != "" {
		b.WriteString("\n Officer Comment: \n> _" + item.OfficerComments + "_")
	}

	return Field{
		Title: textutil.Truncate(item.Name, 45),
		Value: b.String(),
		Short: true,
	}
}

// formatPrice renders a raw price cell with two decimals, or UNKNOWN when the
// cell is not a parseable number.
func formatPrice(raw string) string {
	cleaned := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return "UNKNOWN"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
