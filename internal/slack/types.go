// Package slack builds and delivers the workflow's Slack messages: the
// transition announcements, the interactive item-list button, and the budget
// status response for the slash command.
package slack

// Message is a Slack webhook payload.
type Message struct {
	ResponseType    string       `json:"response_type,omitempty"`
	ReplaceOriginal bool         `json:"replace_original,omitempty"`
	Text            string       `json:"text,omitempty"`
	Attachments     []Attachment `json:"attachments,omitempty"`
	Parse           string       `json:"parse,omitempty"`
	Mrkdwn          bool         `json:"mrkdwn,omitempty"`
}

// Attachment is a legacy Slack message attachment.
type Attachment struct {
	CallbackID string   `json:"callback_id,omitempty"`
	Fallback   string   `json:"fallback,omitempty"`
	Color      string   `json:"color,omitempty"`
	AuthorName string   `json:"author_name,omitempty"`
	Title      string   `json:"title,omitempty"`
	TitleLink  string   `json:"title_link,omitempty"`
	Text       string   `json:"text,omitempty"`
	Fields     []Field  `json:"fields,omitempty"`
	Footer     string   `json:"footer,omitempty"`
	FooterIcon string   `json:"footer_icon,omitempty"`
	Ts         int64    `json:"ts,omitempty"`
	Actions    []Action `json:"actions,omitempty"`
	MrkdwnIn   []string `json:"mrkdwn_in,omitempty"`
}

// Field is a short titled value inside an attachment.
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short,omitempty"`
}

// Action is an attachment button. Name/Value buttons post back an interactive
// payload; URL buttons open a link directly.
type Action struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
	URL   string `json:"url,omitempty"`
}
