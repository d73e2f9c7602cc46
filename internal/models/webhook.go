package models

// WebhookEnvelope is the POST /webhook payload sent by the messaging provider.
// Only the fields the bot reads are modelled; everything else is ignored.
type WebhookEnvelope struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

type ChangeValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Metadata         ChangeMetadata   `json:"metadata"`
	Contacts         []Contact        `json:"contacts,omitempty"`
	Messages         []WebhookMessage `json:"messages,omitempty"`
}

type ChangeMetadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type Contact struct {
	WaID    string         `json:"wa_id"`
	Profile ContactProfile `json:"profile"`
}

type ContactProfile struct {
	Name string `json:"name"`
}

// WebhookMessage is one inbound user message. At most one of Text, Button
// and Interactive is normally populated, selected by Type.
type WebhookMessage struct {
	From        string              `json:"from"`
	ID          string              `json:"id"`
	Timestamp   string              `json:"timestamp"`
	Type        string              `json:"type"`
	Text        *MessageText        `json:"text,omitempty"`
	Button      *MessageButton      `json:"button,omitempty"`
	Interactive *MessageInteractive `json:"interactive,omitempty"`
}

type MessageText struct {
	Body string `json:"body"`
}

// MessageButton is a template quick-reply press.
type MessageButton struct {
	Text    string `json:"text"`
	Payload string `json:"payload"`
}

type MessageInteractive struct {
	Type        string      `json:"type"`
	ButtonReply *ReplyValue `json:"button_reply,omitempty"`
	ListReply   *ReplyValue `json:"list_reply,omitempty"`
}

type ReplyValue struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
