package notification

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Data is the channel specific payload of a Notification.
type Data interface {
	set(field, value string) error
}

type SMTPData struct {
	Hostname   string   `json:"hostname" yaml:"hostname" validate:"required,hostname_rfc1123|ip"`
	Port       int      `json:"port" yaml:"port" validate:"gte=1,lte=65535"`
	Username   string   `json:"username" yaml:"username"`
	Password   string   `json:"password" yaml:"password"`
	Recipients []string `json:"recipients" yaml:"recipients" validate:"required,min=1,dive,email"`
}

type MailgunData struct {
	APIKey     string   `json:"apiKey" yaml:"apiKey" validate:"required"`
	Domain     string   `json:"domain" yaml:"domain" validate:"required,fqdn"`
	Recipients []string `json:"recipients" yaml:"recipients" validate:"required,min=1,dive,email"`
}

type SendgridData struct {
	APIKey     string   `json:"apiKey" yaml:"apiKey" validate:"required"`
	Recipients []string `json:"recipients" yaml:"recipients" validate:"required,min=1,dive,email"`
}

// WebhookData is shared by the slack, teams and webhook channels.
type WebhookData struct {
	URL string `json:"url" yaml:"url" validate:"required,url"`
}

type TelegramData struct {
	BotToken string `json:"bot_token" yaml:"bot_token" validate:"required"`
	GroupID  string `json:"group_id" yaml:"group_id" validate:"required"`
}

// Notification is one configured channel, as it appears in the exported config.
type Notification struct {
	ID   string `json:"id" yaml:"id"`
	Type string `json:"type" yaml:"type"`
	Data Data   `json:"data" yaml:"data"`
}

func New(form Form, data Data) Notification {
	return Notification{
		ID:   uuid.NewString(),
		Type: form.Name,
		Data: data,
	}
}

// UnmarshalJSON picks the concrete Data type from the notification type.
func (n *Notification) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID   string          `json:"id"`
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	form, ok := Lookup(raw.Type)
	if !ok {
		return fmt.Errorf("unknown notification type %q", raw.Type)
	}

	data := form.newData()
	if len(raw.Data) > 0 && string(raw.Data) != "null" {
		if err := json.Unmarshal(raw.Data, data); err != nil {
			return fmt.Errorf("decode %s data: %w", raw.Type, err)
		}
	}

	n.ID = raw.ID
	n.Type = raw.Type
	n.Data = data
	return nil
}

func (d *SMTPData) set(field, value string) error {
	switch field {
	case "hostname":
		d.Hostname = strings.TrimSpace(value)
	case "port":
		port, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("port must be a number")
		}
		d.Port = port
	case "username":
		d.Username = value
	case "password":
		d.Password = value
	case "recipients":
		d.Recipients = SplitRecipients(value)
	default:
		return errUnknownField(field)
	}
	return nil
}

func (d *MailgunData) set(field, value string) error {
	switch field {
	case "apiKey":
		d.APIKey = strings.TrimSpace(value)
	case "domain":
		d.Domain = strings.TrimSpace(value)
	case "recipients":
		d.Recipients = SplitRecipients(value)
	default:
		return errUnknownField(field)
	}
	return nil
}

func (d *SendgridData) set(field, value string) error {
	switch field {
	case "apiKey":
		d.APIKey = strings.TrimSpace(value)
	case "recipients":
		d.Recipients = SplitRecipients(value)
	default:
		return errUnknownField(field)
	}
	return nil
}

func (d *WebhookData) set(field, value string) error {
	if field != "url" {
		return errUnknownField(field)
	}
	d.URL = strings.TrimSpace(value)
	return nil
}

func (d *TelegramData) set(field, value string) error {
	switch field {
	case "bot_token":
		d.BotToken = strings.TrimSpace(value)
	case "group_id":
		d.GroupID = strings.TrimSpace(value)
	default:
		return errUnknownField(field)
	}
	return nil
}

// SplitRecipients turns "a@x.io, b@x.io," into a trimmed list without empty entries.
func SplitRecipients(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func errUnknownField(field string) error {
	return fmt.Errorf("unknown field %q", field)
}
