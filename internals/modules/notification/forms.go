package notification

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Field struct {
	Label string `json:"label"`
	Name  string `json:"name"`
	Info  string `json:"info,omitempty"`
}

// Form describes how a channel is rendered and what it defaults to.
type Form struct {
	Label        string  `json:"label"`
	Name         string  `json:"name"`
	Fields       []Field `json:"fields"`
	DefaultValue Data    `json:"defaultValue"`

	newData func() Data
}

var mailFields = []Field{
	{Label: "Recipient Emails (comma separated)", Name: "recipients"},
}

func withMail(fields ...Field) []Field {
	return append(fields, mailFields...)
}

var smtpForm = Form{
	Label: "SMTP (E-mail)",
	Name:  "smtp",
	Fields: withMail(
		Field{Label: "SMTP Hostname", Name: "hostname"},
		Field{Label: "SMTP Port", Name: "port"},
		Field{Label: "SMTP Username", Name: "username"},
		Field{Label: "SMTP Password", Name: "password"},
	),
	newData: func() Data {
		return &SMTPData{Port: 587, Recipients: []string{}}
	},
}

var mailgunForm = Form{
	Label: "Mailgun",
	Name:  "mailgun",
	Fields: withMail(
		Field{Label: "API Key", Name: "apiKey", Info: "Private API key from the Mailgun dashboard"},
		Field{Label: "Domain", Name: "domain", Info: "Sending domain verified in Mailgun"},
	),
	newData: func() Data {
		return &MailgunData{Recipients: []string{}}
	},
}

var sendgridForm = Form{
	Label: "SendGrid",
	Name:  "sendgrid",
	Fields: withMail(
		Field{Label: "API Key", Name: "apiKey", Info: "API key with Mail Send permission"},
	),
	newData: func() Data {
		return &SendgridData{Recipients: []string{}}
	},
}

var slackForm = Form{
	Label:   "Slack",
	Name:    "slack",
	Fields:  []Field{{Label: "Incoming Webhook URL", Name: "url"}},
	newData: func() Data { return &WebhookData{} },
}

var teamsForm = Form{
	Label:   "Teams",
	Name:    "teams",
	Fields:  []Field{{Label: "Incoming Webhook URL", Name: "url"}},
	newData: func() Data { return &WebhookData{} },
}

var telegramForm = Form{
	Label: "Telegram",
	Name:  "telegram",
	Fields: []Field{
		{Label: "BOT Token", Name: "bot_token"},
		{Label: "Group ID", Name: "group_id"},
	},
	newData: func() Data { return &TelegramData{} },
}

var webhookForm = Form{
	Label:   "Webhook",
	Name:    "webhook",
	Fields:  []Field{{Label: "Webhook URL", Name: "url"}},
	newData: func() Data { return &WebhookData{} },
}

var catalog = []Form{
	smtpForm,
	mailgunForm,
	sendgridForm,
	slackForm,
	teamsForm,
	telegramForm,
	webhookForm,
}

var validate = newValidator()

// newValidator reports fields by their json name so messages match the form field names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Forms returns the channel catalog in display order.
func Forms() []Form {
	out := make([]Form, len(catalog))
	for i, f := range catalog {
		out[i] = f.withDefault()
	}
	return out
}

func Lookup(name string) (Form, bool) {
	for _, f := range catalog {
		if f.Name == name {
			return f.withDefault(), true
		}
	}
	return Form{}, false
}

func (f Form) withDefault() Form {
	f.Fields = append([]Field(nil), f.Fields...)
	f.DefaultValue = f.newData()
	return f
}

func (f Form) hasField(name string) bool {
	for _, fd := range f.Fields {
		if fd.Name == name {
			return true
		}
	}
	return false
}

// Decode overlays the submitted values onto the form default and validates the result.
func (f Form) Decode(values map[string]string) (Data, error) {
	data := f.newData()

	// deterministic error messages
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !f.hasField(name) {
			return nil, fmt.Errorf("%s: %w", f.Name, errUnknownField(name))
		}
		if err := data.set(name, values[name]); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", f.Name, name, err)
		}
	}

	if err := validate.Struct(data); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return nil, formatValidationErrors(f.Name, ve)
		}
		return nil, err
	}

	return data, nil
}

func formatValidationErrors(form string, ve validator.ValidationErrors) error {
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%s: %s", form, strings.Join(msgs, "; "))
}
