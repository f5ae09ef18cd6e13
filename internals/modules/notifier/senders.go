package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/smtp"
	"net/url"
	"probe-wizard/internals/modules/notification"
	"probe-wizard/pkg/httpclient"
	"strings"
	"time"
)

// API roots, swapped by tests.
var (
	telegramAPIBase = "https://api.telegram.org"
	mailgunAPIBase  = "https://api.mailgun.net"
	sendgridAPIBase = "https://api.sendgrid.com"
)

// sendMailHook allows tests to override SMTP sending behavior.
var sendMailHook = smtp.SendMail

// Message is what every channel delivers.
type Message struct {
	Title string
	Body  string
}

type sender interface {
	send(ctx context.Context, msg Message) error
}

type slackSender struct {
	client *http.Client
	url    string
}

func (s slackSender) send(ctx context.Context, msg Message) error {
	payload := map[string]string{"text": fmt.Sprintf("*%s*\n%s", msg.Title, msg.Body)}
	return postJSON(ctx, s.client, s.url, payload, nil)
}

type teamsSender struct {
	client *http.Client
	url    string
}

func (t teamsSender) send(ctx context.Context, msg Message) error {
	payload := map[string]any{
		"@type":      "MessageCard",
		"@context":   "http://schema.org/extensions",
		"themeColor": "0076D7",
		"summary":    msg.Title,
		"sections":   []map[string]string{{"activityTitle": msg.Title, "activityText": msg.Body}},
	}
	return postJSON(ctx, t.client, t.url, payload, nil)
}

type telegramSender struct {
	client   *http.Client
	botToken string
	chatID   string
}

func (t telegramSender) send(ctx context.Context, msg Message) error {
	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", telegramAPIBase, t.botToken)
	payload := map[string]string{
		"chat_id":    t.chatID,
		"text":       fmt.Sprintf("<b>%s</b>\n%s", msg.Title, msg.Body),
		"parse_mode": "HTML",
	}
	return postJSON(ctx, t.client, apiURL, payload, nil)
}

type webhookSender struct {
	client *http.Client
	url    string
	now    func() time.Time
}

func (w webhookSender) send(ctx context.Context, msg Message) error {
	payload := map[string]string{
		"title":     msg.Title,
		"message":   msg.Body,
		"timestamp": w.now().UTC().Format(time.RFC3339),
	}
	return postJSON(ctx, w.client, w.url, payload, nil)
}

type smtpSender struct {
	data *notification.SMTPData
	from string
}

func (s smtpSender) send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", s.data.Hostname, s.data.Port)

	var auth smtp.Auth
	if s.data.Username != "" {
		auth = smtp.PlainAuth("", s.data.Username, s.data.Password, s.data.Hostname)
	}

	from := s.from
	if from == "" {
		from = s.data.Username
	}

	header := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n",
		from,
		strings.Join(s.data.Recipients, ","),
		msg.Title,
	)
	return sendMailHook(addr, auth, from, s.data.Recipients, []byte(header+msg.Body))
}

type mailgunSender struct {
	client *http.Client
	data   *notification.MailgunData
	from   string
}

func (m mailgunSender) send(ctx context.Context, msg Message) error {
	from := m.from
	if from == "" {
		from = "probe-wizard@" + m.data.Domain
	}

	form := url.Values{}
	form.Set("from", from)
	for _, to := range m.data.Recipients {
		form.Add("to", to)
	}
	form.Set("subject", msg.Title)
	form.Set("text", msg.Body)

	endpoint := fmt.Sprintf("%s/v3/%s/messages", mailgunAPIBase, m.data.Domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return permanent(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("api", m.data.APIKey)

	return do(m.client, req)
}

type sendgridSender struct {
	client *http.Client
	data   *notification.SendgridData
	from   string
}

func (s sendgridSender) send(ctx context.Context, msg Message) error {
	to := make([]map[string]string, 0, len(s.data.Recipients))
	for _, r := range s.data.Recipients {
		to = append(to, map[string]string{"email": r})
	}

	from := s.from
	if from == "" {
		from = "noreply@probe-wizard.local"
	}

	payload := map[string]any{
		"personalizations": []map[string]any{{"to": to}},
		"from":             map[string]string{"email": from},
		"subject":          msg.Title,
		"content":          []map[string]string{{"type": "text/plain", "value": msg.Body}},
	}

	headers := map[string]string{"Authorization": "Bearer " + s.data.APIKey}
	return postJSON(ctx, s.client, sendgridAPIBase+"/v3/mail/send", payload, headers)
}

// postJSON is a shared helper used by the http channels.
func postJSON(ctx context.Context, client *http.Client, endpoint string, data any, headers map[string]string) error {
	b, err := json.Marshal(data)
	if err != nil {
		return permanent(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return do(client, req)
}

func do(client *http.Client, req *http.Request) error {
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, httpclient.ErrBlockedAddress) {
			return permanent(redactURL(err))
		}
		return redactURL(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode >= 300 {
		err := fmt.Errorf("api returned status %d", resp.StatusCode)
		// client errors will not go away on retry, rate limits might
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return permanent(err)
		}
		return err
	}
	return nil
}

// redactURL drops the request path from transport errors. Webhook and bot
// URLs carry credentials in the path, and these errors reach logs and clients.
func redactURL(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}

	host := urlErr.URL
	if u, perr := url.Parse(urlErr.URL); perr == nil {
		host = u.Host
	}
	return fmt.Errorf("%s %s: %w", urlErr.Op, host, urlErr.Err)
}

type permanentError struct{ err error }

func (p permanentError) Error() string { return p.err.Error() }
func (p permanentError) Unwrap() error { return p.err }

func permanent(err error) error {
	return permanentError{err: err}
}
