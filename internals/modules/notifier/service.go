package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"probe-wizard/config"
	"probe-wizard/internals/modules/notification"
	"time"

	"github.com/rs/zerolog"
)

// sleepHook is used in tests to avoid sleeping for real
var sleepHook = time.Sleep

var ErrUnsupportedChannel = errors.New("unsupported notification channel")

// Service delivers messages through the channels configured in the wizard.
type Service struct {
	client      *http.Client
	timeout     time.Duration
	maxRetries  int
	baseBackoff time.Duration
	from        string
	logger      *zerolog.Logger
	now         func() time.Time
}

func NewService(cfg *config.NotifierConfig, client *http.Client, logger *zerolog.Logger) *Service {
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &Service{
		client:      client,
		timeout:     cfg.Timeout,
		maxRetries:  maxRetries,
		baseBackoff: cfg.BaseBackoff,
		from:        cfg.Sender,
		logger:      logger,
		now:         time.Now,
	}
}

// Test sends a fixed test message through n.
func (s *Service) Test(ctx context.Context, n notification.Notification) error {
	return s.Send(ctx, n, Message{
		Title: "probe-wizard test notification",
		Body:  fmt.Sprintf("This is a test message for the %s channel %s.", n.Type, n.ID),
	})
}

// Send delivers msg through n, retrying transient failures with exponential backoff.
func (s *Service) Send(ctx context.Context, n notification.Notification, msg Message) error {
	snd, err := s.senderFor(n)
	if err != nil {
		return err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	return s.sendWithRetries(ctx, snd, n, msg)
}

// sendWithRetries attempts delivery up to maxRetries times. Returns the last error if any.
func (s *Service) sendWithRetries(ctx context.Context, snd sender, n notification.Notification, msg Message) error {
	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		err := snd.send(ctx, msg)
		if err == nil {
			s.logger.Debug().Str("channel", n.Type).Str("notification_id", n.ID).Int("attempt", attempt).Msg("notification sent")
			return nil
		}

		lastErr = err
		s.logger.Warn().Err(err).Str("channel", n.Type).Int("attempt", attempt).Msg("notification attempt failed")

		var perm permanentError
		if errors.As(err, &perm) || attempt == s.maxRetries {
			break
		}

		// context-aware sleep: allow cancellation via ctx, but use sleepHook to speed tests.
		d := s.backoffDuration(attempt)
		slept := make(chan struct{})
		go func() {
			sleepHook(d)
			close(slept)
		}()
		select {
		case <-slept:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

func (s *Service) senderFor(n notification.Notification) (sender, error) {
	switch d := n.Data.(type) {
	case *notification.WebhookData:
		switch n.Type {
		case "slack":
			return slackSender{client: s.client, url: d.URL}, nil
		case "teams":
			return teamsSender{client: s.client, url: d.URL}, nil
		case "webhook":
			return webhookSender{client: s.client, url: d.URL, now: s.now}, nil
		}
	case *notification.TelegramData:
		return telegramSender{client: s.client, botToken: d.BotToken, chatID: d.GroupID}, nil
	case *notification.SMTPData:
		return smtpSender{data: d, from: s.from}, nil
	case *notification.MailgunData:
		return mailgunSender{client: s.client, data: d, from: s.from}, nil
	case *notification.SendgridData:
		return sendgridSender{client: s.client, data: d, from: s.from}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedChannel, n.Type)
}

// backoffDuration doubles the base backoff on every attempt.
func (s *Service) backoffDuration(attempt int) time.Duration {
	return s.baseBackoff * time.Duration(1<<uint(attempt-1))
}
