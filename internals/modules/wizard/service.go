package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"probe-wizard/internals/modules/notification"
	"probe-wizard/internals/modules/probe"
	"probe-wizard/pkg/apperror"
	"probe-wizard/pkg/utils"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const notificationTestConcurrency = 4

type Service struct {
	store    SessionStore
	tokens   TokenIssuer
	preview  Previewer
	tester   NotificationTester
	metrics  Metrics
	defaults Defaults
	ttl      time.Duration
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewService(
	store SessionStore,
	tokens TokenIssuer,
	preview Previewer,
	tester NotificationTester,
	metrics Metrics,
	defaults Defaults,
	ttl time.Duration,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		store:    store,
		tokens:   tokens,
		preview:  preview,
		tester:   tester,
		metrics:  metrics,
		defaults: defaults,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) CreateSession(ctx context.Context) (CreatedSession, error) {
	const op string = "service.wizard.create_session"

	now := s.now()
	sess := Session{
		ID:            uuid.NewString(),
		Step:          StepWebForm,
		Probes:        []probe.Probe{},
		Notifications: []notification.Notification{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return CreatedSession{}, apperror.New(apperror.Internal, op, err).WithMessage("internal server error")
	}

	if err := s.store.CreateSession(ctx, sess.ID, data, s.ttl); err != nil {
		return CreatedSession{}, utils.WrapStoreError(op, err, s.logger)
	}

	token, err := s.tokens.GenerateSessionToken(sess.ID)
	if err != nil {
		return CreatedSession{}, err
	}

	s.metrics.IncSession()
	s.logger.Info().Str("session_id", sess.ID).Msg("wizard session created")

	return CreatedSession{
		ID:        sess.ID,
		Token:     token,
		Step:      sess.Step,
		ExpiresAt: now.Add(s.ttl),
	}, nil
}

func (s *Service) GetSession(ctx context.Context, id string) (Session, error) {
	const op string = "service.wizard.get_session"

	data, err := s.store.GetSession(ctx, id)
	if err != nil {
		return Session{}, utils.WrapStoreError(op, err, s.logger)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, apperror.New(apperror.Internal, op, err).WithMessage("corrupted session")
	}
	return sess, nil
}

// GetWebForm returns the draft, seeding it from the shared probes on first visit.
func (s *Service) GetWebForm(ctx context.Context, id string) (WebForm, error) {
	const op string = "service.wizard.get_web_form"

	sess, err := s.update(ctx, op, id, func(sess *Session) error {
		s.ensureDraft(sess)
		return nil
	})
	if err != nil {
		return WebForm{}, err
	}
	return *sess.WebForm, nil
}

func (s *Service) SetURL(ctx context.Context, id, rawURL string) (WebForm, error) {
	const op string = "service.wizard.set_url"

	sess, err := s.update(ctx, op, id, func(sess *Session) error {
		s.ensureDraft(sess)
		sess.WebForm.URL = rawURL
		return nil
	})
	if err != nil {
		return WebForm{}, err
	}
	return *sess.WebForm, nil
}

func (s *Service) AddField(ctx context.Context, id string) (FormField, error) {
	const op string = "service.wizard.add_field"

	var added FormField
	_, err := s.update(ctx, op, id, func(sess *Session) error {
		s.ensureDraft(sess)
		if s.defaults.MaxFields > 0 && len(sess.WebForm.Fields) >= s.defaults.MaxFields {
			return apperror.Newf(apperror.InvalidInput, op, "a web form holds at most %d fields", s.defaults.MaxFields)
		}
		added = sess.WebForm.AddField()
		return nil
	})
	if err != nil {
		return FormField{}, err
	}
	return added, nil
}

func (s *Service) UpdateField(ctx context.Context, id, fieldID, key, value string) (FormField, error) {
	const op string = "service.wizard.update_field"

	var updated FormField
	_, err := s.update(ctx, op, id, func(sess *Session) error {
		s.ensureDraft(sess)
		fd, err := sess.WebForm.UpdateField(fieldID, key, value)
		if err != nil {
			return webFormError(op, err)
		}
		updated = fd
		return nil
	})
	if err != nil {
		return FormField{}, err
	}
	return updated, nil
}

func (s *Service) RemoveField(ctx context.Context, id, fieldID string) error {
	const op string = "service.wizard.remove_field"

	_, err := s.update(ctx, op, id, func(sess *Session) error {
		s.ensureDraft(sess)
		if err := sess.WebForm.RemoveField(fieldID); err != nil {
			return webFormError(op, err)
		}
		return nil
	})
	return err
}

// SubmitWebForm replaces the shared probes with the one built from the draft and moves on.
func (s *Service) SubmitWebForm(ctx context.Context, id string) (SubmitResult, error) {
	const op string = "service.wizard.submit_web_form"

	var built probe.Probe
	sess, err := s.update(ctx, op, id, func(sess *Session) error {
		s.ensureDraft(sess)
		p, err := BuildProbe(*sess.WebForm, s.defaults)
		if err != nil {
			return webFormError(op, err)
		}
		built = p
		sess.Probes = []probe.Probe{p}
		sess.Step = StepWebForm.next()
		return nil
	})
	if err != nil {
		return SubmitResult{}, err
	}

	s.metrics.IncProbeSubmitted()
	s.logger.Info().
		Str("session_id", id).
		Str("probe", built.Name).
		Int("body_fields", len(built.Requests[0].Body)).
		Msg("web form submitted")

	return SubmitResult{
		Probe: built,
		Next:  Navigation{Step: sess.Step, Route: sess.Step.Route()},
	}, nil
}

// PreviewWebForm sends the request the current draft would produce, without saving anything.
func (s *Service) PreviewWebForm(ctx context.Context, id string) (probe.PreviewResult, error) {
	const op string = "service.wizard.preview_web_form"

	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return probe.PreviewResult{}, err
	}

	draft := DraftFromProbes(sess.Probes)
	if sess.WebForm != nil {
		draft = *sess.WebForm
	}

	p, err := BuildProbe(draft, s.defaults)
	if err != nil {
		return probe.PreviewResult{}, webFormError(op, err)
	}

	res := s.preview.Preview(ctx, p)

	outcome := "success"
	if !res.Success {
		outcome = res.Reason
	}
	s.metrics.IncPreview(outcome)

	return res, nil
}

func (s *Service) Back(ctx context.Context, id string) (Navigation, error) {
	const op string = "service.wizard.back"

	var nav Navigation
	_, err := s.update(ctx, op, id, func(sess *Session) error {
		prev, ok := sess.Step.prev()
		if !ok {
			nav = Navigation{Step: sess.Step, Route: "/"}
			return nil
		}
		sess.Step = prev
		nav = Navigation{Step: prev, Route: prev.Route()}
		return nil
	})
	if err != nil {
		return Navigation{}, err
	}
	return nav, nil
}

func (s *Service) ListNotifications(ctx context.Context, id string) ([]notification.Notification, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.Notifications, nil
}

func (s *Service) AddNotification(ctx context.Context, id, channel string, values map[string]string) (notification.Notification, error) {
	const op string = "service.wizard.add_notification"

	form, ok := notification.Lookup(channel)
	if !ok {
		return notification.Notification{}, apperror.Newf(apperror.InvalidInput, op, "unknown notification channel %q", channel)
	}

	data, err := form.Decode(values)
	if err != nil {
		return notification.Notification{}, &apperror.Error{
			Kind:    apperror.InvalidInput,
			Op:      op,
			Message: err.Error(),
			Err:     err,
		}
	}

	n := notification.New(form, data)
	_, err = s.update(ctx, op, id, func(sess *Session) error {
		sess.Notifications = append(sess.Notifications, n)
		return nil
	})
	if err != nil {
		return notification.Notification{}, err
	}

	s.logger.Info().Str("session_id", id).Str("channel", channel).Msg("notification added")
	return n, nil
}

func (s *Service) RemoveNotification(ctx context.Context, id, notificationID string) error {
	const op string = "service.wizard.remove_notification"

	_, err := s.update(ctx, op, id, func(sess *Session) error {
		for i, n := range sess.Notifications {
			if n.ID == notificationID {
				sess.Notifications = append(sess.Notifications[:i:i], sess.Notifications[i+1:]...)
				return nil
			}
		}
		return apperror.Newf(apperror.NotFound, op, "notification not found")
	})
	return err
}

func (s *Service) FinishNotifications(ctx context.Context, id string) (Navigation, error) {
	const op string = "service.wizard.finish_notifications"

	sess, err := s.update(ctx, op, id, func(sess *Session) error {
		if len(sess.Probes) == 0 {
			return apperror.Newf(apperror.Conflict, op, "submit the web form first")
		}
		if sess.Step != StepNotifications {
			return apperror.Newf(apperror.Conflict, op, "wizard is on step %q, not %q", sess.Step, StepNotifications)
		}
		sess.Step = StepNotifications.next()
		return nil
	})
	if err != nil {
		return Navigation{}, err
	}
	return Navigation{Step: sess.Step, Route: sess.Step.Route()}, nil
}

func (s *Service) TestNotification(ctx context.Context, id, notificationID string) (NotificationTestResult, error) {
	const op string = "service.wizard.test_notification"

	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return NotificationTestResult{}, err
	}

	for _, n := range sess.Notifications {
		if n.ID == notificationID {
			return s.testOne(ctx, n), nil
		}
	}
	return NotificationTestResult{}, apperror.Newf(apperror.NotFound, op, "notification not found")
}

// TestAllNotifications sends a test message through every channel of the session concurrently.
func (s *Service) TestAllNotifications(ctx context.Context, id string) ([]NotificationTestResult, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	results := make([]NotificationTestResult, len(sess.Notifications))

	var g errgroup.Group
	g.SetLimit(notificationTestConcurrency)
	for i, n := range sess.Notifications {
		g.Go(func() error {
			results[i] = s.testOne(ctx, n)
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

func (s *Service) testOne(ctx context.Context, n notification.Notification) NotificationTestResult {
	res := NotificationTestResult{ID: n.ID, Type: n.Type, OK: true}

	if err := s.tester.Test(ctx, n); err != nil {
		res.OK = false
		res.Error = err.Error()
		s.logger.Warn().Err(err).Str("channel", n.Type).Str("notification_id", n.ID).Msg("test notification failed")
	}

	s.metrics.IncNotificationTest(n.Type, res.OK)
	return res
}

func (s *Service) ensureDraft(sess *Session) {
	if sess.WebForm == nil {
		draft := DraftFromProbes(sess.Probes)
		sess.WebForm = &draft
	}
}

// update runs fn against the stored session inside the store's atomic update.
// fn may run more than once when a concurrent writer wins.
func (s *Service) update(ctx context.Context, op, id string, fn func(*Session) error) (Session, error) {
	var out Session

	err := s.store.UpdateSession(ctx, id, func(current []byte) ([]byte, error) {
		var sess Session
		if err := json.Unmarshal(current, &sess); err != nil {
			return nil, apperror.New(apperror.Internal, op, err).WithMessage("corrupted session")
		}

		if err := fn(&sess); err != nil {
			return nil, err
		}

		sess.UpdatedAt = s.now()
		out = sess
		return json.Marshal(sess)
	})
	if err != nil {
		return Session{}, utils.WrapStoreError(op, err, s.logger)
	}

	return out, nil
}

func webFormError(op string, err error) error {
	switch {
	case errors.Is(err, ErrFieldNotFound):
		return apperror.Newf(apperror.NotFound, op, "%s", err.Error())
	case errors.Is(err, ErrUnknownKey), errors.Is(err, ErrInvalidURL):
		return &apperror.Error{Kind: apperror.InvalidInput, Op: op, Message: err.Error(), Err: err}
	default:
		return apperror.New(apperror.Internal, op, err).WithMessage("internal server error")
	}
}
