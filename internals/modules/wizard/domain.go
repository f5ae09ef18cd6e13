package wizard

import (
	"probe-wizard/internals/modules/notification"
	"probe-wizard/internals/modules/probe"
	"time"
)

type Step string

const (
	StepWebForm       Step = "web-form"
	StepNotifications Step = "notifications"
	StepReview        Step = "review"
)

var stepOrder = []Step{StepWebForm, StepNotifications, StepReview}

// Route is the front end path of the page that renders the step.
func (s Step) Route() string {
	return "/" + string(s)
}

func (s Step) next() Step {
	for i, st := range stepOrder {
		if st == s && i+1 < len(stepOrder) {
			return stepOrder[i+1]
		}
	}
	return s
}

// prev returns false when s is the first step.
func (s Step) prev() (Step, bool) {
	for i, st := range stepOrder {
		if st == s && i > 0 {
			return stepOrder[i-1], true
		}
	}
	return s, false
}

// FormField is one body key/value pair typed by the user.
type FormField struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// WebForm is the draft edited on the web form page.
type WebForm struct {
	URL    string      `json:"url"`
	Fields []FormField `json:"fields"`
}

// Session is the state shared by every page of the wizard.
type Session struct {
	ID            string                      `json:"id"`
	Step          Step                        `json:"step"`
	WebForm       *WebForm                    `json:"web_form,omitempty"`
	Probes        []probe.Probe               `json:"probes"`
	Notifications []notification.Notification `json:"notifications"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// Defaults are stamped onto every probe built from the web form.
// MaxFields caps the draft's field count, zero means no cap.
type Defaults struct {
	IntervalSec       int
	TimeoutMs         int
	Method            string
	IncidentThreshold int
	RecoveryThreshold int
	MaxFields         int
}

type CreatedSession struct {
	ID        string
	Token     string
	Step      Step
	ExpiresAt time.Time
}

type Navigation struct {
	Step  Step
	Route string
}

type SubmitResult struct {
	Probe probe.Probe
	Next  Navigation
}

type NotificationTestResult struct {
	ID    string
	Type  string
	OK    bool
	Error string
}
