package probe

// Request is one HTTP request a probe sends. Timeout is in milliseconds.
type Request struct {
	URL     string            `json:"url" yaml:"url"`
	Method  string            `json:"method" yaml:"method"`
	Body    map[string]string `json:"body" yaml:"body"`
	Timeout int               `json:"timeout" yaml:"timeout"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

type Alert struct {
	Query   string `json:"query" yaml:"query"`
	Message string `json:"message" yaml:"message"`
}

// Probe is a monitored target. Interval is in seconds.
type Probe struct {
	ID                string    `json:"id" yaml:"id"`
	Name              string    `json:"name" yaml:"name"`
	Interval          int       `json:"interval" yaml:"interval"`
	Requests          []Request `json:"requests" yaml:"requests"`
	IncidentThreshold int       `json:"incidentThreshold" yaml:"incidentThreshold"`
	RecoveryThreshold int       `json:"recoveryThreshold" yaml:"recoveryThreshold"`
	Alerts            []Alert   `json:"alerts" yaml:"alerts"`
}

// FirstRequest returns the request the web form edits, if any.
func (p Probe) FirstRequest() (Request, bool) {
	if len(p.Requests) == 0 {
		return Request{}, false
	}
	return p.Requests[0], true
}
