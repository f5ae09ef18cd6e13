package wizard

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"probe-wizard/internals/modules/probe"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/idna"
)

var (
	ErrFieldNotFound = errors.New("field not found")
	ErrUnknownKey    = errors.New("field key must be 'name' or 'value'")
	ErrInvalidURL    = errors.New("url must be an absolute http(s) address")
)

func newField() FormField {
	return FormField{ID: uuid.NewString()}
}

// DraftFromProbes seeds the web form from the first request of the first probe.
// Without a body to show, the draft starts with one empty field.
func DraftFromProbes(probes []probe.Probe) WebForm {
	var form WebForm

	if len(probes) > 0 {
		if req, ok := probes[0].FirstRequest(); ok {
			form.URL = req.URL

			keys := make([]string, 0, len(req.Body))
			for k := range req.Body {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			for _, k := range keys {
				form.Fields = append(form.Fields, FormField{
					ID:    uuid.NewString(),
					Name:  k,
					Value: req.Body[k],
				})
			}
		}
	}

	if len(form.Fields) == 0 {
		form.Fields = []FormField{newField()}
	}

	return form
}

func (f *WebForm) AddField() FormField {
	fd := newField()
	f.Fields = append(f.Fields, fd)
	return fd
}

func (f *WebForm) RemoveField(id string) error {
	for i, fd := range f.Fields {
		if fd.ID == id {
			f.Fields = append(f.Fields[:i:i], f.Fields[i+1:]...)
			return nil
		}
	}
	return ErrFieldNotFound
}

func (f *WebForm) UpdateField(id, key, value string) (FormField, error) {
	if key != "name" && key != "value" {
		return FormField{}, ErrUnknownKey
	}

	for i := range f.Fields {
		if f.Fields[i].ID != id {
			continue
		}
		if key == "name" {
			f.Fields[i].Name = value
		} else {
			f.Fields[i].Value = value
		}
		return f.Fields[i], nil
	}
	return FormField{}, ErrFieldNotFound
}

// Body flattens the fields into an object keyed by field name. Nameless fields are
// skipped and a later field wins over an earlier one with the same name.
func (f WebForm) Body() map[string]string {
	body := make(map[string]string, len(f.Fields))
	for _, fd := range f.Fields {
		if fd.Name == "" {
			continue
		}
		body[fd.Name] = fd.Value
	}
	return body
}

// hostProfile maps hostnames the way browsers do: UTS #46 without transitional
// processing, underscores and leading hyphens allowed.
var hostProfile = idna.New(
	idna.MapForLookup(),
	idna.Transitional(false),
	idna.StrictDomainName(false),
	idna.CheckHyphens(false),
)

// ProbeName derives a probe name from the url hostname, dots replaced by underscores.
// Internationalised names are punycoded and IPv6 literals keep their brackets.
func ProbeName(rawURL string) (string, error) {
	u, err := parseTargetURL(rawURL)
	if err != nil {
		return "", err
	}

	host, err := asciiHost(u.Hostname())
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(host, ".", "_"), nil
}

func asciiHost(hostname string) (string, error) {
	if addr, err := netip.ParseAddr(hostname); err == nil {
		if addr.Is6() && !addr.Is4In6() {
			return "[" + addr.String() + "]", nil
		}
		return addr.String(), nil
	}

	host, err := hostProfile.ToASCII(hostname)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	return strings.ToLower(host), nil
}

func parseTargetURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return nil, ErrInvalidURL
	}
	return u, nil
}

// BuildProbe turns the draft into the single probe the web form submits.
func BuildProbe(f WebForm, d Defaults) (probe.Probe, error) {
	name, err := ProbeName(f.URL)
	if err != nil {
		return probe.Probe{}, err
	}

	return probe.Probe{
		ID:       uuid.NewString(),
		Name:     name,
		Interval: d.IntervalSec,
		Requests: []probe.Request{
			{
				URL:     strings.TrimSpace(f.URL),
				Body:    f.Body(),
				Timeout: d.TimeoutMs,
				Method:  d.Method,
			},
		},
		IncidentThreshold: d.IncidentThreshold,
		RecoveryThreshold: d.RecoveryThreshold,
		Alerts:            []probe.Alert{},
	}, nil
}
