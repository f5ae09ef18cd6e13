package export

import (
	"encoding/json"
	"probe-wizard/internals/modules/notification"
	"probe-wizard/internals/modules/probe"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleConfig() Config {
	return Config{
		Notifications: []notification.Notification{
			{ID: "n1", Type: "slack", Data: &notification.WebhookData{URL: "https://hooks.slack.com/x"}},
			{ID: "n2", Type: "smtp", Data: &notification.SMTPData{
				Hostname: "smtp.example.com", Port: 587, Recipients: []string{"ops@example.com"},
			}},
		},
		Probes: []probe.Probe{{
			ID:       "p1",
			Name:     "api_example_com",
			Interval: 10,
			Requests: []probe.Request{{
				URL:     "https://api.example.com/login",
				Method:  "POST",
				Body:    map[string]string{"user": "admin"},
				Timeout: 10000,
			}},
			IncidentThreshold: 5,
			RecoveryThreshold: 5,
			Alerts:            []probe.Alert{},
		}},
	}
}

func TestRenderYAML(t *testing.T) {
	out, contentType, err := Render(sampleConfig(), "")
	require.NoError(t, err)
	assert.Equal(t, "application/yaml", contentType)

	doc := string(out)
	assert.True(t, strings.HasPrefix(doc, "notifications:\n"), doc)
	assert.Contains(t, doc, "incidentThreshold: 5")
	assert.Contains(t, doc, "alerts: []")
	assert.Contains(t, doc, "hostname: smtp.example.com")

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(out, &parsed))
	probes := parsed["probes"].([]any)
	require.Len(t, probes, 1)
	p := probes[0].(map[string]any)
	assert.Equal(t, "api_example_com", p["name"])
	req := p["requests"].([]any)[0].(map[string]any)
	assert.Equal(t, 10000, req["timeout"])
	assert.Equal(t, map[string]any{"user": "admin"}, req["body"])

	explicit, _, err := Render(sampleConfig(), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, out, explicit)
}

func TestRenderJSON(t *testing.T) {
	out, contentType, err := Render(sampleConfig(), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)

	var back Config
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, sampleConfig(), back)
}

func TestRenderEmptyListsAreNotNull(t *testing.T) {
	out, _, err := Render(Config{}, FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"notifications":[],"probes":[]}`, string(out))

	out, _, err = Render(Config{}, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "notifications: []\nprobes: []\n", string(out))
}

func TestRenderUnknownFormat(t *testing.T) {
	_, _, err := Render(sampleConfig(), "toml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
