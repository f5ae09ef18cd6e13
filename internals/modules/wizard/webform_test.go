package wizard

import (
	"probe-wizard/internals/modules/probe"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftFromProbes(t *testing.T) {
	t.Run("no probes starts with one empty field", func(t *testing.T) {
		draft := DraftFromProbes(nil)
		assert.Empty(t, draft.URL)
		require.Len(t, draft.Fields, 1)
		assert.NotEmpty(t, draft.Fields[0].ID)
		assert.Empty(t, draft.Fields[0].Name)
		assert.Empty(t, draft.Fields[0].Value)
	})

	t.Run("probe without requests", func(t *testing.T) {
		draft := DraftFromProbes([]probe.Probe{{Name: "x"}})
		assert.Empty(t, draft.URL)
		assert.Len(t, draft.Fields, 1)
	})

	t.Run("body keys become sorted fields", func(t *testing.T) {
		draft := DraftFromProbes([]probe.Probe{{
			Requests: []probe.Request{{
				URL:  "https://api.example.com/login",
				Body: map[string]string{"user": "a", "pass": "b"},
			}},
		}})
		assert.Equal(t, "https://api.example.com/login", draft.URL)
		require.Len(t, draft.Fields, 2)
		assert.Equal(t, "pass", draft.Fields[0].Name)
		assert.Equal(t, "b", draft.Fields[0].Value)
		assert.Equal(t, "user", draft.Fields[1].Name)
		assert.NotEqual(t, draft.Fields[0].ID, draft.Fields[1].ID)
	})

	t.Run("empty body keeps url", func(t *testing.T) {
		draft := DraftFromProbes([]probe.Probe{{
			Requests: []probe.Request{{URL: "http://a.b"}},
		}})
		assert.Equal(t, "http://a.b", draft.URL)
		assert.Len(t, draft.Fields, 1)
	})
}

func TestFieldEditing(t *testing.T) {
	form := DraftFromProbes(nil)
	first := form.Fields[0]

	added := form.AddField()
	require.Len(t, form.Fields, 2)
	assert.Equal(t, added.ID, form.Fields[1].ID)

	fd, err := form.UpdateField(first.ID, "name", "email")
	require.NoError(t, err)
	assert.Equal(t, "email", fd.Name)

	fd, err = form.UpdateField(first.ID, "value", "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", fd.Value)
	assert.Equal(t, "email", form.Fields[0].Name)

	_, err = form.UpdateField(first.ID, "id", "x")
	assert.ErrorIs(t, err, ErrUnknownKey)

	_, err = form.UpdateField("missing", "name", "x")
	assert.ErrorIs(t, err, ErrFieldNotFound)

	require.NoError(t, form.RemoveField(first.ID))
	require.Len(t, form.Fields, 1)
	assert.Equal(t, added.ID, form.Fields[0].ID)

	assert.ErrorIs(t, form.RemoveField(first.ID), ErrFieldNotFound)

	require.NoError(t, form.RemoveField(added.ID))
	assert.Empty(t, form.Fields)
}

func TestBody(t *testing.T) {
	form := WebForm{Fields: []FormField{
		{ID: "1", Name: "a", Value: "1"},
		{ID: "2", Name: "", Value: "ignored"},
		{ID: "3", Name: "a", Value: "2"},
		{ID: "4", Name: "b", Value: ""},
	}}
	assert.Equal(t, map[string]string{"a": "2", "b": ""}, form.Body())
	assert.Empty(t, WebForm{}.Body())
}

func TestProbeName(t *testing.T) {
	cases := []struct {
		url  string
		want string
		err  bool
	}{
		{url: "https://api.example.com/v1", want: "api_example_com"},
		{url: "http://API.Example.COM:8080/x?y=1", want: "api_example_com"},
		{url: "http://localhost:3000", want: "localhost"},
		{url: "http://10.0.0.1/health", want: "10_0_0_1"},
		{url: "  https://a.b  ", want: "a_b"},
		{url: "https://bücher.de/form", want: "xn--bcher-kva_de"},
		{url: "https://BÜCHER.de", want: "xn--bcher-kva_de"},
		{url: "https://xn--bcher-kva.de", want: "xn--bcher-kva_de"},
		{url: "http://[::1]:8080/x", want: "[::1]"},
		{url: "http://[2001:DB8:0:0::1]/", want: "[2001:db8::1]"},
		{url: "http://my_host.internal/", want: "my_host_internal"},
		{url: "", err: true},
		{url: "example.com", err: true},
		{url: "ftp://example.com", err: true},
		{url: "http://", err: true},
		{url: "://bad", err: true},
	}

	for _, c := range cases {
		got, err := ProbeName(c.url)
		if c.err {
			assert.ErrorIs(t, err, ErrInvalidURL, c.url)
			continue
		}
		require.NoError(t, err, c.url)
		assert.Equal(t, c.want, got, c.url)
	}
}

func TestBuildProbe(t *testing.T) {
	form := WebForm{
		URL: "https://shop.example.org/api/login",
		Fields: []FormField{
			{ID: "1", Name: "username", Value: "admin"},
			{ID: "2", Name: "password", Value: "secret"},
		},
	}

	p, err := BuildProbe(form, testDefaults)
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "shop_example_org", p.Name)
	assert.Equal(t, 10, p.Interval)
	assert.Equal(t, 5, p.IncidentThreshold)
	assert.Equal(t, 5, p.RecoveryThreshold)
	assert.NotNil(t, p.Alerts)
	assert.Empty(t, p.Alerts)

	require.Len(t, p.Requests, 1)
	req := p.Requests[0]
	assert.Equal(t, "https://shop.example.org/api/login", req.URL)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, 10000, req.Timeout)
	assert.Equal(t, map[string]string{"username": "admin", "password": "secret"}, req.Body)

	_, err = BuildProbe(WebForm{URL: "nope"}, testDefaults)
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestSteps(t *testing.T) {
	assert.Equal(t, "/web-form", StepWebForm.Route())
	assert.Equal(t, StepNotifications, StepWebForm.next())
	assert.Equal(t, StepReview, StepNotifications.next())
	assert.Equal(t, StepReview, StepReview.next())

	_, ok := StepWebForm.prev()
	assert.False(t, ok)
	prev, ok := StepReview.prev()
	assert.True(t, ok)
	assert.Equal(t, StepNotifications, prev)
}
