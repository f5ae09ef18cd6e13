package wizard

import (
	"context"
	"errors"
	"io"
	"probe-wizard/internals/modules/notification"
	"probe-wizard/internals/modules/probe"
	"probe-wizard/pkg/redisstore"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type memStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{sessions: map[string][]byte{}}
}

func (m *memStore) CreateSession(_ context.Context, id string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = data
	return nil
}

func (m *memStore) GetSession(_ context.Context, id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.sessions[id]
	if !ok {
		return nil, redis.Nil
	}
	return data, nil
}

func (m *memStore) UpdateSession(_ context.Context, id string, fn func([]byte) ([]byte, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.sessions[id]
	if !ok {
		return redis.Nil
	}
	out, err := fn(data)
	if err != nil {
		return err
	}
	m.sessions[id] = out
	return nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateSessionToken(sessionID string) (string, error) {
	return "token-" + sessionID, nil
}

type fakePreviewer struct {
	got    []probe.Probe
	result probe.PreviewResult
}

func (f *fakePreviewer) Preview(_ context.Context, p probe.Probe) probe.PreviewResult {
	f.got = append(f.got, p)
	return f.result
}

type fakeTester struct {
	mu   sync.Mutex
	fail map[string]bool
	sent []string
}

func (f *fakeTester) Test(_ context.Context, n notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n.Type)
	if f.fail[n.Type] {
		return errors.New(n.Type + " unreachable")
	}
	return nil
}

type countingMetrics struct {
	mu        sync.Mutex
	sessions  int
	submitted int
	tests     map[string]int
	previews  map[string]int
}

func (c *countingMetrics) IncSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions++
}

func (c *countingMetrics) IncProbeSubmitted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitted++
}

func (c *countingMetrics) IncNotificationTest(channel string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tests == nil {
		c.tests = map[string]int{}
	}
	if ok {
		c.tests[channel+":ok"]++
	} else {
		c.tests[channel+":fail"]++
	}
}

func (c *countingMetrics) IncPreview(outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.previews == nil {
		c.previews = map[string]int{}
	}
	c.previews[outcome]++
}

var testDefaults = Defaults{
	IntervalSec:       10,
	TimeoutMs:         10000,
	Method:            "POST",
	IncidentThreshold: 5,
	RecoveryThreshold: 5,
	MaxFields:         3,
}

type testEnv struct {
	svc     *Service
	store   *memStore
	preview *fakePreviewer
	tester  *fakeTester
	metrics *countingMetrics
}

func newTestEnv() *testEnv {
	logger := zerolog.New(io.Discard)
	env := &testEnv{
		store:   newMemStore(),
		preview: &fakePreviewer{},
		tester:  &fakeTester{fail: map[string]bool{}},
		metrics: &countingMetrics{},
	}
	env.svc = NewService(env.store, fakeTokens{}, env.preview, env.tester, env.metrics, testDefaults, time.Hour, &logger)
	return env
}

// racingStore loses every optimistic update the way redisstore does after its retries run out.
type racingStore struct {
	*memStore
}

func (racingStore) UpdateSession(context.Context, string, func([]byte) ([]byte, error)) error {
	return redisstore.ErrSessionConflict
}
