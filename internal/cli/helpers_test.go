package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-aliyun/internal/config"
	"github.com/alnah/go-aliyun/pkg/client"
	"github.com/alnah/go-aliyun/pkg/client/clienttest"
	"github.com/alnah/go-aliyun/pkg/signing"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

// mockConfigLoader returns a fixed config and records the requested profile.
type mockConfigLoader struct {
	LoadFunc func(profile string) (config.Config, error)

	mu       sync.Mutex
	profiles []string
}

func (m *mockConfigLoader) Load(profile string) (config.Config, error) {
	m.mu.Lock()
	m.profiles = append(m.profiles, profile)
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc(profile)
	}
	return testConfig(), nil
}

func (m *mockConfigLoader) Profiles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.profiles...)
}

// doerFunc adapts a function to client.HTTPDoer.
type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// fakeClientFactory builds real signing clients over a fake transport, so
// commands run through the whole request path without network access.
type fakeClientFactory struct {
	doer client.HTTPDoer

	mu   sync.Mutex
	cfgs []config.Config
}

func (f *fakeClientFactory) NewSender(cfg config.Config, opts ...client.Option) client.Sender {
	f.mu.Lock()
	f.cfgs = append(f.cfgs, cfg)
	f.mu.Unlock()

	opts = append(opts,
		client.WithHTTPClient(f.doer),
		client.WithNonce(func() string { return "3ee8c1b8-83d3-44af-a94f-4e0ad82fd6cf" }),
		client.WithClock(func() time.Time { return time.Date(2026, 1, 26, 14, 30, 52, 0, time.UTC) }),
	)
	return newClient(cfg, opts...)
}

var (
	_ ConfigLoader    = (*mockConfigLoader)(nil)
	_ ClientFactory   = (*fakeClientFactory)(nil)
	_ client.HTTPDoer = doerFunc(nil)
)

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

func testConfig() config.Config {
	return config.Config{
		Profile:         config.DefaultProfile,
		AccessKeyID:     "LTAI-test",
		AccessKeySecret: "test-secret-value",
		Region:          "cn-hangzhou",
		Timeout:         config.DefaultTimeout,
		LogLevel:        "info",
		SignatureMethod: signing.HMACSHA1,
	}
}

// testHarness bundles an Env with its captured output and mocks.
type testHarness struct {
	env     *Env
	stdout  *syncBuffer
	stderr  *syncBuffer
	loader  *mockConfigLoader
	factory *fakeClientFactory
}

// newHarness creates an Env whose requests are answered by doer.
func newHarness(doer client.HTTPDoer) *testHarness {
	h := &testHarness{
		stdout:  &syncBuffer{},
		stderr:  &syncBuffer{},
		loader:  &mockConfigLoader{},
		factory: &fakeClientFactory{doer: doer},
	}
	h.env = &Env{
		Stdout:        h.stdout,
		Stderr:        h.stderr,
		Getenv:        staticEnv(nil),
		Now:           fixedTime(time.Date(2026, 1, 26, 14, 30, 52, 0, time.UTC)),
		ConfigLoader:  h.loader,
		ClientFactory: h.factory,
	}
	return h
}

// execute runs the root command with args.
func (h *testHarness) execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := RootCmd(h.env, "test")
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.ExecuteContext(context.Background())
}

// jsonDoer answers every request with a 200 and body.
func jsonDoer(t *testing.T, bodies ...string) *clienttest.FakeDoer {
	t.Helper()
	return clienttest.NewJSONDoer(t, bodies...)
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// fixedTime returns a function that always returns the given time.
func fixedTime(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// staticEnv returns a getenv function that returns values from the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}
