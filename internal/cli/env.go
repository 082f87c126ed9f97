package cli

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-aliyun/internal/config"
	"github.com/alnah/go-aliyun/pkg/client"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time

	// Factories for domain objects
	ConfigLoader  ConfigLoader
	ClientFactory ClientFactory
}

// ConfigLoader resolves the configuration of a profile.
type ConfigLoader interface {
	Load(profile string) (config.Config, error)
}

// ClientFactory creates the sender every command dispatches through.
type ClientFactory interface {
	NewSender(cfg config.Config, opts ...client.Option) client.Sender
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the writer command results are printed to.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) {
		e.Now = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithClientFactory sets the client factory.
func WithClientFactory(f ClientFactory) EnvOption {
	return func(e *Env) {
		e.ClientFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		Getenv:        os.Getenv,
		Now:           time.Now,
		ConfigLoader:  &defaultConfigLoader{},
		ClientFactory: &defaultClientFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load(profile string) (config.Config, error) {
	return config.Load(profile)
}

// defaultClientFactory implements ClientFactory with a real signing client.
type defaultClientFactory struct{}

func (defaultClientFactory) NewSender(cfg config.Config, opts ...client.Option) client.Sender {
	return newClient(cfg, opts...)
}

// newClient applies the profile's transport settings before opts, so
// callers can still override them.
func newClient(cfg config.Config, opts ...client.Option) *client.Client {
	base := []client.Option{
		client.WithHTTPTimeout(cfg.Timeout),
		client.WithAlgorithm(cfg.SignatureMethod),
	}
	return client.New(client.Credentials{
		AccessKeyID:     cfg.AccessKeyID,
		AccessKeySecret: cfg.AccessKeySecret,
	}, append(base, opts...)...)
}

// Compile-time interface verification.
var (
	_ ConfigLoader  = (*defaultConfigLoader)(nil)
	_ ClientFactory = (*defaultClientFactory)(nil)
)
