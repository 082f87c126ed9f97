package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/alnah/go-aliyun/internal/config"
	"github.com/alnah/go-aliyun/internal/format"
	"github.com/alnah/go-aliyun/pkg/apierr"
	"github.com/alnah/go-aliyun/pkg/client"
	"github.com/alnah/go-aliyun/pkg/signing"
)

// globals holds the persistent flags shared by every command.
type globals struct {
	profile string
	verbose bool
	retries int
	metrics bool
	query   string
}

// RootCmd creates the aliyun command tree.
// The env parameter provides injectable dependencies for testing.
func RootCmd(env *Env, version string) *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   "aliyun",
		Short: "Call Alibaba Cloud RPC APIs with signed requests",
		Long: `Call Alibaba Cloud RPC APIs with signed requests.

Credentials come from the selected profile in ~/.config/go-aliyun/config.yaml,
falling back to ALIBABA_CLOUD_ACCESS_KEY_ID and ALIBABA_CLOUD_ACCESS_KEY_SECRET.
Results are printed as indented JSON; --query selects part of it.`,
		Version: version,
		// Silence Cobra's default error/usage printing; main handles it.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&g.profile, "profile", "", "Configuration profile (env: ALIYUN_PROFILE)")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "Log every request to stderr")
	pf.IntVar(&g.retries, "retries", 0, "Retry timeouts, connection failures and 5xx statuses up to n times")
	pf.BoolVar(&g.metrics, "metrics", false, "Print request metrics to stderr on exit")
	pf.StringVarP(&g.query, "query", "q", "", "Print only the part of the result selected by a gjson path")

	cmd.AddCommand(IdentityCmd(env, g))
	cmd.AddCommand(BalanceCmd(env, g))
	cmd.AddCommand(ECSCmd(env, g))
	cmd.AddCommand(CallCmd(env, g))
	cmd.AddCommand(ConfigCmd(env, g))

	return cmd
}

// session is the per-invocation state of a command that talks to the API.
type session struct {
	env      *Env
	cfg      config.Config
	sender   client.Sender
	registry *prometheus.Registry
	query    string
}

// open loads the profile and builds the sender the command dispatches through.
func (g *globals) open(env *Env) (*session, error) {
	cfg, err := env.ConfigLoader.Load(g.profile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !cfg.HasCredentials() {
		return nil, ErrCredentialsMissing
	}

	logger, err := newLogger(env.Stderr, cfg.LogLevel, g.verbose)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	s := &session{env: env, cfg: cfg, query: g.query}
	opts := []client.Option{client.WithLogger(logger)}
	if g.metrics {
		s.registry = prometheus.NewRegistry()
		opts = append(opts, client.WithMetrics(client.NewMetrics(s.registry)))
	}

	s.sender = env.ClientFactory.NewSender(cfg, opts...)
	if g.retries > 0 {
		s.sender = &retryingSender{
			next:   s.sender,
			cfg:    apierr.DefaultRetryConfig(g.retries),
			logger: logger,
		}
	}
	return s, nil
}

// run opens a session, executes fn and prints its result.
// Metrics are dumped even when fn fails.
func (g *globals) run(env *Env, fn func(s *session) (any, error)) error {
	s, err := g.open(env)
	if err != nil {
		return err
	}
	defer s.dumpMetrics()

	out, err := fn(s)
	if err != nil {
		return err
	}
	return format.Write(env.Stdout, out, s.query)
}

func (s *session) dumpMetrics() {
	if s.registry == nil {
		return
	}
	if err := writeMetrics(s.env.Stderr, s.registry); err != nil {
		_, _ = fmt.Fprintf(s.env.Stderr, "Warning: failed to write metrics: %v\n", err)
	}
}

// writeMetrics encodes every family gathered from g in the text exposition format.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

// newLogger returns a stderr text logger. verbose forces debug level.
func newLogger(w io.Writer, level string, verbose bool) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		QuoteEmptyFields: true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = logrus.DebugLevel
	}
	logger.SetLevel(lvl)
	return logger, nil
}

// retryingSender retries transient request failures with exponential backoff.
// Every attempt is signed afresh by the wrapped sender.
type retryingSender struct {
	next   client.Sender
	cfg    apierr.RetryConfig
	logger logrus.FieldLogger
}

func (r *retryingSender) Send(ctx context.Context, endpoint string, params signing.Params) (client.RawResponse, error) {
	attempt := 0
	return apierr.RetryWithBackoff(ctx, r.cfg, func() (client.RawResponse, error) {
		attempt++
		if attempt > 1 {
			r.logger.WithFields(logrus.Fields{
				"endpoint": endpoint,
				"action":   params["Action"],
				"attempt":  attempt,
			}).Info("retrying aliyun request")
		}
		return r.next.Send(ctx, endpoint, params)
	}, apierr.ShouldRetry)
}

var _ client.Sender = (*retryingSender)(nil)
