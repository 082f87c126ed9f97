package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/alnah/go-aliyun/internal/config"
)

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env, g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration profiles",
		Long: `Manage persistent configuration profiles.

Configuration is stored in ~/.config/go-aliyun/config.yaml (owner-only).
Commands act on the profile selected by --profile, ALIYUN_PROFILE, or the
current profile. Unset keys fall back to environment variables.

Supported settings:
  access-key-id       Access key ID (env: ALIBABA_CLOUD_ACCESS_KEY_ID)
  access-key-secret   Access key secret (env: ALIBABA_CLOUD_ACCESS_KEY_SECRET)
  region              Default region (env: ALIBABA_CLOUD_REGION_ID, default: cn-hangzhou)
  timeout             HTTP timeout, e.g. 30s (env: ALIYUN_TIMEOUT, default: 30s)
  log-level           trace, debug, info, warn, error (env: ALIYUN_LOG_LEVEL, default: info)
  signature-method    HMAC-SHA1 or HMAC-SHA256 (env: ALIYUN_SIGNATURE_METHOD, default: HMAC-SHA1)`,
		Example: `  aliyun config set access-key-id LTAI5tQ9xyz
  aliyun --profile work config set region eu-central-1
  aliyun config use work
  aliyun config list`,
	}

	cmd.AddCommand(configSetCmd(env, g))
	cmd.AddCommand(configGetCmd(env, g))
	cmd.AddCommand(configListCmd(env, g))
	cmd.AddCommand(configUseCmd(env))
	cmd.AddCommand(configProfilesCmd(env))

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env, g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value in the selected profile.

The profile is created if it doesn't exist. The first profile written
becomes the current one.`,
		Example: `  aliyun config set timeout 10s
  aliyun config set signature-method HMAC-SHA256`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(env, g.profile, args[0], args[1])
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env, g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value.

Prints the value to stdout, or nothing if not set.`,
		Example: `  aliyun config get region`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(env, g.profile, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env, g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration values of the selected profile.

Shows both values from the config file and environment variable overrides.
The access key secret is masked.`,
		Example: `  aliyun config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(env, g.profile)
		},
	}
}

// configUseCmd creates the "config use" subcommand.
func configUseCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "use <profile>",
		Short:   "Switch the current profile",
		Example: `  aliyun config use work`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigUse(env, args[0])
		},
	}
}

// configProfilesCmd creates the "config profiles" subcommand.
func configProfilesCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "profiles",
		Short:   "List stored profiles",
		Example: `  aliyun config profiles`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigProfiles(env)
		},
	}
}

// runConfigSet handles the "config set" command.
func runConfigSet(env *Env, profile, key, value string) error {
	if !isValidConfigKey(key) {
		return fmt.Errorf("%w %q (valid keys: %v)", config.ErrUnknownKey, key, config.Keys)
	}

	if err := config.Save(profile, key, value); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, displayValue(key, value))
	return nil
}

// runConfigGet handles the "config get" command.
func runConfigGet(env *Env, profile, key string) error {
	if !isValidConfigKey(key) {
		return fmt.Errorf("%w %q (valid keys: %v)", config.ErrUnknownKey, key, config.Keys)
	}

	value, err := config.Get(profile, key)
	if err != nil {
		return err
	}

	// Check environment variable fallback.
	if value == "" {
		value = env.Getenv(config.EnvFor(key))
	}

	if value != "" {
		_, _ = fmt.Fprintln(env.Stdout, value)
	}

	return nil
}

// runConfigList handles the "config list" command.
func runConfigList(env *Env, profile string) error {
	data, err := config.List(profile)
	if err != nil {
		return err
	}

	// Add environment variable values for completeness.
	fromEnv := make(map[string]bool)
	for _, key := range config.Keys {
		if _, ok := data[key]; ok {
			continue
		}
		if envVal := env.Getenv(config.EnvFor(key)); envVal != "" {
			data[key] = envVal
			fromEnv[key] = true
		}
	}

	if len(data) == 0 {
		_, _ = fmt.Fprintln(env.Stdout, "No configuration set.")
		_, _ = fmt.Fprintln(env.Stdout, "\nAvailable settings:")
		for _, key := range config.Keys {
			_, _ = fmt.Fprintf(env.Stdout, "  %s\n", key)
		}
		return nil
	}

	for _, key := range config.Keys {
		value, ok := data[key]
		if !ok {
			continue
		}
		line := fmt.Sprintf("%s=%s", key, displayValue(key, value))
		if fromEnv[key] {
			line += " (from env)"
		}
		_, _ = fmt.Fprintln(env.Stdout, line)
	}

	return nil
}

// runConfigUse handles the "config use" command.
func runConfigUse(env *Env, profile string) error {
	if err := config.Use(profile); err != nil {
		if errors.Is(err, config.ErrUnknownProfile) {
			return fmt.Errorf("%w (create it with: aliyun --profile %s config set <key> <value>)", err, profile)
		}
		return err
	}
	_, _ = fmt.Fprintf(env.Stderr, "Current profile: %s\n", profile)
	return nil
}

// runConfigProfiles handles the "config profiles" command.
func runConfigProfiles(env *Env) error {
	names, current, err := config.Profiles()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		_, _ = fmt.Fprintln(env.Stdout, "No profiles stored.")
		return nil
	}
	for _, name := range names {
		marker := " "
		if name == current {
			marker = "*"
		}
		_, _ = fmt.Fprintf(env.Stdout, "%s %s\n", marker, name)
	}
	return nil
}

// displayValue masks the secret.
func displayValue(key, value string) string {
	if key == config.KeyAccessKeySecret {
		return config.Mask(value)
	}
	return value
}

// isValidConfigKey checks if a key is a valid configuration key.
func isValidConfigKey(key string) bool {
	return slices.Contains(config.Keys, key)
}
