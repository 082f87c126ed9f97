package cli

import (
	"github.com/spf13/cobra"

	"github.com/alnah/go-aliyun/pkg/services/billing"
	"github.com/alnah/go-aliyun/pkg/services/sts"
)

// IdentityCmd creates the identity command.
func IdentityCmd(env *Env, g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "identity",
		Short: "Show the identity behind the configured access key",
		Long: `Show the identity behind the configured access key (STS GetCallerIdentity).

Useful to check that credentials are valid before calling other APIs.`,
		Example: `  aliyun identity
  aliyun identity -q Arn
  aliyun --profile work identity`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIdentity(cmd, env, g)
		},
	}
}

func runIdentity(cmd *cobra.Command, env *Env, g *globals) error {
	return g.run(env, func(s *session) (any, error) {
		return sts.New(s.sender).GetCallerIdentity(cmd.Context())
	})
}

// BalanceCmd creates the balance command.
func BalanceCmd(env *Env, g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the account balance",
		Long: `Show the account balance (BSS QueryAccountBalance).

A successful call may still report Success=false with a business error code.`,
		Example: `  aliyun balance
  aliyun balance -q Data.AvailableAmount`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBalance(cmd, env, g)
		},
	}
}

func runBalance(cmd *cobra.Command, env *Env, g *globals) error {
	return g.run(env, func(s *session) (any, error) {
		return billing.New(s.sender).QueryAccountBalance(cmd.Context())
	})
}
