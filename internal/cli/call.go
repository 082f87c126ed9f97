package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/go-aliyun/internal/json"
	"github.com/alnah/go-aliyun/pkg/client"
	"github.com/alnah/go-aliyun/pkg/signing"
)

// CallCmd creates the call command.
func CallCmd(env *Env, g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "call <endpoint> <action> <version> [Key=Value]...",
		Short: "Send any signed RPC request",
		Long: `Send any signed RPC request and print the JSON reply.

Common parameters (AccessKeyId, SignatureMethod, SignatureNonce, Timestamp,
SignatureVersion, Signature) are added automatically. A provider rejection is
reported as an error.`,
		Example: `  aliyun call ecs.aliyuncs.com DescribeRegions 2014-05-26
  aliyun call vpc.aliyuncs.com DescribeVpcs 2016-04-28 RegionId=cn-hangzhou PageSize=50
  aliyun call ecs.aliyuncs.com StartInstances 2014-05-26 RegionId=cn-hangzhou InstanceId.1=i-bp67acfmxazb4ph3`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args[3:])
			if err != nil {
				return err
			}
			action := client.Action{Endpoint: args[0], Name: args[1], Version: args[2]}
			return g.run(env, func(s *session) (any, error) {
				return client.Call[json.RawMessage](cmd.Context(), s.sender, action, params)
			})
		},
	}
}

// parseParams turns Key=Value arguments into request parameters.
// Values may contain '='; keys may not be empty.
func parseParams(args []string) (signing.Params, error) {
	params := make(signing.Params, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w %q: want Key=Value", ErrInvalidParam, arg)
		}
		params[key] = value
	}
	return params, nil
}
