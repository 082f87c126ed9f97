package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-aliyun/pkg/apierr"
	"github.com/alnah/go-aliyun/pkg/services/ecs"
)

// maxParallelRegions bounds concurrent requests when a command fans out over regions.
const maxParallelRegions = 4

// dryRunCode is the rejection code the provider answers a passing dry run with.
const dryRunCode = "DryRunOperation"

// ECSCmd creates the ecs command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ECSCmd(env *Env, g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ecs",
		Short: "Query and manage ECS instances",
		Long: `Query and manage Elastic Compute Service instances.

Commands that take --region default to the profile's region.`,
	}

	cmd.AddCommand(ecsRegionsCmd(env, g))
	cmd.AddCommand(ecsZonesCmd(env, g))
	cmd.AddCommand(ecsAvailableCmd(env, g))
	cmd.AddCommand(ecsAttributesCmd(env, g))
	cmd.AddCommand(ecsModificationCmd(env, g))
	cmd.AddCommand(ecsRecommendCmd(env, g))
	cmd.AddCommand(ecsRunCmd(env, g))
	cmd.AddCommand(ecsStartCmd(env, g))
	cmd.AddCommand(ecsStopCmd(env, g))
	cmd.AddCommand(ecsRebootCmd(env, g))
	cmd.AddCommand(ecsDeleteCmd(env, g))
	cmd.AddCommand(ecsStatusCmd(env, g))
	cmd.AddCommand(ecsInstancesCmd(env, g))

	return cmd
}

// regionOr returns region, or the profile's region when empty.
func (s *session) regionOr(region string) string {
	if region != "" {
		return region
	}
	return s.cfg.Region
}

// optionalBool returns &v when the flag was given, nil otherwise, so
// unset flags are left out of the request.
func optionalBool(cmd *cobra.Command, name string, v bool) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

// dryRunPassed reports whether err is the provider's answer to a dry run
// that would have succeeded, and prints its message.
func dryRunPassed(env *Env, err error) bool {
	r, ok := apierr.RejectionOf(err)
	if !ok || r.Code != dryRunCode {
		return false
	}
	_, _ = fmt.Fprintf(env.Stderr, "Dry run passed: %s (request %s)\n", r.Message, r.RequestID)
	return true
}

func ecsRegionsCmd(env *Env, g *globals) *cobra.Command {
	var region string

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List available regions",
		Example: `  aliyun ecs regions
  aliyun ecs regions -q 'Regions.Region.#.RegionId'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(env, func(s *session) (any, error) {
				return ecs.New(s.sender).DescribeRegions(cmd.Context(), region)
			})
		},
	}
	cmd.Flags().StringVarP(&region, "region", "r", "", "Region the query is sent to (optional)")
	return cmd
}

// regionZones pairs a region with its zones in multi-region output.
type regionZones struct {
	RegionID string    `json:"RegionId"`
	Zones    ecs.Zones `json:"Zones"`
}

func ecsZonesCmd(env *Env, g *globals) *cobra.Command {
	var regions []string

	cmd := &cobra.Command{
		Use:   "zones",
		Short: "List the zones of one or more regions",
		Long: `List the zones of one or more regions.

With several --region flags the regions are queried concurrently and the
output is a list of {RegionId, Zones} in flag order.`,
		Example: `  aliyun ecs zones
  aliyun ecs zones -r cn-hangzhou -r cn-shanghai -r eu-central-1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runZones(cmd.Context(), env, g, regions)
		},
	}
	cmd.Flags().StringSliceVarP(&regions, "region", "r", nil, "Region ID, repeatable (default: profile region)")
	return cmd
}

func runZones(ctx context.Context, env *Env, g *globals, regions []string) error {
	return g.run(env, func(s *session) (any, error) {
		svc := ecs.New(s.sender)
		if len(regions) <= 1 {
			region := ""
			if len(regions) == 1 {
				region = regions[0]
			}
			return svc.DescribeZones(ctx, s.regionOr(region))
		}

		results := make([]regionZones, len(regions))
		eg, ctx := errgroup.WithContext(ctx)
		eg.SetLimit(maxParallelRegions)
		for i, region := range regions {
			eg.Go(func() error {
				zones, err := svc.DescribeZones(ctx, region)
				if err != nil {
					return fmt.Errorf("region %s: %w", region, err)
				}
				results[i] = regionZones{RegionID: region, Zones: zones}
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
		return results, nil
	})
}

func ecsAvailableCmd(env *Env, g *globals) *cobra.Command {
	var req ecs.AvailableResourceRequest

	cmd := &cobra.Command{
		Use:     "available",
		Short:   "Show resource stock per zone",
		Example: `  aliyun ecs available --resource InstanceType --zone cn-hangzhou-i`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(env, func(s *session) (any, error) {
				req.RegionID = s.regionOr(req.RegionID)
				return ecs.New(s.sender).DescribeAvailableResource(cmd.Context(), req)
			})
		},
	}
	cmd.Flags().StringVarP(&req.RegionID, "region", "r", "", "Region ID (default: profile region)")
	cmd.Flags().StringVar(&req.DestinationResource, "resource", "InstanceType", "Resource type: Zone, IoOptimized, InstanceType, SystemDisk, DataDisk, Network")
	cmd.Flags().StringVar(&req.ZoneID, "zone", "", "Zone ID")
	return cmd
}

func ecsAttributesCmd(env *Env, g *globals) *cobra.Command {
	var region string

	cmd := &cobra.Command{
		Use:     "attributes",
		Short:   "Show account quotas and privileges",
		Example: `  aliyun ecs attributes -r cn-beijing`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(env, func(s *session) (any, error) {
				return ecs.New(s.sender).DescribeAccountAttributes(cmd.Context(), s.regionOr(region))
			})
		},
	}
	cmd.Flags().StringVarP(&region, "region", "r", "", "Region ID (default: profile region)")
	return cmd
}

func ecsModificationCmd(env *Env, g *globals) *cobra.Command {
	var req ecs.ResourcesModificationRequest

	cmd := &cobra.Command{
		Use:     "modification <instance-id>",
		Short:   "List what an instance can be changed to",
		Example: `  aliyun ecs modification i-bp67acfmxazb4ph3 --resource InstanceType`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(env, func(s *session) (any, error) {
				req.RegionID = s.regionOr(req.RegionID)
				req.ResourceID = args[0]
				return ecs.New(s.sender).DescribeResourcesModification(cmd.Context(), req)
			})
		},
	}
	cmd.Flags().StringVarP(&req.RegionID, "region", "r", "", "Region ID (default: profile region)")
	cmd.Flags().StringVar(&req.DestinationResource, "resource", "InstanceType", "Target resource: InstanceType or SystemDisk")
	cmd.Flags().StringVar(&req.ZoneID, "zone", "", "Zone ID")
	return cmd
}

func ecsRecommendCmd(env *Env, g *globals) *cobra.Command {
	var req ecs.RecommendInstanceTypeRequest

	cmd := &cobra.Command{
		Use:     "recommend",
		Short:   "Suggest alternative instance types",
		Example: `  aliyun ecs recommend --type ecs.g6.large`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(env, func(s *session) (any, error) {
				req.RegionID = s.regionOr(req.RegionID)
				return ecs.New(s.sender).DescribeRecommendInstanceType(cmd.Context(), req)
			})
		},
	}
	cmd.Flags().StringVarP(&req.RegionID, "region", "r", "", "Region ID (default: profile region)")
	cmd.Flags().StringVar(&req.NetworkType, "network", "vpc", "Network type: vpc or classic")
	cmd.Flags().StringVar(&req.InstanceType, "type", "", "Instance type to find alternatives for")
	return cmd
}

func ecsRunCmd(env *Env, g *globals) *cobra.Command {
	var (
		req    ecs.RunInstancesRequest
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create and start instances",
		Example: `  aliyun ecs run --image ubuntu_22_04_x64_20G_alibase_20240130.vhd --type ecs.t6-c1m1.large --dry-run
  aliyun ecs run --image m-bp1g7004ksh0oeuc**** --type ecs.g6.large --amount 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.DryRun = optionalBool(cmd, "dry-run", dryRun)
			err := g.run(env, func(s *session) (any, error) {
				req.RegionID = s.regionOr(req.RegionID)
				return ecs.New(s.sender).RunInstances(cmd.Context(), req)
			})
			if dryRunPassed(env, err) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&req.RegionID, "region", "r", "", "Region ID (default: profile region)")
	cmd.Flags().StringVar(&req.ImageID, "image", "", "Image ID")
	cmd.Flags().StringVar(&req.InstanceType, "type", "", "Instance type")
	cmd.Flags().IntVar(&req.Amount, "amount", 0, "Number of instances (provider default: 1)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Check the request without creating anything")
	_ = cmd.MarkFlagRequired("image")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func ecsStartCmd(env *Env, g *globals) *cobra.Command {
	var region string

	cmd := &cobra.Command{
		Use:     "start <instance-id>...",
		Short:   "Start stopped instances",
		Example: `  aliyun ecs start i-bp67acfmxazb4ph3 i-bp67acfmxazb4ph4`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(env, func(s *session) (any, error) {
				return ecs.New(s.sender).StartInstances(cmd.Context(), s.regionOr(region), args)
			})
		},
	}
	cmd.Flags().StringVarP(&region, "region", "r", "", "Region ID (default: profile region)")
	return cmd
}

func ecsStopCmd(env *Env, g *globals) *cobra.Command {
	var (
		region        string
		force, dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "stop <instance-id>...",
		Short: "Stop running instances",
		Example: `  aliyun ecs stop i-bp67acfmxazb4ph3
  aliyun ecs stop i-bp67acfmxazb4ph3 --force --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := ecs.StopInstancesRequest{
				InstanceIDs: args,
				ForceStop:   optionalBool(cmd, "force", force),
				DryRun:      optionalBool(cmd, "dry-run", dryRun),
			}
			err := g.run(env, func(s *session) (any, error) {
				req.RegionID = s.regionOr(region)
				return ecs.New(s.sender).StopInstances(cmd.Context(), req)
			})
			if dryRunPassed(env, err) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&region, "region", "r", "", "Region ID (default: profile region)")
	cmd.Flags().BoolVar(&force, "force", false, "Force stop, like pulling the power")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Check the request without stopping anything")
	return cmd
}

func ecsRebootCmd(env *Env, g *globals) *cobra.Command {
	var force, dryRun bool

	cmd := &cobra.Command{
		Use:     "reboot <instance-id>",
		Short:   "Restart one instance",
		Example: `  aliyun ecs reboot i-bp67acfmxazb4ph3 --force`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := ecs.RebootInstanceRequest{
				InstanceID: args[0],
				ForceStop:  optionalBool(cmd, "force", force),
				DryRun:     optionalBool(cmd, "dry-run", dryRun),
			}
			err := g.run(env, func(s *session) (any, error) {
				return ecs.New(s.sender).RebootInstance(cmd.Context(), req)
			})
			if dryRunPassed(env, err) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Force the restart")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Check the request without restarting")
	return cmd
}

func ecsDeleteCmd(env *Env, g *globals) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "delete <instance-id>",
		Short:   "Release one instance",
		Long:    `Release one instance. A running instance requires --force.`,
		Example: `  aliyun ecs delete i-bp67acfmxazb4ph3 --force`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(env, func(s *session) (any, error) {
				return ecs.New(s.sender).DeleteInstance(cmd.Context(), args[0], optionalBool(cmd, "force", force))
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Release even if running")
	return cmd
}

func ecsStatusCmd(env *Env, g *globals) *cobra.Command {
	var req ecs.InstanceStatusRequest

	cmd := &cobra.Command{
		Use:   "status [instance-id]...",
		Short: "List instance states",
		Example: `  aliyun ecs status
  aliyun ecs status i-bp67acfmxazb4ph3 --page-size 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(env, func(s *session) (any, error) {
				req.RegionID = s.regionOr(req.RegionID)
				req.InstanceIDs = args
				return ecs.New(s.sender).DescribeInstanceStatus(cmd.Context(), req)
			})
		},
	}
	cmd.Flags().StringVarP(&req.RegionID, "region", "r", "", "Region ID (default: profile region)")
	cmd.Flags().IntVar(&req.PageNumber, "page", 0, "Page number, starting at 1")
	cmd.Flags().IntVar(&req.PageSize, "page-size", 0, "Entries per page (max 50)")
	return cmd
}

func ecsInstancesCmd(env *Env, g *globals) *cobra.Command {
	var req ecs.InstancesRequest

	cmd := &cobra.Command{
		Use:   "instances [instance-id]...",
		Short: "List instances",
		Example: `  aliyun ecs instances --status Running
  aliyun ecs instances -q 'Instances.Instance.#.InstanceId'
  aliyun ecs instances --next-token caeba0bbb2be03f84eb48b699f0a****`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(env, func(s *session) (any, error) {
				req.RegionID = s.regionOr(req.RegionID)
				req.InstanceIDs = args
				return ecs.New(s.sender).DescribeInstances(cmd.Context(), req)
			})
		},
	}
	cmd.Flags().StringVarP(&req.RegionID, "region", "r", "", "Region ID (default: profile region)")
	cmd.Flags().StringVar(&req.Status, "status", "", "Filter by state: Pending, Running, Starting, Stopping, Stopped")
	cmd.Flags().IntVar(&req.PageNumber, "page", 0, "Page number, starting at 1")
	cmd.Flags().IntVar(&req.PageSize, "page-size", 0, "Entries per page (max 100)")
	cmd.Flags().StringVar(&req.NextToken, "next-token", "", "Token from the previous page")
	return cmd
}
