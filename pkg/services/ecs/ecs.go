// Package ecs wraps Elastic Compute Service operations.
//
// Each method fills the provider's query parameters and decodes the reply
// through client.Call. Optional parameters are left out when they hold their
// zero value; optional booleans are pointers so false can be sent explicitly.
package ecs

import (
	"context"

	"github.com/alnah/go-aliyun/pkg/apierr"
	"github.com/alnah/go-aliyun/pkg/client"
	"github.com/alnah/go-aliyun/pkg/services/internal/query"
	"github.com/alnah/go-aliyun/pkg/signing"
)

// Service endpoint and API version.
const (
	Endpoint = "ecs.aliyuncs.com"
	Version  = "2014-05-26"
)

// Bool returns a pointer to v, for optional boolean parameters.
func Bool(v bool) *bool { return &v }

// Service calls ECS operations through a client.Sender.
type Service struct {
	sender client.Sender
}

// New creates a Service.
func New(s client.Sender) *Service {
	return &Service{sender: s}
}

func action(name string) client.Action {
	return client.Action{Endpoint: Endpoint, Name: name, Version: Version}
}

func call[T any](ctx context.Context, s *Service, name string, p signing.Params) (T, error) {
	return client.Call[T](ctx, s.sender, action(name), p)
}

// DescribeRegions lists the regions. regionID is optional.
func (s *Service) DescribeRegions(ctx context.Context, regionID string) (Regions, error) {
	p := signing.Params{}
	query.Set(p, "RegionId", regionID)
	return call[Regions](ctx, s, "DescribeRegions", p)
}

// DescribeZones lists the zones of a region.
func (s *Service) DescribeZones(ctx context.Context, regionID string) (Zones, error) {
	return call[Zones](ctx, s, "DescribeZones", signing.Params{"RegionId": regionID})
}

// AvailableResourceRequest holds the DescribeAvailableResource parameters.
type AvailableResourceRequest struct {
	RegionID string
	// DestinationResource is the resource type to query, e.g. "InstanceType"
	// or "SystemDisk".
	DestinationResource string
	ZoneID              string
}

// DescribeAvailableResource reports resource stock per zone.
func (s *Service) DescribeAvailableResource(ctx context.Context, req AvailableResourceRequest) (AvailableResources, error) {
	p := signing.Params{"RegionId": req.RegionID}
	query.Set(p, "DestinationResource", req.DestinationResource)
	query.Set(p, "ZoneId", req.ZoneID)
	return call[AvailableResources](ctx, s, "DescribeAvailableResource", p)
}

// DescribeAccountAttributes returns the account's ECS quotas and privileges
// in a region.
func (s *Service) DescribeAccountAttributes(ctx context.Context, regionID string) (AccountAttributes, error) {
	return call[AccountAttributes](ctx, s, "DescribeAccountAttributes", signing.Params{"RegionId": regionID})
}

// ResourcesModificationRequest holds the DescribeResourcesModification
// parameters.
type ResourcesModificationRequest struct {
	RegionID            string
	ResourceID          string
	DestinationResource string
	ZoneID              string
}

// DescribeResourcesModification lists the resources an instance can be
// changed to.
func (s *Service) DescribeResourcesModification(ctx context.Context, req ResourcesModificationRequest) (ResourcesModification, error) {
	p := signing.Params{"RegionId": req.RegionID}
	query.Set(p, "ResourceId", req.ResourceID)
	query.Set(p, "DestinationResource", req.DestinationResource)
	query.Set(p, "ZoneId", req.ZoneID)
	return call[ResourcesModification](ctx, s, "DescribeResourcesModification", p)
}

// RecommendInstanceTypeRequest holds the DescribeRecommendInstanceType
// parameters.
type RecommendInstanceTypeRequest struct {
	RegionID string
	// NetworkType is "vpc" or "classic".
	NetworkType  string
	InstanceType string
}

// DescribeRecommendInstanceType suggests alternative instance types.
func (s *Service) DescribeRecommendInstanceType(ctx context.Context, req RecommendInstanceTypeRequest) (Recommendations, error) {
	p := signing.Params{"RegionId": req.RegionID}
	query.Set(p, "NetworkType", req.NetworkType)
	query.Set(p, "InstanceType", req.InstanceType)
	return call[Recommendations](ctx, s, "DescribeRecommendInstanceType", p)
}

// RunInstancesRequest holds the RunInstances parameters.
type RunInstancesRequest struct {
	RegionID     string
	ImageID      string
	InstanceType string
	Amount       int
	DryRun       *bool
}

// RunInstances creates and starts instances. With DryRun set the provider
// answers with a DryRunOperation rejection on success.
func (s *Service) RunInstances(ctx context.Context, req RunInstancesRequest) (RunResult, error) {
	p := signing.Params{
		"RegionId":     req.RegionID,
		"ImageId":      req.ImageID,
		"InstanceType": req.InstanceType,
	}
	query.SetInt(p, "Amount", req.Amount)
	query.SetBool(p, "DryRun", req.DryRun)
	return call[RunResult](ctx, s, "RunInstances", p)
}

// StartInstances starts stopped instances.
func (s *Service) StartInstances(ctx context.Context, regionID string, instanceIDs []string) (BatchResult, error) {
	p := signing.Params{"RegionId": regionID}
	query.SetRepeated(p, "InstanceId", instanceIDs)
	return call[BatchResult](ctx, s, "StartInstances", p)
}

// StopInstancesRequest holds the StopInstances parameters.
type StopInstancesRequest struct {
	RegionID    string
	InstanceIDs []string
	ForceStop   *bool
	DryRun      *bool
}

// StopInstances stops running instances.
func (s *Service) StopInstances(ctx context.Context, req StopInstancesRequest) (BatchResult, error) {
	p := signing.Params{"RegionId": req.RegionID}
	query.SetRepeated(p, "InstanceId", req.InstanceIDs)
	query.SetBool(p, "ForceStop", req.ForceStop)
	query.SetBool(p, "DryRun", req.DryRun)
	return call[BatchResult](ctx, s, "StopInstances", p)
}

// RebootInstanceRequest holds the RebootInstance parameters.
type RebootInstanceRequest struct {
	InstanceID string
	ForceStop  *bool
	DryRun     *bool
}

// RebootInstance restarts one instance.
func (s *Service) RebootInstance(ctx context.Context, req RebootInstanceRequest) (Ack, error) {
	p := signing.Params{"InstanceId": req.InstanceID}
	query.SetBool(p, "ForceStop", req.ForceStop)
	query.SetBool(p, "DryRun", req.DryRun)
	return call[Ack](ctx, s, "RebootInstance", p)
}

// DeleteInstance releases one instance. force is required for a running
// instance.
func (s *Service) DeleteInstance(ctx context.Context, instanceID string, force *bool) (Ack, error) {
	p := signing.Params{"InstanceId": instanceID}
	query.SetBool(p, "Force", force)
	return call[Ack](ctx, s, "DeleteInstance", p)
}

// InstanceStatusRequest holds the DescribeInstanceStatus parameters.
type InstanceStatusRequest struct {
	RegionID    string
	InstanceIDs []string
	PageNumber  int
	PageSize    int
}

// DescribeInstanceStatus lists instance states, one page at a time.
func (s *Service) DescribeInstanceStatus(ctx context.Context, req InstanceStatusRequest) (InstanceStatuses, error) {
	p := signing.Params{"RegionId": req.RegionID}
	query.SetRepeated(p, "InstanceId", req.InstanceIDs)
	query.SetInt(p, "PageNumber", req.PageNumber)
	query.SetInt(p, "PageSize", req.PageSize)
	return call[InstanceStatuses](ctx, s, "DescribeInstanceStatus", p)
}

// InstancesRequest holds the DescribeInstances parameters. Pages are
// selected either by PageNumber or by the NextToken of the previous reply.
type InstancesRequest struct {
	RegionID    string
	InstanceIDs []string
	Status      string
	PageNumber  int
	PageSize    int
	NextToken   string
}

// DescribeInstances lists instances, one page at a time.
func (s *Service) DescribeInstances(ctx context.Context, req InstancesRequest) (Instances, error) {
	p := signing.Params{"RegionId": req.RegionID}
	if err := query.SetJSONList(p, "InstanceIds", req.InstanceIDs); err != nil {
		return Instances{}, apierr.NewInternal("encode InstanceIds", err)
	}
	query.Set(p, "Status", req.Status)
	query.SetInt(p, "PageNumber", req.PageNumber)
	query.SetInt(p, "PageSize", req.PageSize)
	query.Set(p, "NextToken", req.NextToken)
	return call[Instances](ctx, s, "DescribeInstances", p)
}
