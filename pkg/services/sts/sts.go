// Package sts wraps the Security Token Service.
package sts

import (
	"context"

	"github.com/alnah/go-aliyun/pkg/client"
)

// Service endpoint and API version.
const (
	Endpoint = "sts.aliyuncs.com"
	Version  = "2015-04-01"
)

// CallerIdentity describes the principal behind the signing credentials.
type CallerIdentity struct {
	IdentityType string `json:"IdentityType"`
	RequestID    string `json:"RequestId"`
	AccountID    string `json:"AccountId"`
	PrincipalID  string `json:"PrincipalId"`
	UserID       string `json:"UserId"`
	Arn          string `json:"Arn"`
	// RoleID is only returned when the caller is a RAM role.
	RoleID string `json:"RoleId,omitempty"`
}

// Service calls STS operations through a client.Sender.
type Service struct {
	sender client.Sender
}

// New creates a Service.
func New(s client.Sender) *Service {
	return &Service{sender: s}
}

// GetCallerIdentity returns the identity of the credentials in use. Invalid
// or empty credentials yield an apierr.KindRejected error.
func (s *Service) GetCallerIdentity(ctx context.Context) (CallerIdentity, error) {
	return client.Call[CallerIdentity](ctx, s.sender, action("GetCallerIdentity"), nil)
}

func action(name string) client.Action {
	return client.Action{Endpoint: Endpoint, Name: name, Version: Version}
}
