// Package billing wraps the Billing (BSS OpenAPI) service.
package billing

import (
	"context"

	"github.com/alnah/go-aliyun/pkg/client"
)

// Service endpoint and API version.
const (
	Endpoint = "business.aliyuncs.com"
	Version  = "2017-12-14"
)

// AccountBalance is the reply of QueryAccountBalance. Amounts are decimal
// strings as returned by the provider.
//
// Billing reports some business failures inside this shape with Success
// false rather than as a rejection; callers should check Success.
type AccountBalance struct {
	Code      string       `json:"Code"`
	Message   string       `json:"Message,omitempty"`
	RequestID string       `json:"RequestId"`
	Success   bool         `json:"Success"`
	Data      *BalanceData `json:"Data,omitempty"`
}

// BalanceData holds the balance figures.
type BalanceData struct {
	AvailableAmount     string `json:"AvailableAmount"`
	AvailableCashAmount string `json:"AvailableCashAmount"`
	CreditAmount        string `json:"CreditAmount"`
	MybankCreditAmount  string `json:"MybankCreditAmount"`
	Currency            string `json:"Currency"`
	QuotaLimit          string `json:"QuotaLimit"`
}

// Service calls Billing operations through a client.Sender.
type Service struct {
	sender client.Sender
}

// New creates a Service.
func New(s client.Sender) *Service {
	return &Service{sender: s}
}

// QueryAccountBalance returns the account's available balance.
func (s *Service) QueryAccountBalance(ctx context.Context) (AccountBalance, error) {
	a := client.Action{Endpoint: Endpoint, Name: "QueryAccountBalance", Version: Version}
	return client.Call[AccountBalance](ctx, s.sender, a, nil)
}
