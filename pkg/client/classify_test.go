package client_test

// Coverage Notes:
// - Success, sentinel-defaulted rejection and unparseable bodies.
// - Exact-field-set matching: a minimal rejection must not pass for a sparse
//   {RequestId} success shape, and a success body sharing keys with the
//   rejection shape must not be misread as a rejection.
// - Non-struct result types test the rejection shape first.

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-aliyun/internal/json"
	"github.com/alnah/go-aliyun/pkg/apierr"
	"github.com/alnah/go-aliyun/pkg/client"
	"github.com/alnah/go-aliyun/pkg/client/clienttest"
	"github.com/alnah/go-aliyun/pkg/signing"
)

type requestOnly struct {
	RequestID string `json:"RequestId"`
}

// balance shares Code, Message and RequestId with the rejection shape.
type balance struct {
	Code      string `json:"Code"`
	Message   string `json:"Message,omitempty"`
	RequestID string `json:"RequestId"`
	Success   bool   `json:"Success"`
	Data      *struct {
		AvailableAmount string `json:"AvailableAmount"`
	} `json:"Data,omitempty"`
}

type common struct {
	RequestID string `json:"RequestId"`
}

type embedded struct {
	common
	TotalCount int `json:"TotalCount"`
}

func raw(body string) client.RawResponse {
	return client.RawResponse{StatusCode: 200, Body: json.RawMessage(body)}
}

// ---------------------------------------------------------------------------
// TestClassify - success shape
// ---------------------------------------------------------------------------

func TestClassify_Success(t *testing.T) {
	t.Parallel()

	t.Run("exact fields", func(t *testing.T) {
		t.Parallel()

		got, err := client.Classify[callerIdentity](raw(identityBody))
		if err != nil {
			t.Fatalf("Classify() unexpected error: %v", err)
		}
		if got.Arn != "acs:ram::1234567890123456:root" || got.RoleID != "" {
			t.Errorf("Classify() = %+v", got)
		}
	})

	t.Run("optional field decoded when present", func(t *testing.T) {
		t.Parallel()

		body := strings.Replace(identityBody, `"Arn"`, `"RoleId": "3009", "Arn"`, 1)
		got, err := client.Classify[callerIdentity](raw(body))
		if err != nil {
			t.Fatalf("Classify() unexpected error: %v", err)
		}
		if got.RoleID != "3009" {
			t.Errorf("RoleID = %q, want 3009", got.RoleID)
		}
	})

	t.Run("unknown extra keys tolerated", func(t *testing.T) {
		t.Parallel()

		body := strings.Replace(identityBody, `"Arn"`, `"NewField": 1, "Arn"`, 1)
		if _, err := client.Classify[callerIdentity](raw(body)); err != nil {
			t.Errorf("Classify() unexpected error: %v", err)
		}
	})

	t.Run("shape sharing rejection keys", func(t *testing.T) {
		t.Parallel()

		body := `{"Code":"200","Message":"Successful!","RequestId":"r","Success":true,"Data":{"AvailableAmount":"1.00"}}`
		got, err := client.Classify[balance](raw(body))
		if err != nil {
			t.Fatalf("Classify() unexpected error: %v", err)
		}
		if !got.Success || got.Data == nil || got.Data.AvailableAmount != "1.00" {
			t.Errorf("Classify() = %+v", got)
		}
	})

	t.Run("embedded struct flattened", func(t *testing.T) {
		t.Parallel()

		got, err := client.Classify[embedded](raw(`{"RequestId":"r","TotalCount":3}`))
		if err != nil {
			t.Fatalf("Classify() unexpected error: %v", err)
		}
		if got.RequestID != "r" || got.TotalCount != 3 {
			t.Errorf("Classify() = %+v", got)
		}
	})

	t.Run("non-struct result", func(t *testing.T) {
		t.Parallel()

		got, err := client.Classify[map[string]any](raw(`{"RequestId":"r","Regions":{}}`))
		if err != nil {
			t.Fatalf("Classify() unexpected error: %v", err)
		}
		if got["RequestId"] != "r" {
			t.Errorf("Classify() = %v", got)
		}
	})
}

// ---------------------------------------------------------------------------
// TestClassify_Rejection
// ---------------------------------------------------------------------------

func TestClassify_Rejection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		body          string
		wantMessage   string
		wantRecommend string
	}{
		{
			name:          "full rejection",
			body:          rejectionBody,
			wantMessage:   "Specified access key is not found.",
			wantRecommend: "https://api.aliyun.com/troubleshoot?q=InvalidAccessKeyId.NotFound",
		},
		{
			name:          "missing message and recommend get sentinel",
			body:          `{"Code":"Forbidden.RAM","HostId":"ecs.aliyuncs.com","RequestId":"r"}`,
			wantMessage:   apierr.AbsentField,
			wantRecommend: apierr.AbsentField,
		},
		{
			name:          "missing recommend only",
			body:          `{"Code":"Throttling","HostId":"h","RequestId":"r","Message":"slow down"}`,
			wantMessage:   "slow down",
			wantRecommend: apierr.AbsentField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := client.Classify[callerIdentity](raw(tt.body))
			r, ok := apierr.RejectionOf(err)
			if !ok {
				t.Fatalf("Classify() error = %v, want rejection", err)
			}
			if r.Message != tt.wantMessage || r.Recommend != tt.wantRecommend {
				t.Errorf("rejection = %+v", r)
			}
		})
	}

	t.Run("minimal rejection not accepted as sparse success", func(t *testing.T) {
		t.Parallel()

		_, err := client.Classify[requestOnly](raw(`{"Code":"C","HostId":"h","RequestId":"r"}`))
		if !errors.Is(err, apierr.ErrRejected) {
			t.Errorf("Classify() error = %v, want ErrRejected", err)
		}
	})

	t.Run("sparse success not mistaken for rejection", func(t *testing.T) {
		t.Parallel()

		got, err := client.Classify[requestOnly](raw(`{"RequestId":"r"}`))
		if err != nil || got.RequestID != "r" {
			t.Errorf("Classify() = %+v, %v", got, err)
		}
	})

	t.Run("rejection against shape sharing keys", func(t *testing.T) {
		t.Parallel()

		_, err := client.Classify[balance](raw(`{"Code":"NotAuthorized","HostId":"business.aliyuncs.com","Message":"no","RequestId":"r"}`))
		if !errors.Is(err, apierr.ErrRejected) {
			t.Errorf("Classify() error = %v, want ErrRejected", err)
		}
	})

	t.Run("non-struct result tests rejection first", func(t *testing.T) {
		t.Parallel()

		_, err := client.Classify[map[string]any](raw(rejectionBody))
		if !errors.Is(err, apierr.ErrRejected) {
			t.Errorf("Classify() error = %v, want ErrRejected", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestClassify_Internal
// ---------------------------------------------------------------------------

func TestClassify_Internal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		wantShape bool
	}{
		{"unparseable", `{"RequestId":`, false},
		{"array", `[1,2]`, false},
		{"null", `null`, true},
		{"matches neither shape", `{"RequestId":"r","AccountId":"1"}`, true},
		{"wrong field type", strings.Replace(identityBody, `"Account"`, `42`, 1), false},
		{"rejection with wrong field type", `{"Code":1,"HostId":"h","RequestId":"r"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := client.Classify[callerIdentity](raw(tt.body))
			if !errors.Is(err, apierr.ErrInternal) {
				t.Fatalf("Classify() error = %v, want ErrInternal", err)
			}
			if got := errors.Is(err, apierr.ErrShapeMismatch); got != tt.wantShape {
				t.Errorf("errors.Is(err, ErrShapeMismatch) = %v, want %v", got, tt.wantShape)
			}
		})
	}

	t.Run("mismatch names missing keys", func(t *testing.T) {
		t.Parallel()

		_, err := client.Classify[callerIdentity](raw(`{"RequestId":"r","AccountId":"1"}`))
		if err == nil || !strings.Contains(err.Error(), "Arn") {
			t.Errorf("Classify() error = %v, want it to name Arn", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestCall - action parameters and classification
// ---------------------------------------------------------------------------

func TestCall(t *testing.T) {
	t.Parallel()

	t.Run("action parameters override caller values", func(t *testing.T) {
		t.Parallel()

		doer := clienttest.NewJSONDoer(t, identityBody)
		c := newFixedClient(doer)

		params := signing.Params{"Action": "Other", "Format": "XML", "RegionId": "cn-beijing"}
		if _, err := client.Call[callerIdentity](context.Background(), c, getCallerIdentity, params); err != nil {
			t.Fatalf("Call() unexpected error: %v", err)
		}

		q := doer.LastQuery()
		want := map[string]string{
			"Action":   "GetCallerIdentity",
			"Format":   "JSON",
			"Version":  "2015-04-01",
			"RegionId": "cn-beijing",
		}
		for k, v := range want {
			if q[k] != v {
				t.Errorf("query[%q] = %q, want %q", k, q[k], v)
			}
		}
		if params["Action"] != "Other" {
			t.Error("Call() mutated caller params")
		}
		if host := doer.Requests()[0].URL.Host; host != "sts.aliyuncs.com" {
			t.Errorf("host = %q, want sts.aliyuncs.com", host)
		}
	})

	t.Run("transport error passed through", func(t *testing.T) {
		t.Parallel()

		doer := clienttest.NewFakeDoer(t, clienttest.NewStringResponse(502, "bad gateway"))
		_, err := client.Call[callerIdentity](context.Background(), newFixedClient(doer), getCallerIdentity, nil)
		if !errors.Is(err, apierr.ErrStatus) {
			t.Errorf("Call() error = %v, want ErrStatus", err)
		}
	})

	t.Run("rejection from JSON error status", func(t *testing.T) {
		t.Parallel()

		doer := clienttest.NewFakeDoer(t, clienttest.NewStringResponse(403, rejectionBody))
		_, err := client.Call[callerIdentity](context.Background(), newFixedClient(doer), getCallerIdentity, nil)
		if !errors.Is(err, apierr.ErrRejected) {
			t.Errorf("Call() error = %v, want ErrRejected", err)
		}
	})
}
