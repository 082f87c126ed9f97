// Package clienttest provides a fake transport for client tests.
package clienttest

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/alnah/go-aliyun/pkg/client"
)

// Reply is one queued outcome of a Do call: a response or a transport error.
type Reply struct {
	Response *http.Response
	Err      error
}

// FakeDoer implements client.HTTPDoer so callers can run tests without
// making outbound HTTP requests. It is safe for concurrent use.
type FakeDoer struct {
	t testing.TB

	mu       sync.Mutex
	replies  []Reply
	requests []*http.Request
}

// NewFakeDoer returns a FakeDoer seeded with the responses that should be
// returned for each Do call.
func NewFakeDoer(t testing.TB, responses ...*http.Response) *FakeDoer {
	f := &FakeDoer{t: t}
	for _, r := range responses {
		f.replies = append(f.replies, Reply{Response: r})
	}
	return f
}

// NewJSONDoer queues one 200 response per JSON body.
func NewJSONDoer(t testing.TB, bodies ...string) *FakeDoer {
	f := &FakeDoer{t: t}
	for _, b := range bodies {
		f.replies = append(f.replies, Reply{Response: NewStringResponse(http.StatusOK, b)})
	}
	return f
}

// Enqueue appends replies to the queue.
func (f *FakeDoer) Enqueue(replies ...Reply) *FakeDoer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, replies...)
	return f
}

// Do records the request and returns the next queued reply.
func (f *FakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if len(f.replies) == 0 {
		f.t.Errorf("fake http client has no responses left for %s %s", req.Method, req.URL.Path)
		return nil, io.ErrUnexpectedEOF
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r.Response, r.Err
}

// Requests returns the HTTP requests captured so far.
func (f *FakeDoer) Requests() []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*http.Request(nil), f.requests...)
}

// LastQuery returns the decoded query of the most recent request.
func (f *FakeDoer) LastQuery() map[string]string {
	reqs := f.Requests()
	if len(reqs) == 0 {
		f.t.Fatal("fake http client received no requests")
	}
	out := make(map[string]string)
	for k, v := range reqs[len(reqs)-1].URL.Query() {
		out[k] = v[0]
	}
	return out
}

// NewStringResponse builds a minimal http.Response with the provided status
// code and body string.
func NewStringResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

var _ client.HTTPDoer = (*FakeDoer)(nil)
