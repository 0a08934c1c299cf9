package api

import (
	"io"
	"net/url"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/bandwidth"
)

// MockResponseBody is a ReadCloser that simulates reading response data
type MockResponseBody struct {
	data []byte
	pos  int
}

// NewMockResponseBody creates a new MockResponseBody with the given data
func NewMockResponseBody(data []byte) *MockResponseBody {
	return &MockResponseBody{data: data}
}

// Read implements the io.Reader interface
func (m *MockResponseBody) Read(p []byte) (n int, err error) {
	if m.pos >= len(m.data) {
		return 0, io.EOF
	}
	n = copy(p, m.data[m.pos:])
	m.pos += n
	return n, nil
}

// Close implements the io.Closer interface
func (m *MockResponseBody) Close() error {
	return nil
}

// MockHttpClient is a tls_client.HttpClient that never touches the network.
// It records every request passed to Do.
type MockHttpClient struct {
	Response *fhttp.Response
	Err      error
	// ResponseFunc, when set, answers each request instead of Response/Err
	ResponseFunc func(req *fhttp.Request) (*fhttp.Response, error)

	mu       sync.Mutex
	requests []*fhttp.Request
}

var _ tls_client.HttpClient = (*MockHttpClient)(nil)

// NewMockHttpClient creates a MockHttpClient answering with body and statusCode
func NewMockHttpClient(body []byte, statusCode int) *MockHttpClient {
	return &MockHttpClient{Response: NewMockResponse(body, statusCode)}
}

// NewMockHttpClientWithError creates a MockHttpClient whose requests fail
func NewMockHttpClientWithError(err error) *MockHttpClient {
	return &MockHttpClient{Err: err}
}

// NewMockResponse builds a response with the given body and status
func NewMockResponse(body []byte, statusCode int) *fhttp.Response {
	return &fhttp.Response{
		StatusCode: statusCode,
		Body:       NewMockResponseBody(body),
		Header:     make(fhttp.Header),
	}
}

// Requests returns the requests seen so far
func (m *MockHttpClient) Requests() []*fhttp.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*fhttp.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent request, or nil
func (m *MockHttpClient) LastRequest() *fhttp.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// Do implements the tls_client.HttpClient interface
func (m *MockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	fn := m.ResponseFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(req)
	}
	return m.Response, m.Err
}

func (m *MockHttpClient) GetCookies(u *url.URL) []*fhttp.Cookie { return nil }
func (m *MockHttpClient) SetCookies(u *url.URL, cookies []*fhttp.Cookie) {}
func (m *MockHttpClient) SetCookieJar(jar fhttp.CookieJar) {}
func (m *MockHttpClient) GetCookieJar() fhttp.CookieJar { return nil }
func (m *MockHttpClient) SetProxy(proxyUrl string) error { return nil }
func (m *MockHttpClient) GetProxy() string { return "" }
func (m *MockHttpClient) SetFollowRedirect(followRedirect bool) {}
func (m *MockHttpClient) GetFollowRedirect() bool { return false }
func (m *MockHttpClient) CloseIdleConnections() {}
func (m *MockHttpClient) GetBandwidthTracker() bandwidth.BandwidthTracker { return nil }
func (m *MockHttpClient) Get(url string) (*fhttp.Response, error) { return m.Response, m.Err }
func (m *MockHttpClient) Head(url string) (*fhttp.Response, error) { return m.Response, m.Err }
func (m *MockHttpClient) Post(url, contentType string, body io.Reader) (*fhttp.Response, error) {
	return m.Response, m.Err
}
