package api

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"

	apierrors "github.com/diogo/chatull/internal/errors"
	"github.com/diogo/chatull/internal/models"
)

func newMockedClient(t *testing.T, mock *MockHttpClient) *Client {
	t.Helper()
	client, err := NewClient(WithHTTPClient(mock), WithBaseURL("https://chat.test"))
	if err != nil {
		t.Fatalf("NewClient() returned error: %v", err)
	}
	return client
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient() returned error: %v", err)
	}
	if client.BaseURL() != models.DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", client.BaseURL(), models.DefaultBaseURL)
	}
	if client.httpClient == nil {
		t.Error("a transport should be created by default")
	}
	if client.timeout != 0 {
		t.Errorf("default timeout = %v, want none", client.timeout)
	}
}

func TestNewClient_Options(t *testing.T) {
	mock := &MockHttpClient{}
	client, err := NewClient(
		WithHTTPClient(mock),
		WithBaseURL("http://localhost:8000"),
		WithTimeout(5*time.Second),
		WithLogger(nil),
	)
	if err != nil {
		t.Fatal(err)
	}
	if client.httpClient != mock {
		t.Error("WithHTTPClient should replace the transport")
	}
	if client.BaseURL() != "http://localhost:8000" {
		t.Errorf("BaseURL() = %q", client.BaseURL())
	}
	if client.timeout != 5*time.Second {
		t.Errorf("timeout = %v", client.timeout)
	}
	if client.logger == nil {
		t.Error("nil logger must keep the no-op default")
	}
}

func TestAnswer_Success(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"answer": "Un grafo es un par (V, E)."}`), 200)
	client := newMockedClient(t, mock)

	answer, err := client.Answer(context.Background(), AnswerRequest{
		Token:    "tok",
		Subject:  "Algoritmos",
		Question: "¿Qué es un grafo?",
	})
	if err != nil {
		t.Fatalf("Answer() returned error: %v", err)
	}
	if answer != "Un grafo es un par (V, E)." {
		t.Errorf("Answer() = %q", answer)
	}

	req := mock.LastRequest()
	if req == nil {
		t.Fatal("no request recorded")
	}
	if req.Method != fhttp.MethodGet {
		t.Errorf("method = %s, want GET", req.Method)
	}
	if req.URL.Path != "/get_answer/tok" {
		t.Errorf("path = %s", req.URL.Path)
	}
	if req.URL.RawQuery != "question=¿Qué%20es%20un%20grafo?&subject=Algoritmos" {
		t.Errorf("query = %s", req.URL.RawQuery)
	}
	if req.Header.Get("Accept") != "application/json" {
		t.Error("default headers should be set")
	}
}

func TestAnswer_TeacherSubject(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"answer": "Artículo 3."}`), 200)
	client := newMockedClient(t, mock)

	_, err := client.Answer(context.Background(), AnswerRequest{
		Token:    "tok",
		Subject:  models.TeacherSubject,
		Question: "plazo de matricula",
	})
	if err != nil {
		t.Fatal(err)
	}

	req := mock.LastRequest()
	if req.URL.Path != "/get_teacher_answer/tok" {
		t.Errorf("path = %s, want teacher endpoint", req.URL.Path)
	}
	if strings.Contains(req.URL.RawQuery, "subject=") {
		t.Errorf("teacher endpoint must not receive a subject: %s", req.URL.RawQuery)
	}
}

func TestAnswer_Failures(t *testing.T) {
	netErr := errors.New("connection refused")

	tests := []struct {
		name  string
		mock  *MockHttpClient
		check func(t *testing.T, err error)
	}{
		{
			name: "network error",
			mock: NewMockHttpClientWithError(netErr),
			check: func(t *testing.T, err error) {
				if !apierrors.IsNetworkError(err) {
					t.Errorf("expected network error, got %T", err)
				}
				if !errors.Is(err, netErr) {
					t.Error("cause should be wrapped")
				}
			},
		},
		{
			name: "non-json body",
			mock: NewMockHttpClient([]byte("<html>oops</html>"), 200),
			check: func(t *testing.T, err error) {
				if !apierrors.IsParseError(err) {
					t.Errorf("expected parse error, got %v", err)
				}
			},
		},
		{
			name: "missing answer",
			mock: NewMockHttpClient([]byte(`{"detail": "nope"}`), 200),
			check: func(t *testing.T, err error) {
				if !errors.Is(err, apierrors.ErrInvalidResponse) {
					t.Errorf("expected ErrInvalidResponse, got %v", err)
				}
			},
		},
		{
			name: "null answer",
			mock: NewMockHttpClient([]byte(`{"answer": null}`), 200),
			check: func(t *testing.T, err error) {
				if !apierrors.IsParseError(err) {
					t.Errorf("expected parse error, got %v", err)
				}
			},
		},
		{
			name: "server error",
			mock: NewMockHttpClient([]byte(`{"detail": "internal error"}`), 500),
			check: func(t *testing.T, err error) {
				if apierrors.GetHTTPStatus(err) != 500 {
					t.Errorf("status = %d, want 500", apierrors.GetHTTPStatus(err))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newMockedClient(t, tt.mock)
			answer, err := client.Answer(context.Background(), AnswerRequest{Token: "tok", Subject: "A", Question: "q"})
			if err == nil {
				t.Fatalf("expected error, got answer %q", answer)
			}
			tt.check(t, err)
		})
	}
}

func TestAnswer_ErrorStatusWithAnswer(t *testing.T) {
	for _, status := range []int{404, 500} {
		client := newMockedClient(t, NewMockHttpClient([]byte(`{"answer": "Token no válido"}`), status))

		answer, err := client.Answer(context.Background(), AnswerRequest{Token: "tok", Subject: "A", Question: "q"})
		if err != nil {
			t.Fatalf("status %d: unexpected error: %v", status, err)
		}
		if answer != "Token no válido" {
			t.Errorf("status %d: answer = %q", status, answer)
		}
	}
}

func TestAnswer_NoToken(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"answer": "x"}`), 200)
	client := newMockedClient(t, mock)

	_, err := client.Answer(context.Background(), AnswerRequest{Subject: "A", Question: "q"})
	if !errors.Is(err, apierrors.ErrNoSession) {
		t.Errorf("error = %v, want ErrNoSession", err)
	}
	if len(mock.Requests()) != 0 {
		t.Error("no request should be sent without a token")
	}
}

func TestAnswer_PassesContext(t *testing.T) {
	mock := &MockHttpClient{
		ResponseFunc: func(req *fhttp.Request) (*fhttp.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		},
	}
	client, err := NewClient(WithHTTPClient(mock), WithTimeout(10*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.Answer(context.Background(), AnswerRequest{Token: "tok", Subject: "A", Question: "q"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want deadline exceeded", err)
	}
}

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		body    string
		want    string
		wantErr bool
	}{
		{`{"answer": "hola"}`, "hola", false},
		{`{"answer": "", "extra": 1}`, "", false},
		{`{"answer": 42}`, "42", false},
		{`{}`, "", true},
		{`[]`, "", true},
		{``, "", true},
	}

	for _, tt := range tests {
		got, err := ParseAnswer([]byte(tt.body))
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAnswer(%q) error = %v, wantErr %v", tt.body, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAnswer(%q) = %q, want %q", tt.body, got, tt.want)
		}
	}
}
