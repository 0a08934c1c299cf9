package api

import (
	"testing"

	"github.com/diogo/chatull/internal/models"
)

func TestEndpointFor(t *testing.T) {
	if got := EndpointFor(models.TeacherSubject); got != models.PathTeacherAnswer {
		t.Errorf("EndpointFor(teacher) = %q", got)
	}
	for _, s := range []string{"", "Física", "reglamentacion y normativa"} {
		if got := EndpointFor(s); got != models.PathAnswer {
			t.Errorf("EndpointFor(%q) = %q, want %q", s, got, models.PathAnswer)
		}
	}
}

func TestEncodeQuestion(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hola", "hola"},
		{"qué es un grafo", "qué%20es%20un%20grafo"},
		{"  ", "%20%20"},
		{"a&b=c?", "a&b=c?"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := EncodeQuestion(tt.in); got != tt.want {
			t.Errorf("EncodeQuestion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildAnswerURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		req  AnswerRequest
		want string
	}{
		{
			name: "generic",
			base: "https://chatull.onrender.com",
			req:  AnswerRequest{Token: "abc", Subject: "Sistemas Operativos", Question: "qué es un proceso"},
			want: "https://chatull.onrender.com/get_answer/abc?question=qué%20es%20un%20proceso&subject=Sistemas%20Operativos",
		},
		{
			name: "teacher",
			base: "https://chatull.onrender.com/",
			req:  AnswerRequest{Token: "abc", Subject: models.TeacherSubject, Question: "convocatorias"},
			want: "https://chatull.onrender.com/get_teacher_answer/abc?question=convocatorias",
		},
		{
			name: "empty question is sent verbatim",
			base: "http://localhost:8000",
			req:  AnswerRequest{Token: "t", Subject: "A", Question: ""},
			want: "http://localhost:8000/get_answer/t?question=&subject=A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildAnswerURL(tt.base, tt.req); got != tt.want {
				t.Errorf("BuildAnswerURL() =\n  %s\nwant\n  %s", got, tt.want)
			}
		})
	}
}

func TestRedactToken(t *testing.T) {
	u := BuildAnswerURL("https://x.test", AnswerRequest{Token: "secret", Subject: "A", Question: "q"})
	got := RedactToken(u, "secret")
	if got != "https://x.test/get_answer/<redacted>?question=q&subject=A" {
		t.Errorf("RedactToken() = %s", got)
	}
	if RedactToken(u, "") != u {
		t.Error("empty token should leave the URL unchanged")
	}
}
