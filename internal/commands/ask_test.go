package commands

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apierrors "github.com/diogo/chatull/internal/errors"
	"github.com/diogo/chatull/internal/models"
)

func TestAsk_PrintsAndStoresAnswer(t *testing.T) {
	home := testEnv(t, "tok")
	answerer := &mockAnswerer{answer: "Un proceso es un programa en ejecución"}
	deps := &Dependencies{TUI: &mockTUI{}, Answerer: answerer}

	res := execute(t, deps, "", "ask", "-s", "Sistemas", "¿Qué es un proceso?")
	if res.err != nil {
		t.Fatalf("ask returned error: %v\nstderr: %s", res.err, res.stderr)
	}

	if strings.TrimSpace(res.stdout) != "Un proceso es un programa en ejecución" {
		t.Errorf("stdout = %q", res.stdout)
	}

	if len(answerer.got) != 1 {
		t.Fatalf("answerer called %d times", len(answerer.got))
	}
	req := answerer.got[0]
	if req.Subject != "Sistemas Operativos" || req.Question != "¿Qué es un proceso?" || req.Token != "tok" {
		t.Errorf("request = %+v", req)
	}

	stored, ok, err := openStore(t, home).Load("Sistemas Operativos")
	if err != nil || !ok {
		t.Fatalf("Load() = %v, %v", ok, err)
	}
	want := []models.Message{
		models.NewAnswer(models.Greeting),
		models.NewQuestion("¿Qué es un proceso?"),
		models.NewAnswer("Un proceso es un programa en ejecución"),
	}
	if len(stored) != len(want) {
		t.Fatalf("stored %d messages, want %d: %+v", len(stored), len(want), stored)
	}
	for i := range want {
		if stored[i] != want[i] {
			t.Errorf("stored[%d] = %+v, want %+v", i, stored[i], want[i])
		}
	}
}

func TestAsk_RootPositional(t *testing.T) {
	testEnv(t, "tok")
	answerer := &mockAnswerer{answer: "ok"}
	deps := &Dependencies{TUI: &mockTUI{}, Answerer: answerer}

	res := execute(t, deps, "", "-s", "5", "¿Plazos de matrícula?")
	if res.err != nil {
		t.Fatalf("root ask returned error: %v", res.err)
	}
	if len(answerer.got) != 1 || answerer.got[0].Subject != models.TeacherSubject {
		t.Errorf("requests = %+v, want one for %q", answerer.got, models.TeacherSubject)
	}
}

func TestAsk_SendsQuestionVerbatim(t *testing.T) {
	home := testEnv(t, "tok")
	answerer := &mockAnswerer{answer: "ok"}
	deps := &Dependencies{TUI: &mockTUI{}, Answerer: answerer}

	question := "  ¿Qué es un hilo?\n"
	res := execute(t, deps, "", "ask", "-s", "Sistemas", question)
	if res.err != nil {
		t.Fatalf("ask returned error: %v", res.err)
	}

	if len(answerer.got) != 1 || answerer.got[0].Question != question {
		t.Fatalf("requests = %+v, want question %q", answerer.got, question)
	}

	stored, _, err := openStore(t, home).Load("Sistemas Operativos")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) < 2 || stored[1] != models.NewQuestion(question) {
		t.Errorf("stored = %+v, want the untrimmed question", stored)
	}
}

func TestAsk_SecondQuestionHasNoSecondGreeting(t *testing.T) {
	home := testEnv(t, "tok")
	deps := &Dependencies{TUI: &mockTUI{}, Answerer: &mockAnswerer{answer: "r"}}

	for _, q := range []string{"uno", "dos"} {
		if res := execute(t, deps, "", "ask", "-s", "Inteligencia", q); res.err != nil {
			t.Fatalf("ask %q returned error: %v", q, res.err)
		}
	}

	stored, _, err := openStore(t, home).Load("Inteligencia Artificial")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 5 {
		t.Errorf("stored %d messages, want greeting plus two exchanges", len(stored))
	}
}

func TestAsk_FailureStoresErrorAnswer(t *testing.T) {
	home := testEnv(t, "tok")
	deps := &Dependencies{TUI: &mockTUI{}, Answerer: &mockAnswerer{err: errors.New("timeout")}}

	res := execute(t, deps, "", "ask", "-s", "Algoritmos", "hola")
	if !errors.Is(res.err, errNoAnswer) {
		t.Fatalf("err = %v, want errNoAnswer", res.err)
	}

	stored, _, err := openStore(t, home).Load("Algoritmos y Estructuras de Datos")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 3 || stored[2].Text != models.ErrorAnswer {
		t.Errorf("stored = %+v, want the error answer last", stored)
	}
}

func TestAsk_NoSession(t *testing.T) {
	testEnv(t, "")
	answerer := &mockAnswerer{answer: "r"}
	deps := &Dependencies{TUI: &mockTUI{}, Answerer: answerer}

	res := execute(t, deps, "", "ask", "-s", "Algoritmos", "hola")
	if !apierrors.IsSessionError(res.err) {
		t.Fatalf("err = %v, want a session error", res.err)
	}
	if !strings.Contains(formatErrorMessage(res.err, "Error"), "set-api-key") {
		t.Error("the printed error should hint at set-api-key")
	}
	if len(answerer.got) != 0 {
		t.Error("no request should be sent without a key")
	}
}

func TestAsk_Validation(t *testing.T) {
	testEnv(t, "tok")
	deps := &Dependencies{TUI: &mockTUI{}, Answerer: &mockAnswerer{answer: "r"}}

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"empty question", []string{"ask", "-s", "1", "   "}, "empty"},
		{"no subject", []string{"ask", "hola"}, "subject is required"},
		{"unknown subject", []string{"ask", "-s", "Cocina", "hola"}, "no subject matching"},
		{"ambiguous subject", []string{"ask", "-s", "Algoritm", "hola"}, "multiple subjects"},
		{"bad index", []string{"ask", "-s", "9", "hola"}, "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, deps, "", tt.args...)
			if res.err == nil || !strings.Contains(res.err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", res.err, tt.wantErr)
			}
		})
	}
}

func TestAsk_OutputFile(t *testing.T) {
	home := testEnv(t, "tok")
	deps := &Dependencies{TUI: &mockTUI{}, Answerer: &mockAnswerer{answer: "guardada"}}
	target := filepath.Join(home, "answer.md")

	res := execute(t, deps, "", "ask", "-s", "Sistemas", "-o", target, "q")
	if res.err != nil {
		t.Fatalf("ask returned error: %v", res.err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "guardada" {
		t.Errorf("file content = %q", data)
	}
	if res.stdout != "" {
		t.Errorf("stdout should be empty when writing a file, got %q", res.stdout)
	}
}

func TestAsk_NormalizesLineBreaks(t *testing.T) {
	testEnv(t, "tok")
	deps := &Dependencies{TUI: &mockTUI{}, Answerer: &mockAnswerer{answer: "uno<br>dos"}}

	res := execute(t, deps, "", "ask", "-s", "Sistemas", "q")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if res.stdout != "uno\ndos\n" {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestLineView(t *testing.T) {
	v := &lineView{input: "pregunta"}
	if v.InputText() != "pregunta" {
		t.Errorf("InputText() = %q", v.InputText())
	}

	// No spinner: toggling the input is a no-op
	v.SetInputEnabled(false)
	v.SetInputEnabled(true)

	v.ClearInput()
	if v.InputText() != "" {
		t.Error("ClearInput should empty the question")
	}
}
