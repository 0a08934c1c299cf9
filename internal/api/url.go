package api

import (
	"strings"

	"github.com/diogo/chatull/internal/models"
)

// EndpointFor returns the path of the endpoint serving subject
func EndpointFor(subject string) string {
	if subject == models.TeacherSubject {
		return models.PathTeacherAnswer
	}
	return models.PathAnswer
}

// EncodeQuestion replaces spaces with %20. No other character is escaped;
// the service decodes exactly this form.
func EncodeQuestion(q string) string {
	return strings.ReplaceAll(q, " ", "%20")
}

// BuildAnswerURL builds the GET URL for req:
//
//	{base}/get_teacher_answer/{token}?question={q}            (teacher subject)
//	{base}/get_answer/{token}?question={q}&subject={s}        (any other)
func BuildAnswerURL(baseURL string, req AnswerRequest) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimRight(baseURL, "/"))
	sb.WriteString("/")
	sb.WriteString(EndpointFor(req.Subject))
	sb.WriteString("/")
	sb.WriteString(req.Token)
	sb.WriteString("?question=")
	sb.WriteString(EncodeQuestion(req.Question))
	if req.Subject != models.TeacherSubject {
		sb.WriteString("&subject=")
		sb.WriteString(EncodeQuestion(req.Subject))
	}
	return sb.String()
}

// RedactToken hides the session token in a URL before it is logged
func RedactToken(rawURL, token string) string {
	if token == "" {
		return rawURL
	}
	return strings.ReplaceAll(rawURL, "/"+token+"?", "/<redacted>?")
}
