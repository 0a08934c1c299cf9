package history

import (
	"encoding/json"
	"fmt"
	"strings"

	apierrors "github.com/diogo/chatull/internal/errors"
)

// ExportFormat represents the format for exporting transcripts
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ParseExportFormat accepts "markdown", "md" or "json"
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md", "":
		return ExportFormatMarkdown, nil
	case "json":
		return ExportFormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (use markdown or json)", s)
	}
}

// Export renders the subject's transcript in the given format
func (s *Store) Export(subject string, format ExportFormat) ([]byte, error) {
	switch format {
	case ExportFormatJSON:
		return s.ExportJSON(subject)
	case ExportFormatMarkdown:
		md, err := s.ExportMarkdown(subject)
		return []byte(md), err
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// ExportMarkdown exports a transcript as Markdown
func (s *Store) ExportMarkdown(subject string) (string, error) {
	messages, ok, err := s.Load(subject)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: no transcript for %q", apierrors.ErrUnknownSubject, subject)
	}

	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(subject)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n\n---\n\n", len(messages)))

	for i, msg := range messages {
		role := "ChatULL"
		if msg.IsQuestion {
			role = "You"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		sb.WriteString("\n\n")
		sb.WriteString(msg.Text)
		sb.WriteString("\n")

		if i < len(messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String(), nil
}

type exportMessage struct {
	Role       string `json:"role"`
	Text       string `json:"text"`
	IsQuestion bool   `json:"is_question"`
}

type exportTranscript struct {
	Subject  string          `json:"subject"`
	Messages []exportMessage `json:"messages"`
}

// ExportJSON exports a transcript as indented JSON
func (s *Store) ExportJSON(subject string) ([]byte, error) {
	messages, ok, err := s.Load(subject)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: no transcript for %q", apierrors.ErrUnknownSubject, subject)
	}

	export := exportTranscript{
		Subject:  subject,
		Messages: make([]exportMessage, len(messages)),
	}
	for i, msg := range messages {
		export.Messages[i] = exportMessage{
			Role:       msg.Role(),
			Text:       msg.Text,
			IsQuestion: msg.IsQuestion,
		}
	}

	return json.MarshalIndent(export, "", "  ")
}

// SearchResult is a transcript matching a search query
type SearchResult struct {
	Subject      string
	MatchSnippet string // Snippet where the term was found
	MatchField   string // "subject" or "content"
	MatchIndex   int    // Message index if MatchField is "content", -1 for subject
}

// Search looks for query in subject names and, if searchContent is set, in
// message text. At most one result is returned per subject.
func (s *Store) Search(query string, searchContent bool) ([]SearchResult, error) {
	subjects, err := s.Subjects()
	if err != nil {
		return nil, err
	}

	queryLower := strings.ToLower(query)
	var results []SearchResult

	for _, subject := range subjects {
		if strings.Contains(strings.ToLower(subject), queryLower) {
			results = append(results, SearchResult{
				Subject:      subject,
				MatchSnippet: subject,
				MatchField:   "subject",
				MatchIndex:   -1,
			})
			continue
		}

		if !searchContent {
			continue
		}

		messages, _, err := s.Load(subject)
		if err != nil {
			return nil, err
		}
		for i, msg := range messages {
			if strings.Contains(strings.ToLower(msg.Text), queryLower) {
				results = append(results, SearchResult{
					Subject:      subject,
					MatchSnippet: extractSnippet(msg.Text, query, 100),
					MatchField:   "content",
					MatchIndex:   i,
				})
				break
			}
		}
	}

	return results, nil
}

// extractSnippet extracts up to maxLen runes around the first occurrence of
// query
func extractSnippet(content, query string, maxLen int) string {
	runes := []rune(content)
	lower := []rune(strings.ToLower(content))
	queryRunes := []rune(strings.ToLower(query))

	idx := runeIndex(lower, queryRunes)
	if idx == -1 || len(lower) != len(runes) {
		if len(runes) > maxLen {
			return string(runes[:maxLen]) + "..."
		}
		return content
	}

	half := maxLen / 2
	start := idx - half
	end := idx + len(queryRunes) + half

	if start < 0 {
		start = 0
		end = maxLen
	}
	if end > len(runes) {
		end = len(runes)
		start = end - maxLen
		if start < 0 {
			start = 0
		}
	}

	snippet := string(runes[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(runes) {
		snippet += "..."
	}
	return snippet
}

func runeIndex(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j := range needle {
			if haystack[i+j] != needle[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}
