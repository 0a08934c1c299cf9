package subject

import (
	"fmt"
	"strconv"
	"strings"

	apierrors "github.com/diogo/chatull/internal/errors"
)

// Resolve converts a user-friendly reference to a subject name.
//
// Supported references:
//   - "1", "2", "3" - by menu position (1-based)
//   - exact name, compared case-insensitively
//   - "substring" - unique case-insensitive match (error if several match)
func Resolve(subjects []string, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty subject reference")
	}
	if len(subjects) == 0 {
		return "", fmt.Errorf("no subjects available")
	}

	if index, err := strconv.Atoi(ref); err == nil {
		if index < 1 || index > len(subjects) {
			return "", fmt.Errorf("index %d out of range (1-%d)", index, len(subjects))
		}
		return subjects[index-1], nil
	}

	for _, s := range subjects {
		if strings.EqualFold(s, ref) {
			return s, nil
		}
	}

	refLower := strings.ToLower(ref)
	var matches []string
	for _, s := range subjects {
		if strings.Contains(strings.ToLower(s), refLower) {
			matches = append(matches, s)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: no subject matching '%s'", apierrors.ErrUnknownSubject, ref)
	case 1:
		return matches[0], nil
	default:
		quoted := make([]string, len(matches))
		for i, m := range matches {
			quoted[i] = fmt.Sprintf("'%s'", m)
		}
		return "", fmt.Errorf("multiple subjects match '%s': %s. Be more specific",
			ref, strings.Join(quoted, ", "))
	}
}

// Resolve resolves ref against the controller's menu
func (c *Controller) Resolve(ref string) (string, error) {
	return Resolve(c.Subjects(), ref)
}
