// Package session stores the opaque session token used by the answer service.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/diogo/chatull/internal/config"
	apierrors "github.com/diogo/chatull/internal/errors"
)

// TokenEnv overrides the stored token when set
const TokenEnv = "CHATULL_SESSION_TOKEN"

// tokenFile is the on-disk shape of session.json
type tokenFile struct {
	SessionToken string `json:"session_token"`
}

// Controller supplies the session token. The token is read lazily from disk
// and cached; TokenEnv wins over the file.
type Controller struct {
	path string

	mu     sync.RWMutex
	token  string
	loaded bool
}

// New creates a controller backed by the token file at path
func New(path string) *Controller {
	return &Controller{path: path}
}

// Default creates a controller for ~/.chatull/session.json
func Default() (*Controller, error) {
	path, err := config.GetSessionPath()
	if err != nil {
		return nil, err
	}
	return New(path), nil
}

// Path returns the token file location
func (c *Controller) Path() string {
	return c.path
}

// Token returns the session token and whether one is available.
func (c *Controller) Token() (string, bool) {
	if v := strings.TrimSpace(os.Getenv(TokenEnv)); v != "" {
		return v, true
	}

	c.mu.RLock()
	if c.loaded {
		token := c.token
		c.mu.RUnlock()
		return token, token != ""
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		// An unreadable file is the same as no token: the caller redirects
		// to the key setup flow either way.
		c.token, _ = c.load()
		c.loaded = true
	}
	return c.token, c.token != ""
}

// Save validates and persists a new token
func (c *Controller) Save(token string) error {
	token = strings.TrimSpace(token)
	if err := Validate(token); err != nil {
		return err
	}

	data, err := json.MarshalIndent(tokenFile{SessionToken: token}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session token: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Owner read/write only: the token authenticates the user
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	c.mu.Lock()
	c.token = token
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Import reads a token from a file (JSON or plain text) and saves it
func (c *Controller) Import(sourcePath string) error {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("source file not found: %s", sourcePath)
		}
		return fmt.Errorf("could not read file: %w", err)
	}

	token, err := Parse(data)
	if err != nil {
		return err
	}
	return c.Save(token)
}

func (c *Controller) load() (string, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apierrors.NewSessionError("")
		}
		return "", fmt.Errorf("failed to read session file: %w", err)
	}
	return Parse(data)
}

// Parse extracts a token from {"session_token": "..."} or a bare string
func Parse(data []byte) (string, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return "", apierrors.NewSessionError("empty session token")
	}

	if strings.HasPrefix(trimmed, "{") {
		var tf tokenFile
		if err := json.Unmarshal([]byte(trimmed), &tf); err != nil {
			return "", apierrors.NewSessionError(fmt.Sprintf("invalid session file: %v", err))
		}
		token := strings.TrimSpace(tf.SessionToken)
		if err := Validate(token); err != nil {
			return "", err
		}
		return token, nil
	}

	if err := Validate(trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}

// Validate checks that token can be used as a URL path segment
func Validate(token string) error {
	if token == "" {
		return apierrors.NewSessionError("empty session token")
	}
	if strings.ContainsAny(token, "/?# \t\r\n") {
		return apierrors.NewSessionError("session token contains characters not allowed in a URL path segment")
	}
	return nil
}
