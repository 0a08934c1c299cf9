// Package subject holds the subject menu and the currently selected subject.
package subject

import (
	"fmt"
	"sync"

	apierrors "github.com/diogo/chatull/internal/errors"
)

// Controller is the subject menu. It notifies listeners every time a subject
// is selected, including when the same subject is picked again.
type Controller struct {
	mu        sync.RWMutex
	subjects  []string
	selected  string
	listeners []func(string)
}

// New creates a controller over the given menu entries. Duplicates and empty
// names are dropped; order is preserved.
func New(subjects []string) *Controller {
	seen := make(map[string]bool, len(subjects))
	list := make([]string, 0, len(subjects))
	for _, s := range subjects {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		list = append(list, s)
	}
	return &Controller{subjects: list}
}

// Subjects returns the menu entries in display order
func (c *Controller) Subjects() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.subjects))
	copy(out, c.subjects)
	return out
}

// Selected returns the selected subject, or "" when nothing is selected
func (c *Controller) Selected() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected
}

// Has reports whether name is a menu entry
func (c *Controller) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexOf(name) >= 0
}

// Add appends a subject to the menu if it is not already there
func (c *Controller) Add(name string) {
	if name == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexOf(name) < 0 {
		c.subjects = append(c.subjects, name)
	}
}

// Select makes name the selected subject and notifies listeners.
// Listeners run synchronously, after the lock is released.
func (c *Controller) Select(name string) error {
	c.mu.Lock()
	if c.indexOf(name) < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: %q", apierrors.ErrUnknownSubject, name)
	}
	c.selected = name
	listeners := make([]func(string), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(name)
	}
	return nil
}

// OnChange registers fn to be called with the new subject after each Select
func (c *Controller) OnChange(fn func(string)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Controller) indexOf(name string) int {
	for i, s := range c.subjects {
		if s == name {
			return i
		}
	}
	return -1
}
