package commands

import (
	"fmt"
	"sync"

	"github.com/diogo/chatull/internal/chat"
)

// navigator maps the routes the chat controller navigates to onto CLI flows.
// Navigate only records the route; Follow runs its flow once the TUI has
// released the terminal.
type navigator struct {
	mu      sync.Mutex
	pending string
	routes  map[string]func() error
}

var _ chat.Navigator = (*navigator)(nil)

func newNavigator(routes map[string]func() error) *navigator {
	return &navigator{routes: routes}
}

func (n *navigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = route
}

// Pending returns the last route navigated to and not yet followed
func (n *navigator) Pending() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pending
}

// Follow runs the flow for route and clears the pending route
func (n *navigator) Follow(route string) error {
	n.mu.Lock()
	handler, ok := n.routes[route]
	n.pending = ""
	n.mu.Unlock()

	if !ok {
		return fmt.Errorf("no command handles route %q", route)
	}
	return handler()
}
