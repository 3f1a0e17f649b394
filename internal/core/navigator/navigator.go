// Package navigator keeps the category browsing history of a storefront
// session.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/niksmo/cloudshop/internal/core/domain"
	"github.com/niksmo/cloudshop/internal/core/port"
)

// ErrStale is returned by a navigation whose response arrived after a newer
// navigation had started. Its children were discarded.
var ErrStale = errors.New("superseded by a newer navigation")

// A State is a snapshot of the navigation. History is a stack, the last
// entry is the current category.
type State struct {
	History  []domain.Category
	Children []domain.Category
}

// Current returns the top of the history, ok is false at the root.
func (s State) Current() (c domain.Category, ok bool) {
	if len(s.History) == 0 {
		return domain.Category{}, false
	}
	return s.History[len(s.History)-1], true
}

func (s State) AtRoot() bool {
	return len(s.History) == 0
}

// Child returns the loaded child category with the given id.
func (s State) Child(id string) (domain.Category, bool) {
	for _, c := range s.Children {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Category{}, false
}

func (s State) clone() State {
	return State{
		History:  slices.Clone(s.History),
		Children: slices.Clone(s.Children),
	}
}

// A Navigator applies navigations to its state. History changes apply at once,
// children apply only for the latest navigation: responses of superseded
// requests are dropped.
type Navigator struct {
	categories port.Categories

	mu    sync.Mutex
	state State
	gen   uint64
}

func New(categories port.Categories) *Navigator {
	return &Navigator{categories: categories}
}

func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.clone()
}

// Root clears the history and loads the root categories.
func (n *Navigator) Root(ctx context.Context) (State, error) {
	const op = "Navigator.Root"
	return n.navigate(ctx, op, func(State) State {
		return State{}
	})
}

// Descend pushes c on the history and loads its children.
func (n *Navigator) Descend(ctx context.Context, c domain.Category) (State, error) {
	const op = "Navigator.Descend"
	return n.navigate(ctx, op, func(s State) State {
		return State{History: append(slices.Clone(s.History), c)}
	})
}

// Ascend pops one level. The new top becomes current and its children are
// loaded; popping the last level returns to the root.
func (n *Navigator) Ascend(ctx context.Context) (State, error) {
	const op = "Navigator.Ascend"
	return n.navigate(ctx, op, func(s State) State {
		if len(s.History) <= 1 {
			return State{}
		}
		return State{History: slices.Clone(s.History[:len(s.History)-1])}
	})
}

func (n *Navigator) navigate(
	ctx context.Context, op string, transition func(State) State,
) (State, error) {
	log := slog.With("op", op)

	n.mu.Lock()
	next := transition(n.state)
	n.state = next
	n.gen++
	gen := n.gen
	n.mu.Unlock()

	parentID := ""
	if c, ok := next.Current(); ok {
		parentID = c.ID
	}

	children, err := n.categories.ListCategories(ctx, parentID)

	n.mu.Lock()
	defer n.mu.Unlock()

	if gen != n.gen {
		log.Debug("dropped stale categories", "parentID", parentID)
		return n.state.clone(), fmt.Errorf("%s: %w", op, ErrStale)
	}
	if err != nil {
		n.state.Children = nil
		return n.state.clone(), fmt.Errorf("%s: %w", op, err)
	}
	n.state.Children = children
	return n.state.clone(), nil
}
