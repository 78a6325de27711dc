// Package aspen drives a process simulator through its tree-structured
// automation interface. Every input and result lives at a backslash-separated
// path such as \Data\Streams\FEED\Input\Pressure.
package aspen

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNodeNotFound       = errors.New("aspen: node not found")
	ErrReadOnly           = errors.New("aspen: node is read-only")
	ErrNoValue            = errors.New("aspen: node has no value")
	ErrBackendUnavailable = errors.New("aspen: simulator backend unavailable")
	ErrClosed             = errors.New("aspen: application closed")
	ErrSessionBusy        = errors.New("aspen: another automation session holds the lock")
)

// Node is one element of the simulator's data tree.
type Node interface {
	Name() string
	Path() string
	Value() (interface{}, error)
	SetValue(v interface{}) error
	Unit() string
	SetUnit(unit string) error
	CompStatus() CompStatus
	Children() []Node
	HasChildren() bool
	// Get resolves a path relative to this node.
	Get(rel string) (Node, error)
	// Remove deletes the named child and everything below it.
	Remove(name string) error
}

// App is an automation session on one simulation.
type App interface {
	// Node resolves an absolute path.
	Node(path string) (Node, error)
	// Reinitialize discards results so the next Run starts from inputs.
	Reinitialize() error
	Run(ctx context.Context) error
	// Components returns the component out-names in specification order.
	Components() ([]string, error)
	Close() error
}

// SplitPath splits a node path into segments. Doubled separators and a
// missing leading separator are tolerated.
func SplitPath(p string) []string {
	raw := strings.Split(p, `\`)
	segs := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// JoinPath builds an absolute node path.
func JoinPath(segs ...string) string {
	var parts []string
	for _, s := range segs {
		parts = append(parts, SplitPath(s)...)
	}
	return `\` + strings.Join(parts, `\`)
}

// Set resolves path and assigns v.
func Set(app App, path string, v interface{}) error {
	n, err := app.Node(path)
	if err != nil {
		return err
	}
	if err := n.SetValue(v); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

// Clear removes every child of the node at path. A missing node is already
// clear.
func Clear(app App, path string) error {
	n, err := app.Node(path)
	if errors.Is(err, ErrNodeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, c := range n.Children() {
		if err := n.Remove(c.Name()); err != nil {
			return fmt.Errorf("clear %s: %w", path, err)
		}
	}
	return nil
}

// Float reads a numeric node value.
func Float(n Node) (float64, error) {
	v, err := n.Value()
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not numeric", n.Path(), x)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("%w: %s", ErrNoValue, n.Path())
	default:
		return 0, fmt.Errorf("%s: unexpected value type %T", n.Path(), v)
	}
}

// String reads a node value as text. Missing values read as "".
func String(n Node) string {
	v, err := n.Value()
	if err != nil || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
