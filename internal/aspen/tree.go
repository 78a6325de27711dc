package aspen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

var defaultUnits = map[string]string{
	"Temperature": UnitKelvin,
	"Pressure":    UnitBar,
	"Mole Flow":   "kmol/hr",
}

// tree is the in-memory data tree behind the offline backend.
type tree struct {
	mu   sync.RWMutex
	root *memNode
}

type memNode struct {
	t        *tree
	name     string
	segs     []string
	parent   *memNode
	children []*memNode
	index    map[string]*memNode
	value    interface{}
	hasValue bool
	unit     string
	status   CompStatus
	readOnly bool
}

func newTree() *tree {
	t := &tree{}
	t.root = &memNode{t: t, index: map[string]*memNode{}}
	return t
}

// writable reports whether a missing node at segs may be created on demand:
// input forms under \Data accept new entries, results do not.
func writable(segs []string) bool {
	if len(segs) == 0 || segs[0] != "Data" {
		return false
	}
	for _, s := range segs {
		if s == "Input" {
			return true
		}
	}
	return false
}

// resolve walks segs from the root. With create, missing nodes are added.
// Callers hold t.mu.
func (t *tree) resolve(segs []string, create bool) (*memNode, error) {
	n := t.root
	for i, s := range segs {
		child, ok := n.index[s]
		if !ok {
			if !create {
				return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, JoinPath(segs[:i+1]...))
			}
			child = n.addChild(s)
		}
		n = child
	}
	return n, nil
}

func (n *memNode) addChild(name string) *memNode {
	segs := make([]string, len(n.segs)+1)
	copy(segs, n.segs)
	segs[len(n.segs)] = name
	child := &memNode{
		t:      n.t,
		name:   name,
		segs:   segs,
		parent: n,
		index:  map[string]*memNode{},
		unit:   defaultUnits[name],
	}
	n.children = append(n.children, child)
	n.index[name] = child
	return child
}

func (n *memNode) removeChildren() {
	n.children = nil
	n.index = map[string]*memNode{}
}

func (n *memNode) removeChild(name string) {
	delete(n.index, name)
	for i, c := range n.children {
		if c.name == name {
			n.children = append(n.children[:i:i], n.children[i+1:]...)
			return
		}
	}
}

// ensure creates segs (relative to the root) regardless of the writable rule.
func (t *tree) ensure(path string) *memNode {
	n, _ := t.resolve(SplitPath(path), true)
	return n
}

func (n *memNode) Name() string { return n.name }
func (n *memNode) Path() string { return JoinPath(n.segs...) }

func (n *memNode) Value() (interface{}, error) {
	n.t.mu.RLock()
	defer n.t.mu.RUnlock()
	if !n.hasValue {
		return nil, fmt.Errorf("%w: %s", ErrNoValue, n.Path())
	}
	return n.value, nil
}

func (n *memNode) SetValue(v interface{}) error {
	n.t.mu.Lock()
	defer n.t.mu.Unlock()
	if n.readOnly {
		return fmt.Errorf("%w: %s", ErrReadOnly, n.Path())
	}
	v, err := normalizeValue(v)
	if err != nil {
		return fmt.Errorf("%s: %w", n.Path(), err)
	}
	n.value = v
	n.hasValue = v != nil
	n.status = n.status&^StatusInputIncomplete | StatusInputComplete
	return nil
}

func normalizeValue(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case float32:
		return float64(x), nil
	case float64, string, bool, nil:
		return v, nil
	}
	return nil, fmt.Errorf("unsupported value type %T", v)
}

func (n *memNode) Unit() string {
	n.t.mu.RLock()
	defer n.t.mu.RUnlock()
	return n.unit
}

func (n *memNode) SetUnit(unit string) error {
	n.t.mu.Lock()
	defer n.t.mu.Unlock()
	if n.readOnly {
		return fmt.Errorf("%w: %s", ErrReadOnly, n.Path())
	}
	n.unit = unit
	return nil
}

func (n *memNode) CompStatus() CompStatus {
	n.t.mu.RLock()
	defer n.t.mu.RUnlock()
	return n.status
}

func (n *memNode) Children() []Node {
	n.t.mu.RLock()
	defer n.t.mu.RUnlock()
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *memNode) HasChildren() bool {
	n.t.mu.RLock()
	defer n.t.mu.RUnlock()
	return len(n.children) > 0
}

func (n *memNode) Get(rel string) (Node, error) {
	full := append(append([]string{}, n.segs...), SplitPath(rel)...)
	n.t.mu.Lock()
	defer n.t.mu.Unlock()
	m, err := n.t.resolve(full, writable(full))
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Remove deletes an input entry. Seeded and result nodes cannot be removed.
func (n *memNode) Remove(name string) error {
	n.t.mu.Lock()
	defer n.t.mu.Unlock()
	c, ok := n.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, JoinPath(append(append([]string{}, n.segs...), name)...))
	}
	if n.readOnly || c.readOnly || !writable(c.segs) {
		return fmt.Errorf("%w: %s", ErrReadOnly, c.Path())
	}
	n.removeChild(name)
	return nil
}

// indexedChildren returns children whose names are integers, in numeric order.
func (n *memNode) indexedChildren() []*memNode {
	var out []*memNode
	for _, c := range n.children {
		if _, err := strconv.Atoi(c.name); err == nil {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := strconv.Atoi(out[i].name)
		b, _ := strconv.Atoi(out[j].name)
		return a < b
	})
	return out
}

func (n *memNode) stringValue() string {
	if !n.hasValue || n.value == nil {
		return ""
	}
	if s, ok := n.value.(string); ok {
		return strings.TrimSpace(s)
	}
	return fmt.Sprint(n.value)
}

func (n *memNode) floatValue() (float64, bool) {
	if !n.hasValue {
		return 0, false
	}
	switch x := n.value.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

// lookup resolves without creating; callers hold t.mu.
func (t *tree) lookup(path string) *memNode {
	n, err := t.resolve(SplitPath(path), false)
	if err != nil {
		return nil
	}
	return n
}

// walk visits every node depth first; callers hold t.mu.
func (n *memNode) walk(fn func(*memNode)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}
