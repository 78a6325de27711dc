// Package explore inspects and edits the simulator's data tree.
package explore

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"apexvle/internal/aspen"
	"apexvle/internal/logging"
)

// MaxListedChildren bounds the children reported per node by Explore.
const MaxListedChildren = 5

// DefaultPaths are the sections inspected when no paths are given.
var DefaultPaths = []string{
	`\Data\Components`,
	`\Data\Components\Specifications`,
	`\Data\Properties`,
	`\Data\Properties\Specifications`,
	`\Data\Properties\Parameters`,
}

// Flatten lists every descendant of n depth first as
// "prefix.name - comp status N".
func Flatten(n aspen.Node, prefix string) []string {
	var rows []string
	flatten(n, prefix, &rows)
	return rows
}

func flatten(n aspen.Node, prefix string, rows *[]string) {
	for _, child := range n.Children() {
		if child == nil {
			continue
		}
		name := child.Name()
		*rows = append(*rows, fmt.Sprintf("%s.%s - comp status %d", prefix, name, uint32(child.CompStatus())))
		if child.HasChildren() {
			flatten(child, prefix+"."+name, rows)
		}
	}
}

// Report describes one node for Explore.
type Report struct {
	Path        string
	Err         error
	Name        string
	HasChildren bool
	Status      aspen.CompStatus
	// Children holds at most MaxListedChildren names; More counts the rest.
	Children []string
	More     int
}

// Explore reports on each path. A missing node is reported, not returned as
// an error.
func Explore(app aspen.App, paths []string) []Report {
	if len(paths) == 0 {
		paths = DefaultPaths
	}
	reports := make([]Report, 0, len(paths))
	for _, p := range paths {
		r := Report{Path: p}
		n, err := app.Node(p)
		if err != nil {
			r.Err = err
			logging.SimDebug("explore %s: %v", p, err)
			reports = append(reports, r)
			continue
		}
		r.Name = n.Name()
		r.HasChildren = n.HasChildren()
		r.Status = n.CompStatus()
		children := n.Children()
		for i, c := range children {
			if i == MaxListedChildren {
				r.More = len(children) - MaxListedChildren
				break
			}
			r.Children = append(r.Children, c.Name())
		}
		reports = append(reports, r)
	}
	return reports
}

// AddComponent appends id to the OUTNAME list unless an entry already
// matches it case-insensitively. It returns the index used, or the existing
// index with added false.
func AddComponent(app aspen.App, id string) (index int, added bool, err error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return 0, false, errors.New("component id is empty")
	}
	list, err := app.Node(aspen.PathComponentsInput + `\OUTNAME`)
	if err != nil {
		return 0, false, err
	}
	next := 0
	for _, el := range list.Children() {
		i, err := strconv.Atoi(el.Name())
		if err != nil {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(aspen.String(el)), id) {
			logging.Sim("Component %s already exists at %d", id, i)
			return i, false, nil
		}
		if i+1 > next {
			next = i + 1
		}
	}
	el, err := list.Get(strconv.Itoa(next))
	if err != nil {
		return 0, false, err
	}
	if err := el.SetValue(id); err != nil {
		return 0, false, fmt.Errorf("add component %s: %w", id, err)
	}
	logging.Sim("Component %s added at position %d", id, next)
	return next, true, nil
}

// ParameterSet is one parameter set found under \Data\Properties\Parameters.
type ParameterSet struct {
	Kind string // "pure" or "binary"
	Name string
	// Wilson marks binary sets that look like Wilson interaction parameters.
	Wilson bool
	Size   int
}

// Parameters lists the pure-component and binary parameter sets.
func Parameters(app aspen.App) ([]ParameterSet, error) {
	var out []ParameterSet
	for _, sec := range []struct{ kind, path string }{
		{"pure", aspen.PathPureParams},
		{"binary", aspen.PathBinaryParams},
	} {
		n, err := app.Node(sec.path)
		if err != nil {
			if errors.Is(err, aspen.ErrNodeNotFound) {
				continue
			}
			return nil, err
		}
		for _, c := range n.Children() {
			ps := ParameterSet{Kind: sec.kind, Name: c.Name(), Size: len(c.Children())}
			if sec.kind == "binary" && strings.Contains(strings.ToUpper(c.Name()), "WIL") {
				ps.Wilson = true
			}
			out = append(out, ps)
		}
	}
	return out, nil
}
