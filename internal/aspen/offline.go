package aspen

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"apexvle/internal/logging"

	"gopkg.in/yaml.v3"
)

// Well-known paths in the simulation tree.
const (
	PathComponentsInput = `\Data\Components\Specifications\Input`
	PathPropertiesInput = `\Data\Properties\Specifications\Input`
	PathPropertyMethods = `\Data\Properties\Property Methods`
	PathPureParams      = `\Data\Properties\Parameters\Pure Components`
	PathBinaryParams    = `\Data\Properties\Parameters\Binary Interaction`
	PathBlocks          = `\Data\Blocks`
	PathStreams         = `\Data\Streams`
	PathResults         = `\Data\Results`
	PathResultBlocks    = `\Data\Results\Blocks`
)

// Property methods the offline backend can evaluate.
const (
	MethodWilsonHOC = "WILS-HOC"
	MethodIdeal     = "IDEAL"
)

// BlockFlash2 is the two-outlet flash block type.
const BlockFlash2 = "FLASH2"

var ErrNoFlashBlock = errors.New("aspen: no FLASH2 block with a connected feed")

// Offline is an in-memory simulation. It keeps the same tree layout as the
// vendor application and evaluates FLASH2 blocks with placeholder bubble-point
// arithmetic.
type Offline struct {
	t      *tree
	closed bool
}

// NewOffline returns an empty simulation with the standard input sections.
func NewOffline() *Offline {
	o := &Offline{t: newTree()}
	for _, p := range []string{
		PathComponentsInput + `\CASN`,
		PathComponentsInput + `\OUTNAME`,
		PathPropertiesInput,
		PathPropertyMethods,
		PathPureParams,
		PathBinaryParams,
		PathBlocks,
		PathStreams,
		PathResults,
	} {
		o.t.ensure(p)
	}
	o.seedParameters()
	return o
}

// seedParameters lists the placeholder parameter sets under the Parameters
// section so tree exploration finds them.
func (o *Offline) seedParameters() {
	for _, s := range standIns {
		base := JoinPath(PathPureParams, "PLXANT-1", s.Name)
		for i, v := range []float64{s.Antoine.A, s.Antoine.B, s.Antoine.C} {
			n := o.t.ensure(JoinPath(base, fmt.Sprint(i+1)))
			n.value, n.hasValue, n.readOnly = v, true, true
		}
	}
	n := o.t.ensure(JoinPath(PathBinaryParams, "WILSON-1"))
	n.readOnly = true
	n = o.t.ensure(JoinPath(PathBinaryParams, "HOCETA-1"))
	n.readOnly = true
}

func (o *Offline) Node(path string) (Node, error) {
	segs := SplitPath(path)
	o.t.mu.Lock()
	defer o.t.mu.Unlock()
	if o.closed {
		return nil, ErrClosed
	}
	n, err := o.t.resolve(segs, writable(segs))
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Reinitialize clears every result so the next Run recomputes from inputs.
func (o *Offline) Reinitialize() error {
	o.t.mu.Lock()
	defer o.t.mu.Unlock()
	if o.closed {
		return ErrClosed
	}
	if res := o.t.lookup(PathResults); res != nil {
		res.removeChildren()
		res.status = 0
	}
	o.t.lookup(`\Data`).walk(func(n *memNode) {
		n.status &^= StatusResultsAvailable | StatusResultsInconsistent | StatusErrors | StatusWarnings
	})
	return nil
}

// Components returns the OUTNAME entries in index order.
func (o *Offline) Components() ([]string, error) {
	o.t.mu.RLock()
	defer o.t.mu.RUnlock()
	if o.closed {
		return nil, ErrClosed
	}
	var out []string
	for _, c := range o.components() {
		out = append(out, c.name)
	}
	return out, nil
}

type component struct {
	cas  string
	name string
}

// components pairs CASN and OUTNAME entries by index; callers hold t.mu.
func (o *Offline) components() []component {
	var out []component
	names := o.t.lookup(PathComponentsInput + `\OUTNAME`)
	cas := o.t.lookup(PathComponentsInput + `\CASN`)
	if names == nil {
		return nil
	}
	for _, n := range names.indexedChildren() {
		name := n.stringValue()
		if name == "" {
			continue
		}
		c := component{name: name}
		if cas != nil {
			if cn, ok := cas.index[n.name]; ok {
				c.cas = cn.stringValue()
			}
		}
		out = append(out, c)
	}
	return out
}

// method resolves the active property method; callers hold t.mu.
func (o *Offline) method() (string, error) {
	setNode := o.t.lookup(PathPropertiesInput + `\GOPSETNAME`)
	if setNode == nil || setNode.stringValue() == "" {
		return "", errors.New("aspen: no property method set (GOPSETNAME)")
	}
	set := setNode.stringValue()
	model := o.t.lookup(JoinPath(PathPropertyMethods, set, `Input\MODELNAME\1`))
	if model == nil || model.stringValue() == "" {
		// A set named after a method selects it directly.
		model = setNode
	}
	m := strings.ToUpper(model.stringValue())
	switch m {
	case MethodWilsonHOC, MethodIdeal:
		return m, nil
	}
	return "", fmt.Errorf("aspen: property method %q is not available offline", model.stringValue())
}

// Run evaluates every FLASH2 block at its feed temperature and composition.
func (o *Offline) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timer := logging.StartTimer(logging.CategorySim, "offline run")
	defer timer.Stop()

	o.t.mu.Lock()
	defer o.t.mu.Unlock()
	if o.closed {
		return ErrClosed
	}

	comps := o.components()
	if len(comps) == 0 {
		return errors.New("aspen: no components specified")
	}
	method, err := o.method()
	if err != nil {
		return err
	}

	blocks := o.t.lookup(PathBlocks)
	ran := 0
	for _, b := range blocks.children {
		if err := ctx.Err(); err != nil {
			return err
		}
		typ := b.index["Input"]
		if typ == nil {
			continue
		}
		bt, ok := typ.index["Block Type"]
		if !ok || !strings.EqualFold(bt.stringValue(), BlockFlash2) {
			continue
		}
		feed := o.inlet(b)
		if feed == "" {
			continue
		}
		if err := o.runFlash(b.name, feed, comps, method); err != nil {
			out := o.t.ensure(JoinPath(PathResultBlocks, b.name))
			out.status |= StatusErrors
			b.status |= StatusErrors
			return fmt.Errorf("block %s: %w", b.name, err)
		}
		b.status |= StatusResultsAvailable
		ran++
	}
	if ran == 0 {
		return ErrNoFlashBlock
	}
	o.t.lookup(PathResults).status |= StatusResultsAvailable
	logging.SimDebug("Offline run finished: %d block(s), method %s", ran, method)
	return nil
}

// inlet returns the first connected inlet stream of a block.
func (o *Offline) inlet(b *memNode) string {
	in := o.t.lookup(JoinPath(b.Path(), `Input\Connections\Inlets`))
	if in == nil {
		return ""
	}
	for _, c := range in.indexedChildren() {
		if s := c.stringValue(); s != "" {
			return s
		}
	}
	return ""
}

func (o *Offline) runFlash(block, feed string, comps []component, method string) error {
	stream := JoinPath(PathStreams, feed, "Input")
	tNode := o.t.lookup(stream + `\Temperature`)
	if tNode == nil {
		return fmt.Errorf("feed %s has no temperature", feed)
	}
	t, ok := tNode.floatValue()
	if !ok {
		return fmt.Errorf("feed %s temperature is not numeric", feed)
	}
	tC, err := ToCelsius(t, tNode.unit)
	if err != nil {
		return err
	}

	pUnit := UnitBar
	if pNode := o.t.lookup(stream + `\Pressure`); pNode != nil && pNode.unit != "" {
		pUnit = pNode.unit
	}

	x := make([]float64, len(comps))
	data := make([]PureStandIn, len(comps))
	var sum float64
	for i, c := range comps {
		if f := o.t.lookup(JoinPath(stream, `Composition\Mole Fractions`, c.name)); f != nil {
			if v, ok := f.floatValue(); ok {
				x[i] = v
			}
		}
		if x[i] < 0 || math.IsNaN(x[i]) {
			return fmt.Errorf("feed %s: invalid mole fraction %g for %s", feed, x[i], c.name)
		}
		sum += x[i]
		d, ok := LookupStandIn(c.cas, c.name)
		if !ok {
			return fmt.Errorf("no vapor pressure data for %s (%s)", c.name, c.cas)
		}
		data[i] = d
	}
	if sum <= 0 {
		return fmt.Errorf("feed %s has no composition", feed)
	}
	for i := range x {
		x[i] /= sum
	}

	pMmHg, y, err := BubblePoint(tC, x, data, method == MethodIdeal)
	if err != nil {
		return err
	}
	p, err := PressureFromMmHg(pMmHg, pUnit)
	if err != nil {
		return err
	}

	out := JoinPath(PathResultBlocks, block, "Output")
	o.setResult(out+`\Pressure`, p, pUnit)
	o.setResult(out+`\Temperature`, t, tNode.unit)
	o.setResult(out+`\Vapor Fraction`, 0.0, "")
	for i, c := range comps {
		o.setResult(JoinPath(out, "Vapor Mole Fractions", c.name), y[i], "")
		o.setResult(JoinPath(out, "Liquid Mole Fractions", c.name), x[i], "")
	}
	logging.SimDebug("%s: T=%.2f %s P=%.4f %s", block, t, tNode.unit, p, pUnit)
	return nil
}

// setResult writes a read-only result node; callers hold t.mu.
func (o *Offline) setResult(path string, v float64, unit string) {
	n := o.t.ensure(path)
	n.value, n.hasValue = v, true
	n.unit = unit
	n.readOnly = true
	n.status = StatusResultsAvailable
}

// Close releases the simulation. Later calls fail with ErrClosed.
func (o *Offline) Close() error {
	o.t.mu.Lock()
	defer o.t.mu.Unlock()
	o.closed = true
	return nil
}

type snapshotEntry struct {
	Path  string      `yaml:"path"`
	Value interface{} `yaml:"value,omitempty"`
	Unit  string      `yaml:"unit,omitempty"`
}

type snapshot struct {
	Nodes []snapshotEntry `yaml:"nodes"`
}

// SaveSnapshot writes every input value and unit to a YAML file. Results and
// built-in parameter data are not saved.
func (o *Offline) SaveSnapshot(path string) error {
	o.t.mu.RLock()
	var snap snapshot
	o.t.root.walk(func(n *memNode) {
		if n.readOnly || !writable(n.segs) {
			return
		}
		if !n.hasValue && (n.unit == "" || n.unit == defaultUnits[n.name]) {
			return
		}
		e := snapshotEntry{Path: n.Path(), Unit: n.unit}
		if n.hasValue {
			e.Value = n.value
		}
		snap.Nodes = append(snap.Nodes, e)
	})
	o.t.mu.RUnlock()

	data, err := yaml.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot applies a snapshot written by SaveSnapshot.
func (o *Offline) LoadSnapshot(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to parse snapshot: %w", err)
	}
	o.t.mu.Lock()
	defer o.t.mu.Unlock()
	for _, e := range snap.Nodes {
		segs := SplitPath(e.Path)
		if !writable(segs) {
			return fmt.Errorf("snapshot %s: %w", e.Path, ErrReadOnly)
		}
		v, err := normalizeValue(e.Value)
		if err != nil {
			return fmt.Errorf("snapshot %s: %w", e.Path, err)
		}
		n, _ := o.t.resolve(segs, true)
		n.value, n.hasValue = v, v != nil
		if e.Unit != "" {
			n.unit = e.Unit
		}
	}
	logging.SimDebug("Loaded %d node(s) from %s", len(snap.Nodes), path)
	return nil
}
