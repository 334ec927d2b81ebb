// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package attractor

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/dalzilio/pbn/symbolic"
)

// Behaviour is the long-term behaviour of an attractor for one color.
type Behaviour int

const (
	// Stability is an attractor with a single state.
	Stability Behaviour = iota
	// Oscillation is an attractor where every state has exactly one
	// successor, that is a single cycle.
	Oscillation
	// Disorder is any other attractor.
	Disorder
)

var behaviourNames = [...]string{"Stability", "Oscillation", "Disorder"}

func (b Behaviour) String() string {
	if b < Stability || b > Disorder {
		return fmt.Sprintf("Behaviour(%d)", int(b))
	}
	return behaviourNames[b]
}

// ParseBehaviour reads the short name of a behaviour: S, O or D.
func ParseBehaviour(s string) (Behaviour, error) {
	switch s {
	case "S":
		return Stability, nil
	case "O":
		return Oscillation, nil
	case "D":
		return Disorder, nil
	}
	return 0, errors.Errorf("invalid behaviour string %q", s)
}

// Class counts the attractors of each behaviour for a group of colors. The
// zero value is the class of colors with no attractor found so far.
type Class struct {
	Stability   int
	Oscillation int
	Disorder    int
}

// Len is the number of attractors in the class.
func (c Class) Len() int {
	return c.Stability + c.Oscillation + c.Disorder
}

// Behaviours returns the sorted list of behaviours of c, with repetitions.
func (c Class) Behaviours() []Behaviour {
	res := make([]Behaviour, 0, c.Len())
	for k := 0; k < c.Stability; k++ {
		res = append(res, Stability)
	}
	for k := 0; k < c.Oscillation; k++ {
		res = append(res, Oscillation)
	}
	for k := 0; k < c.Disorder; k++ {
		res = append(res, Disorder)
	}
	return res
}

// Extend returns a copy of c with one more attractor of behaviour b.
func (c Class) Extend(b Behaviour) Class {
	switch b {
	case Stability:
		c.Stability++
	case Oscillation:
		c.Oscillation++
	case Disorder:
		c.Disorder++
	}
	return c
}

// Less orders classes by number of attractors first, and then by the
// lexicographic order of their sorted behaviours.
func (c Class) Less(other Class) bool {
	if c.Len() != other.Len() {
		return c.Len() < other.Len()
	}
	x, y := c.Behaviours(), other.Behaviours()
	for k := range x {
		if x[k] != y[k] {
			return x[k] < y[k]
		}
	}
	return false
}

func (c Class) String() string {
	if c.Len() == 0 {
		return "empty"
	}
	parts := []string{}
	for _, p := range []struct {
		count int
		b     Behaviour
	}{{c.Stability, Stability}, {c.Oscillation, Oscillation}, {c.Disorder, Disorder}} {
		if p.count > 0 {
			parts = append(parts, fmt.Sprintf("%d x %s", p.count, p.b))
		}
	}
	return strings.Join(parts, ", ")
}

// Classified is an attractor set together with the colors of each of its
// behaviours.
type Classified struct {
	Attractor  symbolic.ColoredVertexSet
	Behaviours map[Behaviour]symbolic.ColorSet
}

// Classifier partitions the colors of a graph according to the behaviours of
// their attractors. Components are added one at a time and every color moves
// to a larger class each time one of its attractors is found. The partition
// is guarded by a mutex, but the BDD kernel of the graph is not safe for
// concurrent use.
type Classifier struct {
	graph      *symbolic.AsyncGraph
	mu         sync.Mutex
	classes    map[Class]symbolic.ColorSet
	attractors []Classified
}

// NewClassifier returns a classifier where all the colors of graph are in
// the empty class.
func NewClassifier(graph *symbolic.AsyncGraph) *Classifier {
	return &Classifier{
		graph:   graph,
		classes: map[Class]symbolic.ColorSet{{}: graph.UnitColors()},
	}
}

// AddComponent classifies an attractor set, as returned by Attractors, and
// updates the classes of its colors.
func (c *Classifier) AddComponent(component symbolic.ColoredVertexSet) {
	g := c.graph
	classification := map[Behaviour]symbolic.ColorSet{}

	withoutSinks := c.filterSinks(component)
	notSinkColors := withoutSinks.Colors()
	sinkColors := component.Colors().Minus(notSinkColors)
	if !sinkColors.IsEmpty() {
		classification[Stability] = sinkColors
	}

	if !notSinkColors.IsEmpty() {
		// a color is in disorder when some state of the component has two
		// successors; they stay in the component since it is a trap set
		disorder := g.EmptyColors()
		for _, v := range g.Variables() {
			first := g.VarCanPost(v, withoutSinks)
			for _, w := range g.Variables() {
				if w == v {
					continue
				}
				disorder = disorder.Union(g.VarCanPost(w, first).Colors())
			}
		}
		cycle := notSinkColors.Minus(disorder)
		if !cycle.IsEmpty() {
			classification[Oscillation] = cycle
			c.push(Oscillation, cycle)
		}
		if !disorder.IsEmpty() {
			classification[Disorder] = disorder
			c.push(Disorder, disorder)
		}
	}

	c.mu.Lock()
	c.attractors = append(c.attractors, Classified{component, classification})
	c.mu.Unlock()
}

// filterSinks returns the states of component that have a successor, and
// pushes the colors where the component is a single sink to Stability.
func (c *Classifier) filterSinks(component symbolic.ColoredVertexSet) symbolic.ColoredVertexSet {
	g := c.graph
	notSink := g.EmptyColoredVertices()
	for _, v := range g.Variables() {
		notSink = notSink.Union(g.VarCanPost(v, component))
	}
	sink := component.Colors().Minus(notSink.Colors())
	if !sink.IsEmpty() {
		c.push(Stability, sink)
	}
	return notSink
}

// push moves colors to the class extended with behaviour b. Classes are
// visited from the largest to the smallest so that colors move at most once.
func (c *Classifier) push(b Behaviour, colors symbolic.ColorSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, class := range c.sortedClasses() {
		classColors := c.classes[class]
		moving := classColors.Intersect(colors)
		if moving.IsEmpty() {
			continue
		}
		if rest := classColors.Minus(moving); rest.IsEmpty() {
			delete(c.classes, class)
		} else {
			c.classes[class] = rest
		}
		extended := class.Extend(b)
		if current, ok := c.classes[extended]; ok {
			c.classes[extended] = current.Union(moving)
		} else {
			c.classes[extended] = moving
		}
	}
}

// sortedClasses returns the classes from the largest to the smallest. The
// caller must hold the lock.
func (c *Classifier) sortedClasses() []Class {
	res := make([]Class, 0, len(c.classes))
	for class := range c.classes {
		res = append(res, class)
	}
	sort.Slice(res, func(i, j int) bool { return res[j].Less(res[i]) })
	return res
}

// Classes returns the current classes from the smallest to the largest.
func (c *Classifier) Classes() []Class {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := c.sortedClasses()
	for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
		res[i], res[j] = res[j], res[i]
	}
	return res
}

// Export returns a copy of the current partition of the colors.
func (c *Classifier) Export() map[Class]symbolic.ColorSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := make(map[Class]symbolic.ColorSet, len(c.classes))
	for class, colors := range c.classes {
		res[class] = colors
	}
	return res
}

// Attractors returns the components added so far with their classification.
func (c *Classifier) Attractors() []Classified {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Classified(nil), c.attractors...)
}

// Classify returns the behaviours of a single attractor set, for each of its
// colors. The color sets of the result are disjoint.
func Classify(graph *symbolic.AsyncGraph, component symbolic.ColoredVertexSet) map[Behaviour]symbolic.ColorSet {
	c := NewClassifier(graph)
	c.AddComponent(component)
	res := map[Behaviour]symbolic.ColorSet{}
	for class, colors := range c.Export() {
		if class.Len() == 0 {
			continue
		}
		res[class.Behaviours()[0]] = colors
	}
	return res
}
