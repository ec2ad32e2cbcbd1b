package effectchain

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-lofi/dsp/core"
)

// ErrUnknownKind is returned when a stage references an unregistered kind.
var ErrUnknownKind = errors.New("unknown stage kind")

type nodeRuntime struct {
	kind    string
	runtime Runtime
}

// Chain owns the lo-fi stage graph: topology, stage runtimes and processing
// buffers. Applying settings either writes parameters into the existing
// runtimes or, when the topology changes, recompiles the graph while
// keeping every runtime whose stage survives.
//
// A Chain is not safe for concurrent use.
type Chain struct {
	ctx      Context
	registry *Registry
	settings Settings

	graph *compiledGraph
	nodes map[string]*nodeRuntime

	bufL map[string][]float64
	bufR map[string][]float64
}

// New builds a chain for settings. Every runtime is created and configured
// before New returns; sources start stopped.
func New(ctx Context, registry *Registry, settings Settings) (*Chain, error) {
	if ctx.SampleRate <= 0 {
		return nil, fmt.Errorf("effectchain: sample rate must be > 0: %f", ctx.SampleRate)
	}

	if registry == nil {
		return nil, errors.New("effectchain: nil registry")
	}

	c := &Chain{ctx: ctx, registry: registry}

	graph, err := buildGraph(settings)
	if err != nil {
		return nil, err
	}

	nodes, err := c.syncNodes(graph, settings)
	if err != nil {
		return nil, err
	}

	c.graph = graph
	c.nodes = nodes
	c.settings = settings

	return c, nil
}

// Context returns the chain context.
func (c *Chain) Context() Context {
	return c.ctx
}

// Settings returns the settings last applied.
func (c *Chain) Settings() Settings {
	return c.settings
}

// Apply moves the chain to next and reports which transition it took. On
// error the chain keeps its previous topology.
func (c *Chain) Apply(next Settings) (Transition, error) {
	tr := Plan(c.settings, next)

	if tr == StructuralRebuild {
		graph, err := buildGraph(next)
		if err != nil {
			return tr, err
		}

		nodes, err := c.syncNodes(graph, next)
		if err != nil {
			return tr, err
		}

		c.graph = graph
		c.nodes = nodes
		c.settings = next

		return tr, nil
	}

	for _, id := range c.graph.Order {
		rt := c.nodes[id]
		if rt == nil {
			continue
		}

		err := rt.runtime.Configure(c.ctx, next.params(id, rt.kind))
		if err != nil {
			return tr, fmt.Errorf("effectchain: configure stage %q (%s): %w", id, rt.kind, err)
		}
	}

	c.settings = next

	return tr, nil
}

// Topology returns the stage IDs of the primary path from input to output
// in processing order. Noise sources are listed by Sources.
func (c *Chain) Topology() []string {
	out := make([]string, 0, len(c.graph.Order))

	for _, id := range c.graph.Order {
		n := c.graph.Nodes[id]
		if isStructural(n.Kind) || len(c.graph.Incoming[id]) == 0 {
			continue
		}

		out = append(out, id)
	}

	return out
}

// Sources returns the IDs of stages without inputs.
func (c *Chain) Sources() []string {
	var out []string

	for _, id := range c.graph.Order {
		n := c.graph.Nodes[id]
		if isStructural(n.Kind) || len(c.graph.Incoming[id]) > 0 {
			continue
		}

		out = append(out, id)
	}

	return out
}

// Latency returns the delay in frames between the chain input and its
// output, summed over the primary path.
func (c *Chain) Latency() int {
	total := 0

	for _, id := range c.Topology() {
		if l, ok := c.NodeRuntime(id).(Latent); ok {
			total += l.Latency()
		}
	}

	return total
}

// NodeRuntime returns the Runtime for the given stage ID, or nil.
func (c *Chain) NodeRuntime(id string) Runtime {
	rt := c.nodes[id]
	if rt == nil {
		return nil
	}

	return rt.runtime
}

// StartSources starts every source stage.
func (c *Chain) StartSources() {
	for _, rt := range c.nodes {
		if src, ok := rt.runtime.(Source); ok {
			src.Start()
		}
	}
}

// StopSources stops every source stage.
func (c *Chain) StopSources() {
	for _, rt := range c.nodes {
		if src, ok := rt.runtime.(Source); ok {
			src.Stop()
		}
	}
}

// SourcesRunning reports whether any source stage is running.
func (c *Chain) SourcesRunning() bool {
	for _, rt := range c.nodes {
		if src, ok := rt.runtime.(Source); ok && src.Running() {
			return true
		}
	}

	return false
}

// Reset clears the processing state of every stage. Settings, topology and
// source run state are kept.
func (c *Chain) Reset() {
	for _, rt := range c.nodes {
		if r, ok := rt.runtime.(Resetter); ok {
			r.Reset()
		}
	}
}

// Process runs one stereo block through the graph in place. left and right
// must have the same length.
func (c *Chain) Process(left, right []float64) {
	n := min(len(left), len(right))
	if n == 0 {
		return
	}

	left, right = left[:n], right[:n]
	c.prepareBuffers(n)

	for _, id := range c.graph.Order {
		if id == InputNodeID {
			copy(c.bufL[id], left)
			copy(c.bufR[id], right)

			continue
		}

		dstL, dstR := c.bufL[id], c.bufR[id]
		c.sumParents(id, dstL, dstR)

		if rt := c.nodes[id]; rt != nil {
			rt.runtime.Process(dstL, dstR)
		}
	}

	copy(left, c.bufL[OutputNodeID])
	copy(right, c.bufR[OutputNodeID])
}

// syncNodes creates the runtime set for graph, reusing current runtimes of
// stages that keep their kind, and configures all of them from settings.
// The current runtime set is left untouched.
func (c *Chain) syncNodes(graph *compiledGraph, settings Settings) (map[string]*nodeRuntime, error) {
	nodes := make(map[string]*nodeRuntime, len(graph.Nodes))

	for _, id := range graph.Order {
		node := graph.Nodes[id]
		if isStructural(node.Kind) {
			continue
		}

		rt := c.nodes[id]
		if rt == nil || rt.kind != node.Kind {
			runtime, err := c.newRuntime(node.Kind)
			if err != nil {
				return nil, err
			}

			rt = &nodeRuntime{kind: node.Kind, runtime: runtime}
		}

		err := rt.runtime.Configure(c.ctx, settings.params(id, node.Kind))
		if err != nil {
			return nil, fmt.Errorf("effectchain: configure stage %q (%s): %w", id, node.Kind, err)
		}

		nodes[id] = rt
	}

	return nodes, nil
}

func (c *Chain) newRuntime(kind string) (Runtime, error) {
	factory := c.registry.Lookup(kind)
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	rt, err := factory(c.ctx)
	if err != nil {
		return nil, fmt.Errorf("effectchain: create %s: %w", kind, err)
	}

	return rt, nil
}

func (c *Chain) prepareBuffers(n int) {
	if c.bufL == nil {
		c.bufL = make(map[string][]float64, len(c.graph.Nodes))
		c.bufR = make(map[string][]float64, len(c.graph.Nodes))
	}

	for _, id := range c.graph.Order {
		c.bufL[id] = core.EnsureLen(c.bufL[id], n)
		c.bufR[id] = core.EnsureLen(c.bufR[id], n)
	}
}

// sumParents writes the sum of all parent outputs into dst. Nodes without
// parents start from silence.
func (c *Chain) sumParents(id string, dstL, dstR []float64) {
	parents := c.graph.Incoming[id]
	if len(parents) == 0 {
		core.Zero(dstL)
		core.Zero(dstR)

		return
	}

	copy(dstL, c.bufL[parents[0]])
	copy(dstR, c.bufR[parents[0]])

	for _, p := range parents[1:] {
		core.AddInto(dstL, c.bufL[p])
		core.AddInto(dstR, c.bufR[p])
	}
}
