package effectchain

import (
	"errors"
)

const (
	// InputNodeID is the reserved node ID for the chain input.
	InputNodeID = "_input"
	// OutputNodeID is the reserved node ID for the chain output.
	OutputNodeID = "_output"
)

// Stage IDs of the lo-fi chain.
const (
	StageVocalReducer = "vocal-reducer"
	StageBackgroundEQ = "background-eq"
	StageLowPass      = "low-pass"
	StagePitchShifter = "pitch-shifter"
	StagePositioner   = "positioner"
	StageCompressor   = "compressor"
	StageBitCrusher   = "bit-crusher"
	StageToneEQ       = "tone-eq"
	StageExciter      = "exciter"
	StageReverb       = "reverb"
	StageOutputGain   = "output-gain"
	StageVinylCrackle = "vinyl-crackle"
	StageTapeHiss     = "tape-hiss"
)

// Stage kinds resolved through the Registry. Several stages may share a kind.
const (
	KindVocalReducer = "vocal-reducer"
	KindEQ3          = "eq3"
	KindLowPass      = "low-pass"
	KindPitchShifter = "pitch-shifter"
	KindPositioner   = "positioner"
	KindCompressor   = "compressor"
	KindBitCrusher   = "bit-crusher"
	KindExciter      = "exciter"
	KindReverb       = "reverb"
	KindGain         = "gain"
	KindNoise        = "noise"
)

// graphNode is a node in the chain graph.
type graphNode struct {
	ID   string
	Kind string
}

// graphConnection is a directed connection between two graph nodes.
type graphConnection struct {
	From string
	To   string
}

// compiledGraph holds the compiled chain graph with adjacency info and a
// topologically sorted traversal order.
type compiledGraph struct {
	Nodes    map[string]graphNode
	Incoming map[string][]string
	Outgoing map[string][]string
	Order    []string
}

var errGraphCycle = errors.New("invalid chain graph: contains cycle")

// stageLayout returns the nodes and connections for s: the primary serial
// path from input to output with the two noise sources feeding the output
// gain. The background EQ is present only when enabled.
func stageLayout(s Settings) ([]graphNode, []graphConnection) {
	primary := []graphNode{
		{StageVocalReducer, KindVocalReducer},
		{StageBackgroundEQ, KindEQ3},
		{StageLowPass, KindLowPass},
		{StagePitchShifter, KindPitchShifter},
		{StagePositioner, KindPositioner},
		{StageCompressor, KindCompressor},
		{StageBitCrusher, KindBitCrusher},
		{StageToneEQ, KindEQ3},
		{StageExciter, KindExciter},
		{StageReverb, KindReverb},
		{StageOutputGain, KindGain},
	}

	if !s.BackgroundEnabled() {
		primary = append(primary[:1], primary[2:]...)
	}

	nodes := make([]graphNode, 0, len(primary)+4)
	nodes = append(nodes,
		graphNode{InputNodeID, InputNodeID},
		graphNode{StageVinylCrackle, KindNoise},
		graphNode{StageTapeHiss, KindNoise},
	)
	nodes = append(nodes, primary...)
	nodes = append(nodes, graphNode{OutputNodeID, OutputNodeID})

	conns := make([]graphConnection, 0, len(primary)+3)

	prev := InputNodeID
	for _, n := range primary {
		conns = append(conns, graphConnection{prev, n.ID})
		prev = n.ID
	}

	conns = append(conns,
		graphConnection{prev, OutputNodeID},
		graphConnection{StageVinylCrackle, StageOutputGain},
		graphConnection{StageTapeHiss, StageOutputGain},
	)

	return nodes, conns
}

// compileGraph performs a topological sort (Kahn's algorithm). Ties are
// broken by declaration order so the traversal is deterministic.
func compileGraph(nodes []graphNode, conns []graphConnection) (*compiledGraph, error) {
	byID := make(map[string]graphNode, len(nodes))
	incoming := make(map[string][]string, len(nodes))
	outgoing := make(map[string][]string, len(nodes))
	indegree := make(map[string]int, len(nodes))

	for _, n := range nodes {
		byID[n.ID] = n
		indegree[n.ID] = 0
	}

	for _, c := range conns {
		if c.From == c.To {
			continue
		}

		if _, ok := byID[c.From]; !ok {
			continue
		}

		if _, ok := byID[c.To]; !ok {
			continue
		}

		outgoing[c.From] = append(outgoing[c.From], c.To)
		incoming[c.To] = append(incoming[c.To], c.From)
		indegree[c.To]++
	}

	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		if indegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	order := make([]string, 0, len(nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		order = append(order, id)
		for _, to := range outgoing[id] {
			indegree[to]--
			if indegree[to] == 0 {
				queue = append(queue, to)
			}
		}
	}

	if len(order) != len(nodes) {
		return nil, errGraphCycle
	}

	return &compiledGraph{
		Nodes:    byID,
		Incoming: incoming,
		Outgoing: outgoing,
		Order:    order,
	}, nil
}

func buildGraph(s Settings) (*compiledGraph, error) {
	return compileGraph(stageLayout(s))
}

// isStructural reports whether a node routes audio without a runtime.
func isStructural(kind string) bool {
	return kind == InputNodeID || kind == OutputNodeID
}
