package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sync"

	"lemmacorpus/internal/graph"
)

// JSONLEmitter writes nodes and edges as one JSON object per line into a
// single stream. Node lines carry "id" and "type"; edge lines carry
// "source", "target" and "type".
type JSONLEmitter struct {
	w       io.Writer
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONLEmitter creates a new JSONLEmitter writing to w.
func NewJSONLEmitter(w io.Writer) *JSONLEmitter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONLEmitter{
		w:       w,
		encoder: enc,
	}
}

// SplitJSONLEmitter writes nodes and edges to separate streams.
type SplitJSONLEmitter struct {
	nodeEncoder *json.Encoder
	edgeEncoder *json.Encoder
	nodeCloser  io.Closer
	edgeCloser  io.Closer
}

// NewSplitJSONLEmitter creates a new SplitJSONLEmitter.
func NewSplitJSONLEmitter(nodeW, edgeW io.Writer) *SplitJSONLEmitter {
	s := &SplitJSONLEmitter{
		nodeEncoder: json.NewEncoder(nodeW),
		edgeEncoder: json.NewEncoder(edgeW),
	}
	s.nodeEncoder.SetEscapeHTML(false)
	s.edgeEncoder.SetEscapeHTML(false)
	if c, ok := nodeW.(io.Closer); ok {
		s.nodeCloser = c
	}
	if c, ok := edgeW.(io.Closer); ok {
		s.edgeCloser = c
	}
	return s
}

// nodeRecord flattens properties into the root object. id and type win
// over properties of the same name.
func nodeRecord(node *graph.Node) map[string]interface{} {
	out := make(map[string]interface{}, len(node.Properties)+2)
	for k, v := range node.Properties {
		out[k] = v
	}
	out["id"] = node.ID
	out["type"] = node.Label
	return out
}

func edgeRecord(edge *graph.Edge) map[string]string {
	return map[string]string{
		"source": edge.SourceID,
		"target": edge.TargetID,
		"type":   edge.Type,
	}
}

func (e *SplitJSONLEmitter) EmitNode(node *graph.Node) error {
	return e.nodeEncoder.Encode(nodeRecord(node))
}

func (e *SplitJSONLEmitter) EmitEdge(edge *graph.Edge) error {
	return e.edgeEncoder.Encode(edgeRecord(edge))
}

func (e *SplitJSONLEmitter) Close() error {
	var first error
	if e.nodeCloser != nil {
		first = e.nodeCloser.Close()
	}
	if e.edgeCloser != nil {
		if err := e.edgeCloser.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (e *JSONLEmitter) EmitNode(node *graph.Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.encoder.Encode(nodeRecord(node))
}

func (e *JSONLEmitter) EmitEdge(edge *graph.Edge) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.encoder.Encode(edgeRecord(edge))
}

// Close closes the underlying writer if it implements io.Closer.
func (e *JSONLEmitter) Close() error {
	if c, ok := e.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ReadJSONL reads lines written by either emitter. A line with "source"
// and "target" is an edge, anything else with an "id" is a node.
func ReadJSONL(r io.Reader) ([]graph.Node, []graph.Edge, error) {
	var nodes []graph.Node
	var edges []graph.Edge

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var raw map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &raw); err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}

		typ, _ := raw["type"].(string)
		source, isEdge := raw["source"].(string)
		if target, ok := raw["target"].(string); isEdge && ok {
			edges = append(edges, graph.Edge{SourceID: source, TargetID: target, Type: typ})
			continue
		}

		id, ok := raw["id"].(string)
		if !ok {
			return nil, nil, fmt.Errorf("line %d: record has neither id nor source/target", line)
		}
		delete(raw, "id")
		delete(raw, "type")
		for k, v := range raw {
			// JSON numbers decode as float64; counts and positions are integral.
			if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
				raw[k] = int64(f)
			}
		}
		nodes = append(nodes, graph.Node{ID: id, Label: typ, Properties: raw})
	}
	return nodes, edges, scanner.Err()
}
