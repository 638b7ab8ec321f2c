package fxgraph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-fxgraph/dsp/core"
)

// Structural errors. They are returned wrapped in *GraphError; match them
// with errors.Is.
var (
	ErrUnknownNode         = errors.New("unknown node")
	ErrUnknownEdge         = errors.New("unknown edge")
	ErrWouldCreateCycle    = errors.New("would create cycle")
	ErrFanoutLimitExceeded = errors.New("fan-out limit exceeded")
	ErrFaninLimitExceeded  = errors.New("fan-in limit exceeded")
	ErrMissingInput        = errors.New("missing input node")
	ErrMissingOutput       = errors.New("missing output node")
	ErrCyclic              = errors.New("graph contains a cycle")
	ErrUnreachable         = errors.New("unreachable node")
	ErrNotEffect           = errors.New("not an effect node")
	ErrEmptyBlock          = errors.New("invalid block size")
	ErrInvalidConfig       = errors.New("invalid processor config")
)

// Engine errors.
var (
	ErrConfigMismatch = errors.New("snapshot config does not match engine")
	ErrSnapshotInUse  = errors.New("snapshot already published")
	ErrNilSnapshot    = errors.New("nil snapshot")
	ErrEngineClosed   = errors.New("engine closed")
	ErrSharedEffect   = errors.New("effect instance shared with a running snapshot")
)

// NoNode marks an absent node reference in a GraphError.
const NoNode NodeID = -1

// NoEdge marks an absent edge reference in a GraphError.
const NoEdge EdgeID = -1

// GraphError carries the operation and the graph elements a structural
// error refers to.
type GraphError struct {
	Op     string
	Node   NodeID
	Peer   NodeID
	Edge   EdgeID
	Detail string
	Err    error
}

func (e *GraphError) Error() string {
	var b strings.Builder
	b.WriteString("fxgraph: ")
	b.WriteString(e.Op)
	switch {
	case e.Node != NoNode && e.Peer != NoNode:
		fmt.Fprintf(&b, " %d -> %d", e.Node, e.Peer)
	case e.Node != NoNode:
		fmt.Fprintf(&b, " node %d", e.Node)
	}
	if e.Edge != NoEdge {
		fmt.Fprintf(&b, " edge %d", e.Edge)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if e.Detail != "" {
		b.WriteString(" (")
		b.WriteString(e.Detail)
		b.WriteString(")")
	}
	return b.String()
}

func (e *GraphError) Unwrap() error {
	return e.Err
}

func nodeError(op string, id NodeID, err error) *GraphError {
	return &GraphError{Op: op, Node: id, Peer: NoNode, Edge: NoEdge, Err: err}
}

func edgeError(op string, id EdgeID, err error) *GraphError {
	return &GraphError{Op: op, Node: NoNode, Peer: NoNode, Edge: id, Err: err}
}

func connectError(from, to NodeID, err error, detail string) *GraphError {
	return &GraphError{Op: "connect", Node: from, Peer: to, Edge: NoEdge, Err: err, Detail: detail}
}

// configError classifies a core.ProcessorConfig.Validate failure.
func configError(err error) error {
	if errors.Is(err, core.ErrInvalidBlockSize) {
		return ErrEmptyBlock
	}
	return ErrInvalidConfig
}
