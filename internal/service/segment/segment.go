package segment

import (
	"fmt"
	"sync/atomic"
)

// Generator issues transcript segment IDs that are unique for the process.
type Generator struct {
	counter atomic.Uint64
}

func New() *Generator {
	return &Generator{}
}

// Next returns "<streamID>-seg-<n>".
func (g *Generator) Next(streamID string) string {
	return fmt.Sprintf("%s-seg-%d", streamID, g.counter.Add(1))
}
