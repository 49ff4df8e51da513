package segment

import (
	"fmt"
	"sync/atomic"
)

// Generator produces monotonic segment IDs for log and metric correlation.
type Generator struct {
	counter uint64
}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Next(callID string) string {
	n := atomic.AddUint64(&g.counter, 1)
	return fmt.Sprintf("%s-seg-%d", callID, n)
}
