package metrics

import (
	"math"

	"github.com/san-kum/fdtd1d/internal/fdtd"
)

// SourceEffort is the mean absolute value injected by the source.
type SourceEffort struct {
	name    string
	sum     float64
	samples int
}

func NewSourceEffort() *SourceEffort {
	return &SourceEffort{
		name: "source_effort",
	}
}

func (c *SourceEffort) Name() string {
	return c.name
}

func (c *SourceEffort) Observe(snap fdtd.Snapshot) {
	c.sum += math.Abs(snap.Source)
	c.samples++
}

func (c *SourceEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *SourceEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
