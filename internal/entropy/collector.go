// Package entropy accumulates mouse-position samples that seed password
// generation.
package entropy

// Capacity is the number of samples one generation session collects.
const Capacity = 1000

// tickEvery is how often an accepted sample reports progress.
const tickEvery = 10

// SampleStatus is the result of recording one sample.
type SampleStatus int

const (
	// Continue means the sample was stored and nothing else happened.
	Continue SampleStatus = iota
	// ProgressTick is returned for every tenth stored sample.
	ProgressTick
	// Done means the collector is full. Further samples are ignored.
	Done
)

func (s SampleStatus) String() string {
	switch s {
	case Continue:
		return "continue"
	case ProgressTick:
		return "progress"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Point is one recorded (x, y) mouse position.
type Point struct {
	X, Y int
}

// Collector is an append-only, capacity-bounded sequence of points.
// The zero value is ready to use. It is not safe for concurrent use, see
// passgen.Session for a guarded pairing with the generator.
type Collector struct {
	points []Point
}

// NewCollector returns an empty collector with room for Capacity samples.
func NewCollector() *Collector {
	return &Collector{points: make([]Point, 0, Capacity)}
}

// Collect stores (x, y) unless the collector is already full.
//
// The sample that fills the collector reports Done rather than a tick.
func (c *Collector) Collect(x, y int) SampleStatus {
	if len(c.points) >= Capacity {
		return Done
	}
	c.points = append(c.points, Point{X: x, Y: y})

	switch {
	case len(c.points) == Capacity:
		return Done
	case len(c.points)%tickEvery == 0:
		return ProgressTick
	default:
		return Continue
	}
}

// Len returns the number of stored samples.
func (c *Collector) Len() int { return len(c.points) }

// Full reports whether Capacity samples have been stored.
func (c *Collector) Full() bool { return len(c.points) >= Capacity }

// Progress returns the fill ratio in percent, 0..100.
func (c *Collector) Progress() int { return len(c.points) * 100 / Capacity }

// Points returns a copy of the stored samples in insertion order.
func (c *Collector) Points() []Point {
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}

// Reset discards every sample, starting a new session.
func (c *Collector) Reset() {
	c.points = c.points[:0]
}
