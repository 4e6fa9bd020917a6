package passgen

import (
	"math/rand/v2"

	"github.com/dmitrijs2005/lightningpass/internal/entropy"
)

// Generator builds a password one character at a time.
type Generator struct {
	opts      Options
	universe  string
	password  []byte
	callCount int
}

// New returns a Generator for opts.
func New(opts Options) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		opts:     opts,
		universe: opts.Universe(),
		password: make([]byte, 0, opts.Length),
	}, nil
}

// seed maps a coordinate pair to a PCG state. x and y are kept apart so
// (x, y) and (y, x) give different streams.
func seed(x, y int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(int64(x)), uint64(int64(y))))
}

// Char returns the universe character selected by the sample (x, y).
func (g *Generator) Char(x, y int) byte {
	return pick(g.universe, seed(x, y).Float64())
}

// pick maps v in [0, 1) onto universe. v*len can round up to len for v
// just below 1, so the index is clamped.
func pick(universe string, v float64) byte {
	i := int(v * float64(len(universe)))
	if i >= len(universe) {
		i = len(universe) - 1
	}
	return universe[i]
}

// Feed draws the character for (x, y) and appends it when its class is
// enabled. It is a no-op once the password has reached the target length.
//
// The class check never rejects anything drawn from the universe; it is kept
// so the character filter and the universe can't drift apart.
func (g *Generator) Feed(x, y int) (byte, bool) {
	if g.Done() {
		return 0, false
	}
	c := g.Char(x, y)
	if !g.opts.allows(c) {
		return 0, false
	}
	g.password = append(g.password, c)
	return c, true
}

// Offer counts one raw sample and feeds it only when pacing allows, so the
// password completes together with the collector instead of long before it.
func (g *Generator) Offer(x, y int) (byte, bool) {
	g.callCount++
	if !ShouldSample(g.callCount, g.opts.Length) {
		return 0, false
	}
	return g.Feed(x, y)
}

// Done reports whether the password has reached the target length.
func (g *Generator) Done() bool { return len(g.password) >= g.opts.Length }

// Password returns the characters accumulated so far.
func (g *Generator) Password() string { return string(g.password) }

// Options returns the policy the generator was built with.
func (g *Generator) Options() Options { return g.opts }

// Reset discards the accumulated password and the pacing counter.
func (g *Generator) Reset() {
	g.password = g.password[:0]
	g.callCount = 0
}

// ShouldSample reports whether raw sample number callCount (1-based) should
// be fed into a generator of length passwords. It is true once every
// floor(Capacity/length) calls.
func ShouldSample(callCount, length int) bool {
	if length <= 0 || callCount <= 0 {
		return false
	}
	every := entropy.Capacity / length
	if every < 1 {
		every = 1
	}
	return callCount%every == 0
}

// FromPoints runs a whole sample sequence through a fresh generator with
// pacing applied and returns the result.
func FromPoints(opts Options, points []entropy.Point) (string, error) {
	g, err := New(opts)
	if err != nil {
		return "", err
	}
	for _, p := range points {
		g.Offer(p.X, p.Y)
		if g.Done() {
			break
		}
	}
	return g.Password(), nil
}
