package tetris

import (
	"log/slog"
	"sync"
	"time"
)

// MockTicker is a mock implementation of the ticker interface.
type MockTicker struct {
	ch          chan time.Time
	stop, reset bool
	mu          sync.Mutex
}

func NewMockTicker() *MockTicker { return &MockTicker{ch: make(chan time.Time)} }

func (m *MockTicker) C() <-chan time.Time { return m.ch }

// Tick delivers a tick stamped with at and blocks until the game takes it.
func (m *MockTicker) Tick(at time.Time) { m.ch <- at }

func (m *MockTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stop = true
}

func (m *MockTicker) Reset(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset = true
}

func (m *MockTicker) IsReset() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reset
}

func (m *MockTicker) IsStop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop
}

// Sequence is a Randomizer that cycles through a fixed list of kinds.
type Sequence struct {
	shapes []Shape
	i      int
}

func NewSequence(shapes ...Shape) *Sequence { return &Sequence{shapes: shapes} }

func (s *Sequence) Next() Shape {
	shape := s.shapes[s.i%len(s.shapes)]
	s.i++
	return shape
}

func (s *Sequence) Clone() Randomizer {
	c := *s
	return &c
}

// NewTestGame creates a game around the given *Tetris and returns it with a manual ticker.
func NewTestGame(t *Tetris) (*Game, *MockTicker) {
	ticker := NewMockTicker()
	g := NewConfigurableGame(&Options{
		Ticker: ticker,
		Logger: slog.New(slog.DiscardHandler),
	})
	g.tetris = t
	return g, ticker
}

// NewTestTetris creates a new Tetris where every piece, current and next,
// is of the given shape.
func NewTestTetris(shape Shape) *Tetris {
	return New(NewSequence(shape))
}
