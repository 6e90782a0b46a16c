package tetris

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultFrame is how often the game feeds ticks to the drop scheduler.
// It has to stay well below the shortest drop interval.
const DefaultFrame = 16 * time.Millisecond

type Ticker interface {
	C() <-chan time.Time
	Reset(time.Duration)
	Stop()
}

type wrappedTicker struct {
	ticker *time.Ticker
}

func newWrappedTicker(d time.Duration) *wrappedTicker {
	t := &wrappedTicker{ticker: time.NewTicker(d)}
	t.ticker.Stop()
	return t
}

func (t *wrappedTicker) C() <-chan time.Time   { return t.ticker.C }
func (t *wrappedTicker) Stop()                 { t.ticker.Stop() }
func (t *wrappedTicker) Reset(d time.Duration) { t.ticker.Reset(d) }

// Game owns a single Tetris and serializes the ticker and player actions
// through one mutex, so every lock sequence runs to completion before a
// reader can look at the state.
type Game struct {
	updateCh chan *Snapshot
	actionCh chan Action
	doneCh   chan struct{}
	stopOnce sync.Once

	mu     sync.Mutex
	tetris *Tetris
	ticker Ticker
	frame  time.Duration
	logger *slog.Logger
}

type Options struct {
	Ticker     Ticker
	Frame      time.Duration
	Randomizer Randomizer
	Logger     *slog.Logger
}

func NewGame() *Game {
	return NewConfigurableGame(&Options{})
}

func NewConfigurableGame(o *Options) *Game {
	frame := o.Frame
	if frame <= 0 {
		frame = DefaultFrame
	}
	ticker := o.Ticker
	if ticker == nil {
		ticker = newWrappedTicker(frame)
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Game{
		updateCh: make(chan *Snapshot),
		actionCh: make(chan Action),
		doneCh:   make(chan struct{}),
		tetris:   New(o.Randomizer),
		ticker:   ticker,
		frame:    frame,
		logger:   logger,
	}
}

// Start runs the game loop in the background. The first update carries the
// initial state.
func (g *Game) Start() {
	go g.listen()
}

// Stop ends the game loop and closes the update channel. It is safe to call
// more than once.
func (g *Game) Stop() {
	g.stopOnce.Do(func() {
		g.ticker.Stop()
		close(g.doneCh)
	})
}

// Action queues a on the game loop. It returns immediately once the game
// has been stopped.
func (g *Game) Action(a Action) {
	select {
	case g.actionCh <- a:
	case <-g.doneCh:
	}
}

// GetUpdate returns the channel that receives a snapshot after every change.
func (g *Game) GetUpdate() <-chan *Snapshot { return g.updateCh }

// Read returns a copy of the current state that's safe to read concurrently.
func (g *Game) Read() *Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tetris.Snapshot()
}

func (g *Game) listen() {
	defer close(g.updateCh)
	g.ticker.Reset(g.frame)
	if !g.publish() {
		return
	}
	for {
		var changed bool
		select {
		case now := <-g.ticker.C():
			changed = g.apply(Event{Action: Tick, At: now})
		case a := <-g.actionCh:
			changed = g.apply(Event{Action: a})
		case <-g.doneCh:
			return
		}
		if changed && !g.publish() {
			return
		}
	}
}

func (g *Game) apply(e Event) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	before := g.tetris.Status
	changed := g.tetris.Apply(e)
	if after := g.tetris.Status; after != before {
		g.logger.Debug("status changed",
			slog.String("from", before.String()),
			slog.String("to", after.String()),
			slog.Int("score", g.tetris.Score),
			slog.Int("level", g.tetris.Level),
		)
	}
	return changed
}

func (g *Game) publish() bool {
	select {
	case g.updateCh <- g.Read():
		return true
	case <-g.doneCh:
		return false
	}
}
