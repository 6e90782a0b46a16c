// Package client is the terminal front end: it maps keys to game actions
// and renders every snapshot the game publishes. The game itself runs
// either in process or on a remote server.
package client

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"blockfall/tetris"

	"github.com/eiannone/keyboard"
)

const (
	welcome        = "choose a mode"
	connecting     = "connecting to server..."
	connectionLost = "game closed :("
)

type clientState int

const (
	lobby clientState = iota
	playing
)

type state struct {
	current clientState
	game    tetrisGame
	mu      sync.Mutex
}

func (s *state) get() clientState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *state) play(g tetrisGame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = playing
	s.game = g
}

func (s *state) leave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = lobby
	s.game = nil
}

// closed moves back to the lobby if g is the game being played.
func (s *state) closed(g tetrisGame) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != playing || s.game != g {
		return false
	}
	s.current = lobby
	s.game = nil
	return true
}

type tetrisGame interface {
	Start()
	Stop()
	Action(tetris.Action)
	GetUpdate() <-chan *tetris.Snapshot
}

type renderer interface {
	game(*tetris.Snapshot)
	lobby(string)
	reset()
}

type Client struct {
	newLocal  func() tetrisGame
	newRemote func() tetrisGame
	tetris    tetrisGame
	render    renderer
	logger    *slog.Logger
	kbCh      <-chan keyboard.KeyEvent
	state     *state
}

type Options struct {
	NoGhost bool
	Address string
	Name    string
	Writer  io.Writer
}

func New(l *slog.Logger, o *Options) (*Client, error) {
	var w io.Writer = os.Stdout
	if o.Writer != nil {
		w = o.Writer
	}
	r, err := newRender(w, l, o.NoGhost, o.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load renderer: %w", err)
	}
	kb, err := keyboard.GetKeys(20)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyboard: %w", err)
	}
	return &Client{
		newLocal: func() tetrisGame {
			return tetris.NewConfigurableGame(&tetris.Options{Logger: l})
		},
		newRemote: func() tetrisGame { return newRemoteGame(o.Address, l) },
		render:    r,
		logger:    l,
		kbCh:      kb,
		state:     &state{current: lobby},
	}, nil
}

// Start shows the lobby and blocks until the player quits.
func (c *Client) Start() {
	c.render.reset()
	c.render.lobby(welcome)
	c.listenKB()
	if c.tetris != nil {
		c.tetris.Stop()
	}
}

// Close releases the keyboard.
func (c *Client) Close() error {
	return keyboard.Close()
}

func (c *Client) listenKB() {
	for {
		event, ok := <-c.kbCh
		if !ok {
			c.logger.Error("Keyboard events channel closed unexpectedly")
			return
		}
		if event.Err != nil {
			c.logger.Error("keysEvents error", slog.String("error", event.Err.Error()))
			return
		}
		if event.Key == keyboard.KeyCtrlC {
			return
		}
		switch c.state.get() {
		case lobby:
			switch event.Rune {
			case 'p':
				c.play(c.newLocal())
			case 'o':
				c.render.lobby(connecting)
				c.play(c.newRemote())
			case 'q':
				return
			}
		case playing:
			if event.Key == keyboard.KeyEsc {
				c.state.leave()
				c.tetris.Stop()
				c.render.reset()
				c.render.lobby(welcome)
				continue
			}
			if a, ok := keyAction(event); ok {
				c.tetris.Action(a)
			}
		}
	}
}

func (c *Client) play(g tetrisGame) {
	if c.tetris != nil {
		c.tetris.Stop()
	}
	c.tetris = g
	c.state.play(g)
	c.render.reset()
	g.Start()
	go c.listenTetris(g)
}

// listenTetris renders updates until the game closes its channel. A game
// that closes while still being played went away on its own, so the
// lobby comes back.
func (c *Client) listenTetris(g tetrisGame) {
	for u := range g.GetUpdate() {
		c.render.game(u)
	}
	if c.state.closed(g) {
		c.logger.Debug("game closed while playing")
		c.render.lobby(connectionLost)
	}
}

func keyAction(event keyboard.KeyEvent) (tetris.Action, bool) {
	switch {
	case event.Key == keyboard.KeyArrowDown || event.Rune == 's':
		return tetris.MoveDown, true
	case event.Key == keyboard.KeyArrowLeft || event.Rune == 'a':
		return tetris.MoveLeft, true
	case event.Key == keyboard.KeyArrowRight || event.Rune == 'd':
		return tetris.MoveRight, true
	case event.Key == keyboard.KeyArrowUp || event.Rune == 'e' || event.Rune == 'x' || event.Rune == 'w':
		return tetris.RotateRight, true
	case event.Rune == 'q' || event.Rune == 'z':
		return tetris.RotateLeft, true
	case event.Key == keyboard.KeySpace:
		return tetris.DropDown, true
	case event.Rune == 'c':
		return tetris.Hold, true
	case event.Rune == 'p':
		return tetris.Pause, true
	case event.Rune == 'r':
		return tetris.Reset, true
	}
	return "", false
}
