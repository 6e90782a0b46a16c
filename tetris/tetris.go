// Package tetris contains the logic of the game: a 10x20 stack, the falling
// tetromino, a hold slot, a single next piece and level progression.
// Every transition goes through Apply so the same lock sequence serves
// gravity and player commands.
package tetris

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

type Action string

const (
	MoveLeft    Action = "left"      // Moves the Tetromino one step to the left.
	MoveRight   Action = "right"     // Moves the Tetromino one step to the right.
	MoveDown    Action = "down"      // Moves the Tetromino one step down.
	DropDown    Action = "drop"      // Drops the Tetromino down the stack and locks it.
	RotateRight Action = "rotatecw"  // Rotates the Tetromino clockwise.
	RotateLeft  Action = "rotateccw" // Rotates the Tetromino counter-clockwise.
	Hold        Action = "hold"      // Swaps the Tetromino with the hold slot.
	Pause       Action = "pause"     // Toggles between running and paused.
	Reset       Action = "reset"     // Starts a new game from scratch.
	Tick        Action = "tick"      // Advances the drop scheduler to Event.At.
)

var ErrUnknownAction = errors.New("unknown action")

var actions = map[Action]struct{}{
	MoveLeft: {}, MoveRight: {}, MoveDown: {}, DropDown: {}, RotateRight: {},
	RotateLeft: {}, Hold: {}, Pause: {}, Reset: {}, Tick: {},
}

// ParseAction validates a command received from outside the process.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if _, ok := actions[a]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return a, nil
}

// Event is a single input to the state machine. At is only read for Tick.
type Event struct {
	Action Action
	At     time.Time
}

type Status int

const (
	Running Status = iota
	Paused
	GameOver
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case GameOver:
		return "gameover"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, error) {
	for _, st := range []Status{Running, Paused, GameOver} {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

// Randomizer draws the next kind.
type Randomizer interface {
	Next() Shape
	// Clone returns an independent copy that draws the same kinds as the
	// receiver from this point on.
	Clone() Randomizer
}

// uniform draws every kind independently with equal odds. Long runs of the
// same kind are possible.
type uniform struct {
	src rand.PCG
}

func newUniform() *uniform {
	return &uniform{src: *rand.NewPCG(rand.Uint64(), rand.Uint64())}
}

func (u *uniform) Next() Shape { return Shapes[rand.New(&u.src).IntN(len(Shapes))] }

func (u *uniform) Clone() Randomizer {
	c := *u
	return &c
}

var (
	scoreTable = [...]int{0, 100, 300, 500, 800}
	kicks      = [...]int{0, -1, 1, -2, 2}
)

const linesPerLevel = 10

type Tetris struct {
	Stack        Stack
	Tetromino    *Tetromino
	NexTetromino Shape
	Hold         Shape
	CanHold      bool
	Score        int
	Level        int
	LinesClear   int
	Status       Status

	scheduler dropScheduler
	rand      Randomizer
}

// New returns a running game with a fresh stack and random pieces.
func New(r Randomizer) *Tetris {
	if r == nil {
		r = newUniform()
	}
	t := &Tetris{rand: r}
	t.reset()
	return t
}

// Step is the pure form of Apply: it returns the state that follows e and
// leaves s untouched, randomizer included, so the same s and e always give
// the same result.
func Step(s *Tetris, e Event) *Tetris {
	n := s.clone()
	n.Apply(e)
	return n
}

// Apply runs e against the state and reports whether anything observable
// changed. Illegal moves are absorbed without error. While paused only
// Pause and Reset are accepted; after game over only Reset.
func (t *Tetris) Apply(e Event) bool {
	switch e.Action {
	case Reset:
		t.reset()
		return true
	case Pause:
		return t.togglePause()
	}
	if t.Status != Running || t.Tetromino == nil {
		return false
	}
	switch e.Action {
	case MoveLeft:
		return t.move(-1, 0)
	case MoveRight:
		return t.move(1, 0)
	case MoveDown:
		return t.move(0, 1)
	case RotateRight:
		return t.rotate(1)
	case RotateLeft:
		return t.rotate(-1)
	case DropDown:
		t.drop()
		return true
	case Hold:
		return t.hold()
	case Tick:
		if !t.scheduler.due(e.At, t.Level) {
			return false
		}
		if !t.move(0, 1) {
			t.lock()
		}
		return true
	}
	return false
}

// GhostY returns the row the tetromino would land on if dropped now.
func (t *Tetris) GhostY() int {
	if t.Tetromino == nil {
		return 0
	}
	return t.Tetromino.Y + t.dropDownDelta()
}

func (t *Tetris) reset() {
	t.Stack = emptyStack()
	t.Tetromino = nil
	t.Hold = ""
	t.Score = 0
	t.Level = 1
	t.LinesClear = 0
	t.Status = Running
	t.scheduler.disarm()
	t.spawn(t.rand.Next())
	t.NexTetromino = t.rand.Next()
}

func (t *Tetris) togglePause() bool {
	switch t.Status {
	case Running:
		t.Status = Paused
	case Paused:
		t.Status = Running
		// time spent paused never counts towards the next gravity step.
		t.scheduler.disarm()
	default:
		return false
	}
	return true
}

func (t *Tetris) move(dx, dy int) bool {
	tt := t.Tetromino
	if !t.Stack.canPlace(tt.Grid(), tt.X+dx, tt.Y+dy) {
		return false
	}
	tt.X += dx
	tt.Y += dy
	return true
}

// rotate tries the next rotation state at the current column and then at
// each horizontal kick offset in order. The first fit wins.
func (t *Tetris) rotate(dir int) bool {
	tt := t.Tetromino
	n := tt.Shape.States()
	rot := ((tt.Rotation+dir)%n + n) % n
	grid := Rotate(tt.Shape, rot)
	for _, k := range kicks {
		if t.Stack.canPlace(grid, tt.X+k, tt.Y) {
			tt.Rotation = rot
			tt.X += k
			return true
		}
	}
	return false
}

func (t *Tetris) dropDownDelta() int {
	tt := t.Tetromino
	grid := tt.Grid()
	var delta int
	for t.Stack.canPlace(grid, tt.X, tt.Y+delta+1) {
		delta++
	}
	return delta
}

func (t *Tetris) drop() {
	t.Tetromino.Y += t.dropDownDelta()
	t.lock()
}

// lock merges the tetromino into the stack, clears lines, checks for a top
// out, scores and spawns the next piece. No intermediate state of this
// sequence is ever visible outside Apply.
func (t *Tetris) lock() {
	tt := t.Tetromino
	stack, cleared := t.Stack.merge(tt.Grid(), tt.X, tt.Y, tt.Shape).clearLines()
	if stack.topReached() {
		t.Stack = stack
		t.Status = GameOver
		return
	}
	if cleared > 0 {
		t.Score += score(cleared) * t.Level
		t.LinesClear += cleared
	}
	t.setLevel()
	t.Stack = stack
	next := t.NexTetromino
	t.NexTetromino = t.rand.Next()
	t.spawn(next)
}

// setLevel raises the level by one at most, even when a single lock
// crosses more than one threshold.
func (t *Tetris) setLevel() {
	if t.LinesClear >= t.Level*linesPerLevel {
		t.Level++
	}
}

func score(lines int) int {
	if lines < 0 || lines >= len(scoreTable) {
		return 0
	}
	return scoreTable[lines]
}

// spawn places shape at the spawn point. When it does not fit the game is
// over and nothing else changes.
//
// .	0 1 2 3 4 5 6 7 8 9
// -2	. . . O . . . . . .
// -1	. . . O O O . . . .
// 0	. . . . . . . . . .
func (t *Tetris) spawn(shape Shape) bool {
	x, y := Cols/2-2, -2
	if !t.Stack.canPlace(Rotate(shape, 0), x, y) {
		t.Status = GameOver
		return false
	}
	t.Tetromino = &Tetromino{Shape: shape, X: x, Y: y}
	t.CanHold = true
	return true
}

// hold stores the tetromino in the hold slot. With an empty slot the next
// piece comes in; otherwise the held kind swaps in and the next piece is
// left alone. Only one hold is allowed between two locks.
func (t *Tetris) hold() bool {
	if !t.CanHold {
		return false
	}
	current := t.Tetromino.Shape
	if t.Hold == "" {
		t.Hold = current
		next := t.NexTetromino
		t.NexTetromino = t.rand.Next()
		t.spawn(next)
	} else {
		held := t.Hold
		t.Hold = current
		t.spawn(held)
	}
	t.CanHold = false
	return true
}

func (t *Tetris) clone() *Tetris {
	c := *t
	c.Tetromino = t.Tetromino.copy()
	if t.rand != nil {
		c.rand = t.rand.Clone()
	}
	return &c
}
