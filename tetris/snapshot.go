package tetris

// Snapshot is a copy of the game state that is safe to hand to renderers
// and transports.
type Snapshot struct {
	Stack        Stack
	Tetromino    *Tetromino
	GhostY       int
	NexTetromino Shape
	Hold         Shape
	CanHold      bool
	Score        int
	Level        int
	LinesClear   int
	Status       Status
}

// Snapshot returns a copy of the current state with the ghost row filled in.
func (t *Tetris) Snapshot() *Snapshot {
	return &Snapshot{
		Stack:        t.Stack,
		Tetromino:    t.Tetromino.copy(),
		GhostY:       t.GhostY(),
		NexTetromino: t.NexTetromino,
		Hold:         t.Hold,
		CanHold:      t.CanHold,
		Score:        t.Score,
		Level:        t.Level,
		LinesClear:   t.LinesClear,
		Status:       t.Status,
	}
}

// Cells returns the stack with the falling tetromino drawn on top of it.
func (s *Snapshot) Cells() Stack {
	if s.Tetromino == nil {
		return s.Stack
	}
	return s.Stack.merge(s.Tetromino.Grid(), s.Tetromino.X, s.Tetromino.Y, s.Tetromino.Shape)
}
