package tetris_test

import (
	"testing"
	"time"

	"blockfall/tetris"
)

func receive(t *testing.T, g *tetris.Game) *tetris.Snapshot {
	t.Helper()
	select {
	case s, ok := <-g.GetUpdate():
		if !ok {
			t.Fatal("update channel closed")
		}
		return s
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for update")
	}
	return nil
}

func expectNoUpdate(t *testing.T, g *tetris.Game) {
	t.Helper()
	select {
	case s := <-g.GetUpdate():
		t.Errorf("wanted no update, got %+v", s)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUpdateCh(t *testing.T) {
	game, ticker := tetris.NewTestGame(tetris.NewTestTetris(tetris.J))
	game.Start()
	defer game.Stop()

	s := receive(t, game)
	if s.Tetromino.X != 3 || s.Tetromino.Y != -2 {
		t.Errorf("wanted initial tetromino at 3,-2, got %d,%d", s.Tetromino.X, s.Tetromino.Y)
	}
	if s.GhostY != 18 {
		t.Errorf("wanted ghost at 18, got %d", s.GhostY)
	}

	game.Action(tetris.MoveLeft)
	if s := receive(t, game); s.Tetromino.X != 2 {
		t.Errorf("wanted X 2, got %d", s.Tetromino.X)
	}

	// the first tick arms the scheduler and changes nothing.
	base := time.Now()
	ticker.Tick(base)
	expectNoUpdate(t, game)

	ticker.Tick(base.Add(tetris.DropInterval(1)))
	if s := receive(t, game); s.Tetromino.Y != -1 {
		t.Errorf("wanted Y -1 after gravity, got %d", s.Tetromino.Y)
	}

	// moves into the wall are absorbed without an update.
	for range 2 {
		game.Action(tetris.MoveLeft)
		receive(t, game)
	}
	game.Action(tetris.MoveLeft)
	expectNoUpdate(t, game)
}

func TestDropPublishesLockedState(t *testing.T) {
	game, _ := tetris.NewTestGame(tetris.NewTestTetris(tetris.O))
	game.Start()
	defer game.Stop()
	receive(t, game)

	game.Action(tetris.DropDown)
	s := receive(t, game)
	if s.Stack[19][4] != tetris.O || s.Stack[18][3] != tetris.O {
		t.Errorf("wanted O locked at the bottom, got %v", s.Stack[18:])
	}
	if s.Tetromino.Y != -2 {
		t.Errorf("wanted a new tetromino at the spawn row, got %d", s.Tetromino.Y)
	}
	if got := game.Read(); got.Stack != s.Stack {
		t.Errorf("Read() should match the last update")
	}
}

func TestPauseAndReset(t *testing.T) {
	game, _ := tetris.NewTestGame(tetris.NewTestTetris(tetris.T))
	game.Start()
	defer game.Stop()
	receive(t, game)

	game.Action(tetris.Pause)
	if s := receive(t, game); s.Status != tetris.Paused {
		t.Errorf("wanted paused, got %v", s.Status)
	}
	game.Action(tetris.MoveLeft)
	expectNoUpdate(t, game)

	game.Action(tetris.Reset)
	s := receive(t, game)
	if s.Status != tetris.Running || s.Score != 0 || s.Level != 1 {
		t.Errorf("wanted a fresh running game, got %+v", s)
	}
}

func TestStartStop(t *testing.T) {
	game, ticker := tetris.NewTestGame(tetris.NewTestTetris(tetris.J))
	game.Start()
	receive(t, game)
	if !ticker.IsReset() {
		t.Errorf("Expected ticker to be reset")
	}
	game.Stop()
	game.Stop()
	if !ticker.IsStop() {
		t.Errorf("Expected ticker to be stopped")
	}

	select {
	case _, ok := <-game.GetUpdate():
		if ok {
			t.Errorf("wanted update channel to be closed")
		}
	case <-time.After(time.Second):
		t.Errorf("timed out waiting for update channel to close")
	}

	done := make(chan struct{})
	go func() { game.Action(tetris.MoveLeft); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Errorf("Action() should not block after Stop()")
	}
}
