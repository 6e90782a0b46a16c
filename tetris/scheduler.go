package tetris

import "time"

const (
	initialDropInterval = 800 * time.Millisecond
	dropSpeedUp         = 60 * time.Millisecond
	minDropInterval     = 120 * time.Millisecond
)

// DropInterval returns how long the tetromino waits between gravity steps
// at the given level.
func DropInterval(level int) time.Duration {
	if level < 1 {
		level = 1
	}
	return max(minDropInterval, initialDropInterval-time.Duration(level-1)*dropSpeedUp)
}

// dropScheduler turns tick timestamps into gravity steps. At most one step
// is taken per tick no matter how much time went by, so irregular ticks
// make the piece fall slower than the nominal interval.
type dropScheduler struct {
	last  time.Time
	armed bool
}

// due reports whether a gravity step should run at now. The first tick
// after disarm only sets the mark.
func (d *dropScheduler) due(now time.Time, level int) bool {
	if !d.armed {
		d.last = now
		d.armed = true
		return false
	}
	if now.Sub(d.last) < DropInterval(level) {
		return false
	}
	d.last = now
	return true
}

func (d *dropScheduler) disarm() {
	d.armed = false
}
