package client

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"text/template"

	"blockfall/tetris"
)

const (
	// Reset cursor position to 0,0
	resetPos    = "\033[H"
	clearScreen = "\033[2J\033[H"
	emptyCell   = "  "
	ghostCell   = "[]"
	sideWidth   = 22
)

//go:embed "layout.tmpl"
var layout string

// colorMap holds the 24-bit ANSI foreground of every kind, derived from the
// kind's hex color.
var colorMap = func() map[tetris.Shape]string {
	m := make(map[tetris.Shape]string, len(tetris.Shapes))
	for _, s := range tetris.Shapes {
		rgb, err := strconv.ParseUint(strings.TrimPrefix(s.Color(), "#"), 16, 32)
		if err != nil {
			panic(fmt.Sprintf("invalid color for %s: %v", s, err))
		}
		m[s] = fmt.Sprintf("38;2;%d;%d;%d", rgb>>16&0xff, rgb>>8&0xff, rgb&0xff)
	}
	return m
}()

func cell(s tetris.Shape) string {
	return fmt.Sprintf("\x1b[7m\x1b[%sm[]\x1b[0m", colorMap[s])
}

type templateData struct {
	Game    *tetris.Snapshot
	Name    string
	NoGhost bool
}

type render struct {
	writer   io.Writer
	logger   *slog.Logger
	template *template.Template
	mu       sync.Mutex
	*templateData
}

func newRender(w io.Writer, l *slog.Logger, noGhost bool, name string) (*render, error) {
	tmp, err := loadTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return &render{
		writer:   w,
		logger:   l,
		template: tmp,
		templateData: &templateData{
			Name:    name,
			NoGhost: noGhost,
		},
	}, nil
}

func (r *render) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprint(r.writer, clearScreen)
}

func (r *render) lobby(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.execute()
	fmt.Fprint(r.writer, "\033[10;3H+--------------------------------------+")
	fmt.Fprint(r.writer, "\033[11;3H|      Welcome to Terminal Tetris      |")
	fmt.Fprintf(r.writer, "\033[12;3H|%s|", center(msg, 38))
	fmt.Fprint(r.writer, "\033[13;3H|      (p)lay   (o)nline   (q)uit      |")
	fmt.Fprint(r.writer, "\033[14;3H+--------------------------------------+")
}

func (r *render) game(s *tetris.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Game = s
	r.execute()
}

func (r *render) execute() {
	fmt.Fprint(r.writer, resetPos)
	if err := r.template.Execute(r.writer, r.templateData); err != nil {
		r.logger.Error("unable to execute template", slog.String("error", err.Error()))
	}
}

func loadTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"stack": stack,
		"side":  side,
	}

	// we use the console raw so new lines don't automatically transform into carriage return
	// to fix that we add a carriage return to every new line in the layout.
	l := strings.ReplaceAll(layout, "\n", "\r\n")
	l = strings.ReplaceAll(l, "Terminal Tetris", "\033[1mTerminal Tetris\033[0m")
	return template.New("layout").Funcs(funcMap).Parse(l)
}

// stack renders the stack with the falling tetromino on top and the ghost
// in the free cells below it. Cells above the top row are not drawn.
func stack(t *templateData) [tetris.Rows][tetris.Cols]string {
	rendered := [tetris.Rows][tetris.Cols]string{}
	for y := range rendered {
		for x := range rendered[y] {
			rendered[y][x] = emptyCell
		}
	}
	if t == nil || t.Game == nil {
		return rendered
	}

	cells := t.Game.Cells()
	for y, row := range cells {
		for x, c := range row {
			if c != "" {
				rendered[y][x] = cell(c)
			}
		}
	}

	tt := t.Game.Tetromino
	if tt == nil || t.NoGhost || t.Game.Status == tetris.GameOver {
		return rendered
	}
	for iy, row := range tt.Grid() {
		for ix, c := range row {
			y, x := t.Game.GhostY+iy, tt.X+ix
			if c && y >= 0 && y < tetris.Rows && x >= 0 && x < tetris.Cols && cells[y][x] == "" {
				rendered[y][x] = ghostCell
			}
		}
	}
	return rendered
}

// preview renders the first two rows of the spawn state of a kind, four
// cells wide.
func preview(s tetris.Shape) []string {
	var rendered []string
	grid := tetris.Rotate(s, 0)
	for i := range 2 {
		row := []string{emptyCell, emptyCell, emptyCell, emptyCell}
		if i < len(grid) {
			for iv, v := range grid[i] {
				if v {
					row[iv] = cell(s)
				}
			}
		}
		rendered = append(rendered, strings.Join(row, ""))
	}
	return rendered
}

// side returns the text of the panel at the right of stack row i.
func side(t *templateData, i int) string {
	if t == nil || t.Game == nil {
		return ""
	}
	g := t.Game
	var out string
	switch i {
	case 0:
		out = "  Next"
	case 1, 2:
		out = "  " + preview(g.NexTetromino)[i-1]
	case 4:
		out = "  Hold"
		if !g.CanHold {
			out += " (used)"
		}
	case 5, 6:
		out = "  " + preview(g.Hold)[i-5]
	case 8:
		out = fmt.Sprintf("  Score: %d", g.Score)
	case 9:
		out = fmt.Sprintf("  Level: %d", g.Level)
	case 10:
		out = fmt.Sprintf("  Lines: %d", g.LinesClear)
	case 12:
		switch g.Status {
		case tetris.Paused:
			out = "  PAUSED (p)"
		case tetris.GameOver:
			out = "  GAME OVER"
		}
	case 13:
		if g.Status == tetris.GameOver {
			out = "  (r)estart (esc)lobby"
		}
	}
	// pad plain text lines so that shorter text overwrites longer leftovers.
	if !strings.Contains(out, "\x1b") && len(out) < sideWidth {
		out += strings.Repeat(" ", sideWidth-len(out))
	}
	return out
}

func center(s string, width int) string {
	if len(s) > width {
		return s[:width]
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}
