package tetris

import "slices"

const (
	Rows = 20
	Cols = 10
)

// Stack is the playfield. Row 0 is the top and rows grow downward;
// columns are 0 > 9 left to right.
// An empty Shape is an empty cell. Otherwise it holds the kind that
// locked there, which is also the color it will be rendered with.
type Stack [Rows][Cols]Shape

func emptyStack() Stack { return Stack{} }

// canPlace reports whether grid fits at column x and row y. Cells above
// the top of the stack are always legal so pieces can enter from above.
//
// .	0 1 2 3 4 5 6 7 8 9			0 1 2
// -1	. . . O . . . . . .		0	O . .
// 0	. . . O O O . . . .		1	O O O
// 1	. . . . . . . . . .		2	. . .
func (s *Stack) canPlace(grid [][]bool, x, y int) bool {
	for ir, r := range grid {
		for ic, c := range r {
			if !c {
				continue
			}
			row, col := y+ir, x+ic
			if col < 0 || col >= Cols || row >= Rows {
				return false
			}
			if row >= 0 && s[row][col] != "" {
				return false
			}
		}
	}
	return true
}

// merge returns a copy of the stack with grid written at x, y using shape
// as the color tag. Cells outside the stack are dropped.
func (s Stack) merge(grid [][]bool, x, y int, shape Shape) Stack {
	for ir, r := range grid {
		for ic, c := range r {
			row, col := y+ir, x+ic
			if c && row >= 0 && row < Rows && col >= 0 && col < Cols {
				s[row][col] = shape
			}
		}
	}
	return s
}

// clearLines removes every complete row and packs the survivors to the
// bottom, keeping their order. It returns the new stack and the number of
// rows removed.
func (s Stack) clearLines() (Stack, int) {
	var out Stack
	dst := Rows - 1
	for row := Rows - 1; row >= 0; row-- {
		if !slices.Contains(s[row][:], "") {
			continue
		}
		out[dst] = s[row]
		dst--
	}
	return out, dst + 1
}

// topReached reports whether any cell of the top row is occupied.
func (s *Stack) topReached() bool {
	return slices.ContainsFunc(s[0][:], func(c Shape) bool { return c != "" })
}
