package tetris

// Shape identifies one of the seven tetromino kinds. It doubles as the
// color tag stored in the stack: an empty string is an empty cell.
type Shape string

const (
	I Shape = "I"
	J Shape = "J"
	L Shape = "L"
	O Shape = "O"
	S Shape = "S"
	T Shape = "T"
	Z Shape = "Z"
)

// Shapes lists every kind in catalog order.
var Shapes = [7]Shape{I, J, L, O, S, T, Z}

type definition struct {
	color     string
	rotations [][][]bool
}

// catalog holds the rotation states of every kind. Rotation is a lookup in
// these tables, never a geometric transform. Nothing mutates them.
var catalog = map[Shape]definition{
	/*
		.	0 1 2 3		.	0 1 2 3
		0	. . . .		0	. . O .
		1	O O O O		1	. . O .
		2	. . . .		2	. . O .
		3	. . . .		3	. . O .
	*/
	I: {
		color: "#22d3ee",
		rotations: [][][]bool{
			{
				{false, false, false, false},
				{true, true, true, true},
				{false, false, false, false},
				{false, false, false, false},
			},
			{
				{false, false, true, false},
				{false, false, true, false},
				{false, false, true, false},
				{false, false, true, false},
			},
		},
	},
	J: {
		color: "#60a5fa",
		rotations: [][][]bool{
			{
				{true, false, false},
				{true, true, true},
				{false, false, false},
			},
			{
				{false, true, true},
				{false, true, false},
				{false, true, false},
			},
			{
				{false, false, false},
				{true, true, true},
				{false, false, true},
			},
			{
				{false, true, false},
				{false, true, false},
				{true, true, false},
			},
		},
	},
	L: {
		color: "#fb923c",
		rotations: [][][]bool{
			{
				{false, false, true},
				{true, true, true},
				{false, false, false},
			},
			{
				{false, true, false},
				{false, true, false},
				{false, true, true},
			},
			{
				{false, false, false},
				{true, true, true},
				{true, false, false},
			},
			{
				{true, true, false},
				{false, true, false},
				{false, true, false},
			},
		},
	},
	O: {
		color: "#fde047",
		rotations: [][][]bool{
			{
				{true, true},
				{true, true},
			},
		},
	},
	S: {
		color: "#34d399",
		rotations: [][][]bool{
			{
				{false, true, true},
				{true, true, false},
				{false, false, false},
			},
			{
				{false, true, false},
				{false, true, true},
				{false, false, true},
			},
		},
	},
	T: {
		color: "#a78bfa",
		rotations: [][][]bool{
			{
				{false, true, false},
				{true, true, true},
				{false, false, false},
			},
			{
				{false, true, false},
				{false, true, true},
				{false, true, false},
			},
			{
				{false, false, false},
				{true, true, true},
				{false, true, false},
			},
			{
				{false, true, false},
				{true, true, false},
				{false, true, false},
			},
		},
	},
	Z: {
		color: "#f472b6",
		rotations: [][][]bool{
			{
				{true, true, false},
				{false, true, true},
				{false, false, false},
			},
			{
				{false, false, true},
				{false, true, true},
				{false, true, false},
			},
		},
	},
}

// Valid reports whether s is one of the seven kinds.
func (s Shape) Valid() bool {
	_, ok := catalog[s]
	return ok
}

// Color returns the display color of the kind as a hex string.
func (s Shape) Color() string { return catalog[s].color }

// States returns the number of rotation states of the kind.
func (s Shape) States() int { return len(catalog[s].rotations) }

// Rotate returns the grid of shape at rotation index rot. The index wraps
// in both directions so -1 is the last state.
// The returned grid is shared with the catalog and must not be modified.
func Rotate(shape Shape, rot int) [][]bool {
	r := catalog[shape].rotations
	n := len(r)
	if n == 0 {
		return nil
	}
	return r[((rot%n)+n)%n]
}

// Tetromino is the falling piece. X and Y are the column and row of the
// top-left corner of its grid; Y is negative while the piece is still
// entering the stack from above.
type Tetromino struct {
	Shape    Shape
	Rotation int
	X, Y     int
}

// Grid returns the current rotation state of the tetromino.
func (t *Tetromino) Grid() [][]bool {
	return Rotate(t.Shape, t.Rotation)
}

func (t *Tetromino) copy() *Tetromino {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
