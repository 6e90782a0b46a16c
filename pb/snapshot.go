package pb

import (
	"errors"
	"fmt"
	"strings"

	"blockfall/tetris"

	"google.golang.org/protobuf/types/known/structpb"
)

// emptyCell marks an empty cell in an encoded board row.
const emptyCell = '.'

var ErrMalformedSnapshot = errors.New("malformed snapshot")

// FromSnapshot encodes a game snapshot for the wire. Rows of the board are
// strings of ten characters, '.' for an empty cell or the kind letter.
func FromSnapshot(session string, s *tetris.Snapshot) (*structpb.Struct, error) {
	board := make([]any, tetris.Rows)
	for i, row := range s.Stack {
		var b strings.Builder
		for _, c := range row {
			if c == "" {
				b.WriteByte(emptyCell)
				continue
			}
			b.WriteString(string(c))
		}
		board[i] = b.String()
	}

	var piece any
	if t := s.Tetromino; t != nil {
		piece = map[string]any{
			"shape":    string(t.Shape),
			"rotation": t.Rotation,
			"x":        t.X,
			"y":        t.Y,
			"ghost_y":  s.GhostY,
		}
	}

	st, err := structpb.NewStruct(map[string]any{
		"session":  session,
		"board":    board,
		"piece":    piece,
		"next":     string(s.NexTetromino),
		"hold":     string(s.Hold),
		"can_hold": s.CanHold,
		"score":    s.Score,
		"level":    s.Level,
		"lines":    s.LinesClear,
		"status":   s.Status.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to encode snapshot: %w", err)
	}
	return st, nil
}

// ToSnapshot decodes a snapshot produced by FromSnapshot and returns it
// along with its session id.
func ToSnapshot(st *structpb.Struct) (string, *tetris.Snapshot, error) {
	f := st.GetFields()
	s := &tetris.Snapshot{
		NexTetromino: tetris.Shape(f["next"].GetStringValue()),
		Hold:         tetris.Shape(f["hold"].GetStringValue()),
		CanHold:      f["can_hold"].GetBoolValue(),
		Score:        int(f["score"].GetNumberValue()),
		Level:        int(f["level"].GetNumberValue()),
		LinesClear:   int(f["lines"].GetNumberValue()),
	}

	status, err := tetris.ParseStatus(f["status"].GetStringValue())
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}
	s.Status = status

	rows := f["board"].GetListValue().GetValues()
	if len(rows) != tetris.Rows {
		return "", nil, fmt.Errorf("%w: want %d rows, got %d", ErrMalformedSnapshot, tetris.Rows, len(rows))
	}
	for i, r := range rows {
		row := r.GetStringValue()
		if len(row) != tetris.Cols {
			return "", nil, fmt.Errorf("%w: row %d has %d cells", ErrMalformedSnapshot, i, len(row))
		}
		for j := range row {
			if row[j] == emptyCell {
				continue
			}
			shape := tetris.Shape(row[j : j+1])
			if !shape.Valid() {
				return "", nil, fmt.Errorf("%w: unknown cell %q at %d,%d", ErrMalformedSnapshot, shape, i, j)
			}
			s.Stack[i][j] = shape
		}
	}

	if p := f["piece"].GetStructValue(); p != nil {
		pf := p.GetFields()
		shape := tetris.Shape(pf["shape"].GetStringValue())
		if !shape.Valid() {
			return "", nil, fmt.Errorf("%w: unknown piece %q", ErrMalformedSnapshot, shape)
		}
		s.Tetromino = &tetris.Tetromino{
			Shape:    shape,
			Rotation: int(pf["rotation"].GetNumberValue()),
			X:        int(pf["x"].GetNumberValue()),
			Y:        int(pf["y"].GetNumberValue()),
		}
		s.GhostY = int(pf["ghost_y"].GetNumberValue())
	}
	return f["session"].GetStringValue(), s, nil
}
