package pb

import (
	"errors"
	"testing"

	"blockfall/tetris"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestFromSnapshot(t *testing.T) {
	tts := tetris.NewTestTetris(tetris.J)
	tts.Stack[19][0] = tetris.Z
	tts.Hold = tetris.T
	tts.Score = 300

	st, err := FromSnapshot("abc", tts.Snapshot())
	require.NoError(t, err)

	f := st.GetFields()
	assert.Equal(t, "abc", f["session"].GetStringValue())
	rows := f["board"].GetListValue().GetValues()
	require.Len(t, rows, tetris.Rows)
	assert.Equal(t, "..........", rows[0].GetStringValue())
	assert.Equal(t, "Z.........", rows[19].GetStringValue())
	assert.Equal(t, "J", f["next"].GetStringValue())
	assert.Equal(t, "T", f["hold"].GetStringValue())
	assert.Equal(t, float64(300), f["score"].GetNumberValue())
	assert.Equal(t, "running", f["status"].GetStringValue())

	piece := f["piece"].GetStructValue().GetFields()
	assert.Equal(t, "J", piece["shape"].GetStringValue())
	assert.Equal(t, float64(-2), piece["y"].GetNumberValue())
	assert.Equal(t, float64(18), piece["ghost_y"].GetNumberValue())
}

func TestToSnapshot(t *testing.T) {
	t.Run("decodes what FromSnapshot encodes", func(t *testing.T) {
		tts := tetris.NewTestTetris(tetris.L)
		tts.Apply(tetris.Event{Action: tetris.DropDown})
		tts.Apply(tetris.Event{Action: tetris.Hold})
		tts.Apply(tetris.Event{Action: tetris.Pause})
		want := tts.Snapshot()

		st, err := FromSnapshot("xyz", want)
		require.NoError(t, err)
		session, got, err := ToSnapshot(st)
		require.NoError(t, err)
		assert.Equal(t, "xyz", session)
		assert.Equal(t, want, got)
	})

	t.Run("without a piece", func(t *testing.T) {
		want := &tetris.Snapshot{Level: 1, Status: tetris.GameOver}
		st, err := FromSnapshot("", want)
		require.NoError(t, err)
		_, got, err := ToSnapshot(st)
		require.NoError(t, err)
		assert.Nil(t, got.Tetromino)
		assert.Equal(t, want, got)
	})

	tests := []struct {
		name   string
		mutate func(f map[string]*structpb.Value)
	}{
		{
			name:   "missing board",
			mutate: func(f map[string]*structpb.Value) { delete(f, "board") },
		},
		{
			name: "short row",
			mutate: func(f map[string]*structpb.Value) {
				f["board"].GetListValue().Values[3] = structpb.NewStringValue("...")
			},
		},
		{
			name: "unknown cell",
			mutate: func(f map[string]*structpb.Value) {
				f["board"].GetListValue().Values[3] = structpb.NewStringValue("....X.....")
			},
		},
		{
			name:   "unknown status",
			mutate: func(f map[string]*structpb.Value) { f["status"] = structpb.NewStringValue("won") },
		},
		{
			name: "unknown piece",
			mutate: func(f map[string]*structpb.Value) {
				f["piece"].GetStructValue().Fields["shape"] = structpb.NewStringValue("Q")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := FromSnapshot("", tetris.NewTestTetris(tetris.S).Snapshot())
			require.NoError(t, err)
			tt.mutate(st.Fields)
			_, _, err = ToSnapshot(st)
			if !errors.Is(err, ErrMalformedSnapshot) {
				t.Errorf("wanted ErrMalformedSnapshot, got %v", err)
			}
		})
	}
}
