package server

import (
	"context"
	"log"
	"net"
	"testing"

	"blockfall/pb"
	"blockfall/tetris"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func TestPlay(t *testing.T) {
	ctx := context.Background()
	client, closer := testServer(ctx)
	defer closer()

	stream, err := client.Play(ctx)
	require.NoError(t, err)

	first, err := stream.Recv()
	require.NoError(t, err)
	id, s, err := pb.ToSnapshot(first)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, tetris.Running, s.Status)
	assert.Equal(t, &tetris.Tetromino{Shape: tetris.O, X: 3, Y: -2}, s.Tetromino)

	require.NoError(t, stream.Send(wrapperspb.String(string(tetris.MoveLeft))))
	msg, err := stream.Recv()
	require.NoError(t, err)
	_, s, err = pb.ToSnapshot(msg)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Tetromino.X)

	require.NoError(t, stream.Send(wrapperspb.String(string(tetris.DropDown))))
	msg, err = stream.Recv()
	require.NoError(t, err)
	_, s, err = pb.ToSnapshot(msg)
	require.NoError(t, err)
	assert.Equal(t, tetris.O, s.Stack[19][2])

	t.Run("session returns the latest snapshot", func(t *testing.T) {
		msg, err := client.Session(ctx, wrapperspb.String(id))
		require.NoError(t, err)
		sid, got, err := pb.ToSnapshot(msg)
		require.NoError(t, err)
		assert.Equal(t, id, sid)
		assert.Equal(t, s, got)
	})

	require.NoError(t, stream.CloseSend())
	_, err = stream.Recv()
	assert.Error(t, err)
}

func TestPlayRejectsInvalidActions(t *testing.T) {
	tests := []string{"jump", string(tetris.Tick), ""}
	for _, action := range tests {
		t.Run(action, func(t *testing.T) {
			ctx := context.Background()
			client, closer := testServer(ctx)
			defer closer()

			stream, err := client.Play(ctx)
			require.NoError(t, err)
			_, err = stream.Recv()
			require.NoError(t, err)

			require.NoError(t, stream.Send(wrapperspb.String(action)))
			_, err = stream.Recv()
			if status.Code(err) != codes.InvalidArgument {
				t.Errorf("wanted InvalidArgument, got %v", err)
			}
		})
	}
}

func TestSessionNotFound(t *testing.T) {
	ctx := context.Background()
	client, closer := testServer(ctx)
	defer closer()

	_, err := client.Session(ctx, wrapperspb.String("nope"))
	if status.Code(err) != codes.NotFound {
		t.Errorf("wanted NotFound, got %v", err)
	}
}

func testServer(ctx context.Context) (pb.EngineServiceClient, func()) {
	buffer := 101024 * 1024
	lis := bufconn.Listen(buffer)

	s := grpc.NewServer()
	pb.RegisterEngineServiceServer(s, New(&Options{
		NewGame: func() *tetris.Game {
			return tetris.NewConfigurableGame(&tetris.Options{
				Ticker:     tetris.NewMockTicker(),
				Randomizer: tetris.NewSequence(tetris.O),
			})
		},
	}))
	go func() {
		if err := s.Serve(lis); err != nil {
			log.Printf("unable to serve: %v", err)
		}
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet", grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Printf("error connecting to server: %v", err)
	}

	closer := func() {
		if err := conn.Close(); err != nil {
			log.Printf("error closing connection: %v", err)
		}
		if err := lis.Close(); err != nil {
			log.Printf("error closing listener: %v", err)
		}
		s.Stop()
	}

	return pb.NewEngineServiceClient(conn), closer
}
