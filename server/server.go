// Package server hosts games over gRPC. Every Play stream owns one game;
// the game runs on the server and the client only sends actions and
// renders the snapshots it gets back.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"blockfall/pb"
	"blockfall/tetris"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type game interface {
	Start()
	Stop()
	Action(tetris.Action)
	GetUpdate() <-chan *tetris.Snapshot
	Read() *tetris.Snapshot
}

type tetrisServer struct {
	pb.UnimplementedEngineServiceServer
	sessions map[string]game
	newGame  func() game
	logger   *slog.Logger
	mu       sync.Mutex
}

type Options struct {
	Logger *slog.Logger
	// NewGame builds the game for each session. Defaults to tetris.NewGame.
	NewGame func() *tetris.Game
}

func New(o *Options) pb.EngineServiceServer {
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	newGame := func() game { return tetris.NewGame() }
	if o.NewGame != nil {
		newGame = func() game { return o.NewGame() }
	}
	return &tetrisServer{
		sessions: make(map[string]game),
		newGame:  newGame,
		logger:   logger,
	}
}

func (t *tetrisServer) Play(stream grpc.BidiStreamingServer[wrapperspb.StringValue, structpb.Struct]) error {
	id := uuid.New().String()
	g := t.newGame()
	logger := t.logger.With(slog.String("session", id))

	t.mu.Lock()
	t.sessions[id] = g
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		delete(t.sessions, id)
		t.mu.Unlock()
		g.Stop()
		logger.Info("session closed")
	}()

	logger.Info("session started")
	g.Start()

	ctx, cancel := context.WithCancel(stream.Context())
	defer cancel()
	errCh := make(chan error, 1)

	// actions from the client
	go func() {
		defer cancel()
		for {
			rcv, err := stream.Recv()
			if err != nil {
				if errors.Is(err, io.EOF) {
					errCh <- nil
					return
				}
				errCh <- fmt.Errorf("failed to receive action: %w", err)
				return
			}
			a, err := tetris.ParseAction(rcv.GetValue())
			if err != nil || a == tetris.Tick {
				// ticks come from the server clock only.
				errCh <- status.Errorf(codes.InvalidArgument, "invalid action %q", rcv.GetValue())
				return
			}
			logger.Debug("action", slog.String("action", string(a)))
			g.Action(a)
		}
	}()

	for {
		select {
		case u, ok := <-g.GetUpdate():
			if !ok {
				return nil
			}
			msg, err := pb.FromSnapshot(id, u)
			if err != nil {
				return status.Errorf(codes.Internal, "%v", err)
			}
			if err := stream.Send(msg); err != nil {
				return fmt.Errorf("failed to send snapshot: %w", err)
			}
		case <-ctx.Done():
			select {
			case err := <-errCh:
				return err
			default:
				return ctx.Err()
			}
		}
	}
}

func (t *tetrisServer) Session(_ context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	t.mu.Lock()
	g, ok := t.sessions[req.GetValue()]
	t.mu.Unlock()
	if !ok {
		return nil, status.Errorf(codes.NotFound, "session %q not found", req.GetValue())
	}
	msg, err := pb.FromSnapshot(req.GetValue(), g.Read())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "%v", err)
	}
	return msg, nil
}
