package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"blockfall/pb"
	"blockfall/tetris"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// remoteGame plays a game hosted by the server. It satisfies the same
// interface as the local game, so the client doesn't know the difference.
type remoteGame struct {
	logger  *slog.Logger
	connect func() (pb.EngineServiceClient, io.Closer, error)

	updateCh chan *tetris.Snapshot
	actionCh chan tetris.Action
	ctx      context.Context
	cancel   context.CancelFunc
	once     sync.Once
}

func newRemoteGame(addr string, l *slog.Logger) *remoteGame {
	return newRemoteGameWith(l, func() (pb.EngineServiceClient, io.Closer, error) {
		conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, nil, fmt.Errorf("unable to create gRPC client: %w", err)
		}
		return pb.NewEngineServiceClient(conn), conn, nil
	})
}

func newRemoteGameWith(l *slog.Logger, connect func() (pb.EngineServiceClient, io.Closer, error)) *remoteGame {
	ctx, cancel := context.WithCancel(context.Background())
	return &remoteGame{
		logger:   l,
		connect:  connect,
		updateCh: make(chan *tetris.Snapshot),
		actionCh: make(chan tetris.Action),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (r *remoteGame) Start() {
	r.once.Do(func() { go r.run() })
}

func (r *remoteGame) Stop() { r.cancel() }

func (r *remoteGame) Action(a tetris.Action) {
	select {
	case r.actionCh <- a:
	case <-r.ctx.Done():
	}
}

func (r *remoteGame) GetUpdate() <-chan *tetris.Snapshot { return r.updateCh }

func (r *remoteGame) run() {
	defer close(r.updateCh)
	defer r.cancel()

	client, conn, err := r.connect()
	if err != nil {
		r.logger.Error("unable to connect", slog.String("error", err.Error()))
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			r.logger.Error("unable to close gRPC client", slog.String("error", err.Error()))
		}
	}()

	stream, err := client.Play(r.ctx)
	if err != nil {
		r.logger.Error("unable to create gRPC Play stream", slog.String("error", err.Error()))
		return
	}

	go func() {
		defer stream.CloseSend() //nolint: errcheck
		for {
			select {
			case a := <-r.actionCh:
				if err := stream.Send(wrapperspb.String(string(a))); err != nil {
					r.logger.Error("send() unable to send action", slog.String("error", err.Error()))
					return
				}
			case <-r.ctx.Done():
				return
			}
		}
	}()

	var session string
	for {
		rcv, err := stream.Recv()
		if err != nil {
			r.logRecvError(err)
			return
		}
		id, s, err := pb.ToSnapshot(rcv)
		if err != nil {
			r.logger.Error("unable to decode snapshot", slog.String("error", err.Error()))
			return
		}
		if session == "" {
			session = id
			r.logger.Info("remote session started", slog.String("session", session))
		}
		select {
		case r.updateCh <- s:
		case <-r.ctx.Done():
			return
		}
	}
}

func (r *remoteGame) logRecvError(err error) {
	if errors.Is(err, io.EOF) {
		r.logger.Debug("stream.Recv() closed with EOF", slog.String("msg", err.Error()))
		return
	}
	st, ok := status.FromError(err)
	switch {
	case ok && st.Code() == codes.Canceled:
		r.logger.Debug("stream.Recv() closed with Cancel", slog.String("msg", st.Message()))
	case ok && st.Code() == codes.DeadlineExceeded:
		r.logger.Debug("stream.Recv() closed with DeadlineExceeded", slog.String("msg", st.Message()))
	default:
		r.logger.Error("stream.Recv() unable to receive message", slog.String("error", err.Error()))
	}
}
