package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"tonearm/internal/logging"
	"tonearm/internal/trackid"
	"tonearm/internal/voting"
)

// ServerInfo supplies static facts the status call reports.
type ServerInfo struct {
	ActionDBPath string
}

// Server exposes the voting engine via JSON-RPC over a Unix domain socket.
type Server struct {
	path     string
	logger   *slog.Logger
	listener net.Listener

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, engine *voting.Engine, info ServerInfo, logger *slog.Logger) (*Server, error) {
	if engine == nil {
		return nil, errors.New("ipc server requires a voting engine")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}
	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	svc := &service{engine: engine, info: info, socketPath: path}
	if err := rpcServer.RegisterName("Tonearm", svc); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	srv := &Server{
		path:     path,
		logger:   logging.NewComponentLogger(logger, "ipc"),
		listener: listener,
		ctx:      serverCtx,
		cancel:   cancel,
	}
	srv.serve(rpcServer)
	return srv, nil
}

func (s *Server) serve(rpcServer *rpc.Server) {
	s.logger.Debug("ipc server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.Error(err),
				)
				continue
			}
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				rpcServer.ServeCodec(jsonrpc.NewServerCodec(conn))
			}()
		}
	}()
}

// Path returns the socket path the server listens on.
func (s *Server) Path() string { return s.path }

// Close stops accepting connections and removes the socket file.
func (s *Server) Close() error {
	s.cancel()
	err := s.listener.Close()
	s.wg.Wait()
	if removeErr := os.RemoveAll(s.path); removeErr != nil && err == nil {
		err = removeErr
	}
	return err
}

// service implements the RPC surface. net/rpc requires exported methods
// with (args, reply) signatures; each one delegates to the engine.
type service struct {
	engine     *voting.Engine
	info       ServerInfo
	socketPath string
}

func (s *service) Gong(req *GongRequest, resp *GongResponse) error {
	result, err := s.engine.CastGong(context.Background(), req.User)
	if err != nil {
		code, rejected := rejectionOf(err)
		if !rejected {
			return err
		}
		*resp = GongResponse{Rejection: code, Track: result.Track, Needed: result.Needed}
		return nil
	}
	*resp = GongResponse{
		Accepted: true,
		Track:    result.Track,
		Tally:    result.Tally,
		Needed:   result.Needed,
		Skipped:  result.Skipped,
	}
	return nil
}

func (s *service) GongCheck(_ *GongCheckRequest, resp *GongCheckResponse) error {
	status, err := s.engine.CheckGong(context.Background())
	if err != nil {
		return err
	}
	*resp = GongCheckResponse{
		Playing:   status.Playing,
		Track:     status.Track,
		Immune:    status.Immune,
		Tally:     status.Tally,
		Remaining: status.Remaining,
	}
	return nil
}

func (s *service) Vote(req *SlotVoteRequest, resp *SlotVoteResponse) error {
	result, err := s.engine.CastPromotionVote(context.Background(), req.User, req.Slot)
	return fillSlotVote(resp, result, err)
}

func (s *service) VoteCheck(_ *SlotChecksRequest, resp *SlotChecksResponse) error {
	statuses, err := s.engine.CheckPromotionVotes(context.Background())
	if err != nil {
		return err
	}
	*resp = SlotChecksResponse{Votes: toWireStatuses(statuses)}
	return nil
}

func (s *service) ImmuneVote(req *SlotVoteRequest, resp *SlotVoteResponse) error {
	result, err := s.engine.CastImmunityVote(context.Background(), req.User, req.Slot)
	return fillSlotVote(resp, result, err)
}

func (s *service) ImmuneVoteCheck(_ *SlotChecksRequest, resp *SlotChecksResponse) error {
	statuses, err := s.engine.CheckImmunityVotes(context.Background())
	if err != nil {
		return err
	}
	*resp = SlotChecksResponse{Votes: toWireStatuses(statuses)}
	return nil
}

func (s *service) Flush(req *FlushRequest, resp *FlushResponse) error {
	result, err := s.engine.CastFlushVote(context.Background(), req.User)
	if err != nil {
		code, rejected := rejectionOf(err)
		if !rejected {
			return err
		}
		*resp = FlushResponse{Rejection: code, Needed: result.Needed}
		return nil
	}
	*resp = FlushResponse{
		Accepted: true,
		Tally:    result.Tally,
		Needed:   result.Needed,
		Opened:   result.Opened,
		Flushed:  result.Flushed,
	}
	return nil
}

func (s *service) ImmuneList(_ *ImmuneListRequest, resp *ImmuneListResponse) error {
	*resp = ImmuneListResponse{Tracks: s.engine.ListImmuneTracks()}
	return nil
}

func (s *service) Ban(req *BanRequest, resp *BanResponse) error {
	ref := trackid.FromParts(req.Title, req.Artist, "")
	s.engine.BanTrack(context.Background(), req.User, ref)
	*resp = BanResponse{Track: ref.Display()}
	return nil
}

func (s *service) LimitsGet(_ *LimitsGetRequest, resp *LimitsResponse) error {
	*resp = LimitsResponse{Limits: s.engine.Limits()}
	return nil
}

func (s *service) LimitsSet(req *LimitsSetRequest, resp *LimitsResponse) error {
	*resp = LimitsResponse{Limits: s.engine.SetLimits(req.Patch)}
	return nil
}

func (s *service) Status(_ *StatusRequest, resp *StatusResponse) error {
	*resp = StatusResponse{
		PID:          os.Getpid(),
		SocketPath:   s.socketPath,
		ActionDBPath: s.info.ActionDBPath,
		ImmuneCount:  len(s.engine.ListImmuneTracks()),
		Limits:       s.engine.Limits(),
	}
	return nil
}

func fillSlotVote(resp *SlotVoteResponse, result voting.SlotVoteResult, err error) error {
	if err != nil {
		code, rejected := rejectionOf(err)
		if !rejected {
			return err
		}
		*resp = SlotVoteResponse{Rejection: code, Slot: result.Slot, Track: result.Track, Needed: result.Needed}
		return nil
	}
	*resp = SlotVoteResponse{
		Accepted:  true,
		Slot:      result.Slot,
		Track:     result.Track,
		Tally:     result.Tally,
		Needed:    result.Needed,
		Triggered: result.Triggered,
	}
	return nil
}

func toWireStatuses(statuses []voting.SlotStatus) []SlotVoteStatus {
	out := make([]SlotVoteStatus, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, SlotVoteStatus{
			Slot:   status.Slot,
			Track:  status.Track,
			Tally:  status.Tally,
			Needed: status.Needed,
		})
	}
	return out
}
