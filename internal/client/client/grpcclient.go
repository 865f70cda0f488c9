package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/noterpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	dialOpts    []grpc.DialOption
	conn        *grpc.ClientConn
	client      noterpc.NoteServiceClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(t string) {
	s.mu.Lock()
	s.accessToken = t
	s.mu.Unlock()
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if t := s.token(); t != "" {
		ctx = withAccessToken(ctx, t)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewNoteKeeperClient connects lazily to endpointURL. Extra dial options
// are appended after the defaults (tests pass a bufconn dialer).
func NewNoteKeeperClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, dialOpts: opts}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, s.dialOpts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = noterpc.NewNoteServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Register(ctx context.Context, username, password string) (string, error) {
	resp, err := s.client.Register(ctx, &noterpc.RegisterRequest{Username: username, Password: password})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.UserID, nil
}

func (s *GRPCClient) Login(ctx context.Context, username, password string) (Session, error) {
	resp, err := s.client.Login(ctx, &noterpc.LoginRequest{Username: username, Password: password})
	if err != nil {
		return Session{}, s.mapError(err)
	}

	s.setToken(resp.AccessToken)

	return Session{
		UserID:    resp.UserID,
		Username:  username,
		Role:      resp.Role,
		CanBackup: resp.CanBackup,
		ExpiresAt: resp.ExpiresAt,
	}, nil
}

func (s *GRPCClient) Logout() {
	s.setToken("")
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	resp, err := s.client.Ping(ctx, &noterpc.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) requireToken() error {
	if s.token() == "" {
		return ErrNotAuthenticated
	}
	return nil
}

func (s *GRPCClient) ListNotesForUser(ctx context.Context, userID string) ([]models.RemoteNote, error) {
	if err := s.requireToken(); err != nil {
		return nil, err
	}

	resp, err := s.client.ListNotes(ctx, &noterpc.ListNotesRequest{UserID: userID})
	if err != nil {
		return nil, s.mapError(err)
	}

	out := make([]models.RemoteNote, 0, len(resp.Notes))
	for _, n := range resp.Notes {
		out = append(out, models.RemoteNote{
			ID:        n.ID,
			UserID:    n.UserID,
			Title:     n.Title,
			Content:   n.Content,
			Datestamp: n.Datestamp,
			IsDeleted: n.IsDeleted,
			CreatedAt: n.CreatedAt,
			UpdatedAt: n.UpdatedAt,
		})
	}
	return out, nil
}

func (s *GRPCClient) DeleteAllNotesForUser(ctx context.Context, userID string) error {
	if err := s.requireToken(); err != nil {
		return err
	}
	if _, err := s.client.DeleteAllNotes(ctx, &noterpc.DeleteAllNotesRequest{UserID: userID}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) InsertNotes(ctx context.Context, records []models.RemoteNote) error {
	if err := s.requireToken(); err != nil {
		return err
	}

	req := &noterpc.InsertNotesRequest{Notes: make([]noterpc.Note, 0, len(records))}
	for _, r := range records {
		req.Notes = append(req.Notes, noterpc.Note{
			ID:        r.ID,
			UserID:    r.UserID,
			Title:     r.Title,
			Content:   r.Content,
			Datestamp: r.Datestamp,
			IsDeleted: r.IsDeleted,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}

	if _, err := s.client.InsertNotes(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrPermissionDenied, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
