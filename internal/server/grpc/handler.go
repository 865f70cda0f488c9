package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/noterpc"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Register(ctx context.Context, req *noterpc.RegisterRequest) (*noterpc.RegisterResponse, error) {

	s.logger.Info(ctx, "Registration request", "username", req.Username)

	user, err := s.users.Register(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "username", req.Username, "user_id", user.ID)
	return &noterpc.RegisterResponse{UserID: user.ID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *noterpc.LoginRequest) (*noterpc.LoginResponse, error) {

	res, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &noterpc.LoginResponse{
		AccessToken: res.AccessToken,
		UserID:      res.UserID,
		Role:        res.Role,
		CanBackup:   res.CanBackup,
		ExpiresAt:   res.ExpiresAt,
	}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *noterpc.PingRequest) (*noterpc.PingResponse, error) {
	return &noterpc.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) ListNotes(ctx context.Context, req *noterpc.ListNotesRequest) (*noterpc.ListNotesResponse, error) {

	userID, _, err := s.authorize(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	notes, err := s.notes.List(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := make([]noterpc.Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, toWire(n))
	}
	return &noterpc.ListNotesResponse{Notes: out}, nil
}

func (s *GRPCServer) DeleteAllNotes(ctx context.Context, req *noterpc.DeleteAllNotesRequest) (*noterpc.DeleteAllNotesResponse, error) {

	userID, role, err := s.authorize(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	n, err := s.notes.DeleteAll(ctx, userID, role)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Hosted notes deleted", "user_id", userID, "count", n)
	return &noterpc.DeleteAllNotesResponse{Deleted: n}, nil
}

func (s *GRPCServer) InsertNotes(ctx context.Context, req *noterpc.InsertNotesRequest) (*noterpc.InsertNotesResponse, error) {

	userID, role, ok := caller(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}

	notes := make([]models.Note, 0, len(req.Notes))
	for _, n := range req.Notes {
		notes = append(notes, fromWire(n))
	}

	n, err := s.notes.Insert(ctx, userID, role, notes)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Hosted notes inserted", "user_id", userID, "count", n)
	return &noterpc.InsertNotesResponse{Inserted: n}, nil
}

// authorize checks that the token's user is the one the request names.
func (s *GRPCServer) authorize(ctx context.Context, requested string) (string, string, error) {
	userID, role, ok := caller(ctx)
	if !ok {
		return "", "", status.Error(codes.Unauthenticated, "unauthenticated")
	}
	if requested != userID {
		return "", "", status.Error(codes.PermissionDenied, "user mismatch")
	}
	return userID, role, nil
}

func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "user already exists")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, "forbidden")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	default:
		s.logger.Error(ctx, err.Error())
		return status.Error(codes.Internal, "internal error")
	}
}

func toWire(n models.Note) noterpc.Note {
	return noterpc.Note{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Content:   n.Content,
		Datestamp: n.Datestamp,
		IsDeleted: n.IsDeleted,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func fromWire(n noterpc.Note) models.Note {
	return models.Note{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Content:   n.Content,
		Datestamp: n.Datestamp,
		IsDeleted: n.IsDeleted,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
