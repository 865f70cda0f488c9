package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/noterpc"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ---- fakes ----

type fakeUser struct {
	regResp *models.User
	regErr  error

	loginResp *services.LoginResult
	loginErr  error
}

func (f *fakeUser) Register(ctx context.Context, username, password string) (*models.User, error) {
	return f.regResp, f.regErr
}

func (f *fakeUser) Login(ctx context.Context, username, password string) (*services.LoginResult, error) {
	return f.loginResp, f.loginErr
}

type fakeNotes struct {
	stored map[string][]models.Note

	listErr   error
	deleteErr error
	insertErr error

	lastRole string
}

func (f *fakeNotes) List(ctx context.Context, userID string) ([]models.Note, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.stored[userID], nil
}

func (f *fakeNotes) DeleteAll(ctx context.Context, userID, role string) (int64, error) {
	f.lastRole = role
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	n := int64(len(f.stored[userID]))
	delete(f.stored, userID)
	return n, nil
}

func (f *fakeNotes) Insert(ctx context.Context, userID, role string, notes []models.Note) (int64, error) {
	f.lastRole = role
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	if f.stored == nil {
		f.stored = map[string][]models.Note{}
	}
	for _, n := range notes {
		n.UserID = userID
		f.stored[userID] = append(f.stored[userID], n)
	}
	return int64(len(notes)), nil
}

// ---- helpers ----

func newServer(u userSvc, n noteSvc) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.Nop(), u, n, "k")
}

func asCaller(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// ---- tests ----

func TestPing_OK(t *testing.T) {
	s := newServer(&fakeUser{}, &fakeNotes{})
	resp, err := s.Ping(context.Background(), &noterpc.PingRequest{})
	if err != nil {
		t.Fatalf("Ping error: %v", err)
	}
	if resp.Status != "OK" {
		t.Fatalf("unexpected status: %q", resp.Status)
	}
}

func TestRegister(t *testing.T) {
	s := newServer(&fakeUser{regResp: &models.User{ID: "42"}}, &fakeNotes{})
	resp, err := s.Register(context.Background(), &noterpc.RegisterRequest{Username: "u", Password: "p"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if resp.UserID != "42" {
		t.Fatalf("unexpected user id: %q", resp.UserID)
	}

	tests := []struct {
		err  error
		want codes.Code
	}{
		{common.ErrorAlreadyExists, codes.AlreadyExists},
		{common.ErrorValidation, codes.InvalidArgument},
		{errors.New("db down"), codes.Internal},
	}
	for _, tt := range tests {
		s := newServer(&fakeUser{regErr: tt.err}, &fakeNotes{})
		_, err := s.Register(context.Background(), &noterpc.RegisterRequest{Username: "u", Password: "p"})
		if status.Code(err) != tt.want {
			t.Fatalf("for %v want %v, got %v", tt.err, tt.want, status.Code(err))
		}
	}
}

func TestLogin_OK(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	u := &fakeUser{loginResp: &services.LoginResult{
		AccessToken: "A", UserID: "u-1", Role: common.RoleStaff, CanBackup: true, ExpiresAt: exp,
	}}
	s := newServer(u, &fakeNotes{})
	resp, err := s.Login(context.Background(), &noterpc.LoginRequest{Username: "u", Password: "p"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if resp.AccessToken != "A" || resp.UserID != "u-1" || resp.Role != common.RoleStaff || !resp.CanBackup || !resp.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLogin_UnauthorizedAndInternal(t *testing.T) {
	s := newServer(&fakeUser{loginErr: common.ErrorUnauthorized}, &fakeNotes{})
	_, err := s.Login(context.Background(), &noterpc.LoginRequest{Username: "u", Password: "x"})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("want Unauthenticated, got %v", status.Code(err))
	}

	s2 := newServer(&fakeUser{loginErr: errors.New("boom")}, &fakeNotes{})
	_, err = s2.Login(context.Background(), &noterpc.LoginRequest{Username: "u", Password: "x"})
	if status.Code(err) != codes.Internal {
		t.Fatalf("want Internal, got %v", status.Code(err))
	}
}

func TestListNotes(t *testing.T) {
	notes := &fakeNotes{stored: map[string][]models.Note{
		"u-1": {{ID: "n1", UserID: "u-1", Content: "hello", Datestamp: "2024-01-02"}},
	}}
	s := newServer(&fakeUser{}, notes)

	resp, err := s.ListNotes(asCaller("u-1", common.RoleMember), &noterpc.ListNotesRequest{UserID: "u-1"})
	if err != nil {
		t.Fatalf("ListNotes error: %v", err)
	}
	if len(resp.Notes) != 1 || resp.Notes[0].Content != "hello" || resp.Notes[0].Datestamp != "2024-01-02" {
		t.Fatalf("unexpected notes: %+v", resp.Notes)
	}

	_, err = s.ListNotes(asCaller("u-1", common.RoleMember), &noterpc.ListNotesRequest{UserID: "u-2"})
	if status.Code(err) != codes.PermissionDenied {
		t.Fatalf("want PermissionDenied for another user, got %v", status.Code(err))
	}

	_, err = s.ListNotes(context.Background(), &noterpc.ListNotesRequest{UserID: "u-1"})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("want Unauthenticated without caller, got %v", status.Code(err))
	}

	notes.listErr = errors.New("db down")
	_, err = s.ListNotes(asCaller("u-1", common.RoleMember), &noterpc.ListNotesRequest{UserID: "u-1"})
	if status.Code(err) != codes.Internal {
		t.Fatalf("want Internal, got %v", status.Code(err))
	}
}

func TestDeleteAllNotes(t *testing.T) {
	notes := &fakeNotes{stored: map[string][]models.Note{"u-1": {{ID: "n1"}, {ID: "n2"}}}}
	s := newServer(&fakeUser{}, notes)

	resp, err := s.DeleteAllNotes(asCaller("u-1", common.RoleAdmin), &noterpc.DeleteAllNotesRequest{UserID: "u-1"})
	if err != nil {
		t.Fatalf("DeleteAllNotes error: %v", err)
	}
	if resp.Deleted != 2 {
		t.Fatalf("want 2 deleted, got %d", resp.Deleted)
	}
	if notes.lastRole != common.RoleAdmin {
		t.Fatalf("role not passed through: %q", notes.lastRole)
	}

	notes.deleteErr = common.ErrorForbidden
	_, err = s.DeleteAllNotes(asCaller("u-1", common.RoleMember), &noterpc.DeleteAllNotesRequest{UserID: "u-1"})
	if status.Code(err) != codes.PermissionDenied {
		t.Fatalf("want PermissionDenied, got %v", status.Code(err))
	}

	_, err = s.DeleteAllNotes(asCaller("u-1", common.RoleAdmin), &noterpc.DeleteAllNotesRequest{UserID: "u-2"})
	if status.Code(err) != codes.PermissionDenied {
		t.Fatalf("want PermissionDenied for another user, got %v", status.Code(err))
	}
}

func TestInsertNotes(t *testing.T) {
	notes := &fakeNotes{}
	s := newServer(&fakeUser{}, notes)

	resp, err := s.InsertNotes(asCaller("u-1", common.RoleStaff), &noterpc.InsertNotesRequest{Notes: []noterpc.Note{
		{ID: "n1", UserID: "u-1", Content: "a"},
		{ID: "n2", UserID: "u-1", Content: "b", IsDeleted: true},
	}})
	if err != nil {
		t.Fatalf("InsertNotes error: %v", err)
	}
	if resp.Inserted != 2 || len(notes.stored["u-1"]) != 2 {
		t.Fatalf("unexpected insert result: %+v, stored=%v", resp, notes.stored)
	}
	if !notes.stored["u-1"][1].IsDeleted {
		t.Fatal("deleted flag lost")
	}

	notes.insertErr = common.ErrorValidation
	_, err = s.InsertNotes(asCaller("u-1", common.RoleStaff), &noterpc.InsertNotesRequest{Notes: []noterpc.Note{{}}})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("want InvalidArgument, got %v", status.Code(err))
	}

	_, err = s.InsertNotes(context.Background(), &noterpc.InsertNotesRequest{})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("want Unauthenticated without caller, got %v", status.Code(err))
	}
}
