package noterpc

import (
	"context"

	"google.golang.org/grpc"
)

type NoteServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	ListNotes(ctx context.Context, in *ListNotesRequest, opts ...grpc.CallOption) (*ListNotesResponse, error)
	DeleteAllNotes(ctx context.Context, in *DeleteAllNotesRequest, opts ...grpc.CallOption) (*DeleteAllNotesResponse, error)
	InsertNotes(ctx context.Context, in *InsertNotesRequest, opts ...grpc.CallOption) (*InsertNotesResponse, error)
}

type noteServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewNoteServiceClient(cc grpc.ClientConnInterface) NoteServiceClient {
	return &noteServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *noteServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, FullMethodRegister, in, opts)
}

func (c *noteServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, FullMethodLogin, in, opts)
}

func (c *noteServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, FullMethodPing, in, opts)
}

func (c *noteServiceClient) ListNotes(ctx context.Context, in *ListNotesRequest, opts ...grpc.CallOption) (*ListNotesResponse, error) {
	return invoke[ListNotesResponse](ctx, c.cc, FullMethodListNotes, in, opts)
}

func (c *noteServiceClient) DeleteAllNotes(ctx context.Context, in *DeleteAllNotesRequest, opts ...grpc.CallOption) (*DeleteAllNotesResponse, error) {
	return invoke[DeleteAllNotesResponse](ctx, c.cc, FullMethodDeleteAllNotes, in, opts)
}

func (c *noteServiceClient) InsertNotes(ctx context.Context, in *InsertNotesRequest, opts ...grpc.CallOption) (*InsertNotesResponse, error) {
	return invoke[InsertNotesResponse](ctx, c.cc, FullMethodInsertNotes, in, opts)
}
