package noterpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "notekeeper.NoteService"

const (
	FullMethodRegister       = "/" + ServiceName + "/Register"
	FullMethodLogin          = "/" + ServiceName + "/Login"
	FullMethodPing           = "/" + ServiceName + "/Ping"
	FullMethodListNotes      = "/" + ServiceName + "/ListNotes"
	FullMethodDeleteAllNotes = "/" + ServiceName + "/DeleteAllNotes"
	FullMethodInsertNotes    = "/" + ServiceName + "/InsertNotes"
)

type NoteServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	ListNotes(context.Context, *ListNotesRequest) (*ListNotesResponse, error)
	DeleteAllNotes(context.Context, *DeleteAllNotesRequest) (*DeleteAllNotesResponse, error)
	InsertNotes(context.Context, *InsertNotesRequest) (*InsertNotesResponse, error)
}

// UnimplementedNoteServiceServer can be embedded to satisfy
// NoteServiceServer with methods that answer codes.Unimplemented.
type UnimplementedNoteServiceServer struct{}

func (UnimplementedNoteServiceServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}

func (UnimplementedNoteServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}

func (UnimplementedNoteServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

func (UnimplementedNoteServiceServer) ListNotes(context.Context, *ListNotesRequest) (*ListNotesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListNotes not implemented")
}

func (UnimplementedNoteServiceServer) DeleteAllNotes(context.Context, *DeleteAllNotesRequest) (*DeleteAllNotesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteAllNotes not implemented")
}

func (UnimplementedNoteServiceServer) InsertNotes(context.Context, *InsertNotesRequest) (*InsertNotesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method InsertNotes not implemented")
}

// unaryHandler adapts a typed server method to grpc.MethodHandler.
func unaryHandler[Req, Resp any](fullMethod string, call func(NoteServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(NoteServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(NoteServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*NoteServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(FullMethodRegister, NoteServiceServer.Register)},
		{MethodName: "Login", Handler: unaryHandler(FullMethodLogin, NoteServiceServer.Login)},
		{MethodName: "Ping", Handler: unaryHandler(FullMethodPing, NoteServiceServer.Ping)},
		{MethodName: "ListNotes", Handler: unaryHandler(FullMethodListNotes, NoteServiceServer.ListNotes)},
		{MethodName: "DeleteAllNotes", Handler: unaryHandler(FullMethodDeleteAllNotes, NoteServiceServer.DeleteAllNotes)},
		{MethodName: "InsertNotes", Handler: unaryHandler(FullMethodInsertNotes, NoteServiceServer.InsertNotes)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "noterpc/service.go",
}

func RegisterNoteServiceServer(s grpc.ServiceRegistrar, srv NoteServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
