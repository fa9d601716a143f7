package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophforum/internal/forumpb"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ForumServer is the server API of the gophforum.v1.Forum service.
type ForumServer interface {
	Register(context.Context, *forumpb.RegisterRequest) (*forumpb.RegisterResponse, error)
	Login(context.Context, *forumpb.LoginRequest) (*forumpb.LoginResponse, error)
	RefreshToken(context.Context, *forumpb.RefreshTokenRequest) (*forumpb.RefreshTokenResponse, error)
	Logout(context.Context, *forumpb.RefreshTokenRequest) (*forumpb.Empty, error)
	ListThreads(context.Context, *forumpb.ListThreadsRequest) (*forumpb.ListThreadsResponse, error)
	GetThread(context.Context, *forumpb.IDRequest) (*forumpb.GetThreadResponse, error)
	Search(context.Context, *forumpb.SearchRequest) (*forumpb.SearchResponse, error)
	CreateThread(context.Context, *forumpb.CreateThreadRequest) (*forumpb.IDResponse, error)
	PostMessage(context.Context, *forumpb.PostMessageRequest) (*forumpb.IDResponse, error)
	EditMessage(context.Context, *forumpb.EditMessageRequest) (*forumpb.EditMessageResponse, error)
	RemoveMessage(context.Context, *forumpb.IDRequest) (*forumpb.RemoveMessageResponse, error)
	GetProfile(context.Context, *forumpb.GetProfileRequest) (*forumpb.GetProfileResponse, error)
	UpdateProfile(context.Context, *forumpb.UpdateProfileRequest) (*forumpb.Empty, error)
	RequestAvatarUpload(context.Context, *forumpb.AvatarUploadRequest) (*forumpb.AvatarUploadResponse, error)
	SetRole(context.Context, *forumpb.SetRoleRequest) (*forumpb.SetRoleResponse, error)
}

// unary builds the method descriptor of a call whose request and response
// travel as Structs. The request is decoded before interceptors run, the
// response encoded after.
func unary[Req, Resp any](name string, fn func(ForumServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			wire := new(structpb.Struct)
			if err := dec(wire); err != nil {
				return nil, err
			}
			in := new(Req)
			if err := forumpb.Unmarshal(wire, in); err != nil {
				return nil, status.Error(codes.InvalidArgument, err.Error())
			}

			handler := func(ctx context.Context, req any) (any, error) {
				out, err := fn(srv.(ForumServer), ctx, req.(*Req))
				if err != nil {
					return nil, err
				}
				encoded, err := forumpb.Marshal(out)
				if err != nil {
					return nil, status.Error(codes.Internal, err.Error())
				}
				return encoded, nil
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: forumpb.FullMethod(name),
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ForumServiceDesc is the grpc.ServiceDesc for the Forum service.
var ForumServiceDesc = grpc.ServiceDesc{
	ServiceName: forumpb.ServiceName,
	HandlerType: (*ForumServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(forumpb.MethodRegister, ForumServer.Register),
		unary(forumpb.MethodLogin, ForumServer.Login),
		unary(forumpb.MethodRefreshToken, ForumServer.RefreshToken),
		unary(forumpb.MethodLogout, ForumServer.Logout),
		unary(forumpb.MethodListThreads, ForumServer.ListThreads),
		unary(forumpb.MethodGetThread, ForumServer.GetThread),
		unary(forumpb.MethodSearch, ForumServer.Search),
		unary(forumpb.MethodCreateThread, ForumServer.CreateThread),
		unary(forumpb.MethodPostMessage, ForumServer.PostMessage),
		unary(forumpb.MethodEditMessage, ForumServer.EditMessage),
		unary(forumpb.MethodRemoveMessage, ForumServer.RemoveMessage),
		unary(forumpb.MethodGetProfile, ForumServer.GetProfile),
		unary(forumpb.MethodUpdateProfile, ForumServer.UpdateProfile),
		unary(forumpb.MethodRequestAvatarUpload, ForumServer.RequestAvatarUpload),
		unary(forumpb.MethodSetRole, ForumServer.SetRole),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophforum/v1/forum.proto",
}

// RegisterForumServer registers srv on s.
func RegisterForumServer(s grpc.ServiceRegistrar, srv ForumServer) {
	s.RegisterService(&ForumServiceDesc, srv)
}
