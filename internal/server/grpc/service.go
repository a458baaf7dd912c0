package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "empvault.v1.IdentityService"

// Full method names, as seen by interceptors and clients.
const (
	MethodRegister       = "/" + ServiceName + "/Register"
	MethodLogin          = "/" + ServiceName + "/Login"
	MethodMe             = "/" + ServiceName + "/Me"
	MethodUpdateProfile  = "/" + ServiceName + "/UpdateProfile"
	MethodUploadDocument = "/" + ServiceName + "/UploadDocument"
	MethodVerifyDocument = "/" + ServiceName + "/VerifyDocument"
)

// IdentityServer is the server API of empvault.v1.IdentityService.
type IdentityServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Me(context.Context, *MeRequest) (*ProfileResponse, error)
	UpdateProfile(context.Context, *UpdateProfileRequest) (*ProfileResponse, error)
	UploadDocument(context.Context, *UploadDocumentRequest) (*UploadDocumentResponse, error)
	VerifyDocument(context.Context, *VerifyDocumentRequest) (*VerifyDocumentResponse, error)
}

// unary builds the MethodDesc for one request/response method, decoding
// into Req and running the chained interceptors.
func unary[Req, Resp any](name string, call func(IdentityServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(IdentityServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(IdentityServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// IdentityServiceDesc describes empvault.v1.IdentityService for
// grpc.Server.RegisterService.
var IdentityServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*IdentityServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", IdentityServer.Register),
		unary("Login", IdentityServer.Login),
		unary("Me", IdentityServer.Me),
		unary("UpdateProfile", IdentityServer.UpdateProfile),
		unary("UploadDocument", IdentityServer.UploadDocument),
		unary("VerifyDocument", IdentityServer.VerifyDocument),
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterIdentityServer registers srv on s.
func RegisterIdentityServer(s grpc.ServiceRegistrar, srv IdentityServer) {
	s.RegisterService(&IdentityServiceDesc, srv)
}
