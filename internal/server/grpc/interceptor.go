package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/empvault/internal/common"
	"github.com/dmitrijs2005/empvault/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const employeeKey ctxKey = "employee"

// protectedMethods need a valid session token.
var protectedMethods = map[string]bool{
	MethodMe:             true,
	MethodUpdateProfile:  true,
	MethodUploadDocument: true,
}

// tokenFromMetadata reads access_token, falling back to a Bearer
// authorization value.
func tokenFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 && values[0] != "" {
		return values[0]
	}
	if values := md.Get(common.AuthorizationHeaderName); len(values) > 0 {
		return common.TokenFromAuthorization(values[0])
	}
	return ""
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if protectedMethods[info.FullMethod] {

		accessToken := tokenFromMetadata(ctx)
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		employee, err := s.users.Authenticate(ctx, accessToken)
		if err != nil {
			return nil, toStatus(err)
		}

		ctx = context.WithValue(ctx, employeeKey, employee)

	}

	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Info(ctx, "grpc.request",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp, err
}

func employeeFrom(ctx context.Context) (*models.Employee, error) {
	e, ok := ctx.Value(employeeKey).(*models.Employee)
	if !ok || e == nil {
		return nil, status.Error(codes.Unauthenticated, "not authenticated")
	}
	return e, nil
}
