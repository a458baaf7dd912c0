package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/empvault/internal/common"
	"github.com/dmitrijs2005/empvault/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a service error onto a gRPC status. Unexpected errors are
// reported without details.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidEmail),
		errors.Is(err, common.ErrWeakPassword),
		errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrDuplicateEmail):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrNoSuchOwner),
		errors.Is(err, common.ErrNoDocument),
		errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrExhaustedIdentifierSpace):
		return status.Error(codes.ResourceExhausted, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func (s *GRPCServer) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {

	s.logger.Info(ctx, "Registration request")

	employee, err := s.users.Register(ctx, req.Email, req.Password)

	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "empid", employee.PublicID)
	return &RegisterResponse{EmployeeID: employee.PublicID, Message: "Registration successful. Please login."}, nil

}

func (s *GRPCServer) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {

	employee, token, err := s.users.Login(ctx, req.Email, req.Password)

	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, status.Error(codes.Unauthenticated, "invalid credentials")
		}
		return nil, toStatus(err)
	}

	profile, err := s.users.Profile(ctx, employee)
	if err != nil {
		return nil, toStatus(err)
	}

	return &LoginResponse{AccessToken: token, Profile: profileFromModel(profile)}, nil

}

func (s *GRPCServer) Me(ctx context.Context, _ *MeRequest) (*ProfileResponse, error) {

	employee, err := employeeFrom(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.users.Profile(ctx, employee)
	if err != nil {
		return nil, toStatus(err)
	}

	return &ProfileResponse{Profile: profileFromModel(profile)}, nil

}

func (s *GRPCServer) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*ProfileResponse, error) {

	employee, err := employeeFrom(ctx)
	if err != nil {
		return nil, err
	}

	update, err := req.toModel()
	if err != nil {
		return nil, toStatus(err)
	}

	profile, err := s.users.UpdateProfile(ctx, employee, update)
	if err != nil {
		return nil, toStatus(err)
	}

	return &ProfileResponse{Profile: profileFromModel(profile)}, nil

}

func (s *GRPCServer) UploadDocument(ctx context.Context, req *UploadDocumentRequest) (*UploadDocumentResponse, error) {

	employee, err := employeeFrom(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := s.documents.Upload(ctx, employee, req.Content, req.Name, req.MediaType)
	if err != nil {
		return nil, toStatus(err)
	}

	return &UploadDocumentResponse{DocumentID: doc.ID, DocumentHash: doc.ContentDigest, Size: doc.Size}, nil

}

// VerifyDocument reports Match and Mismatch in the response. A missing owner
// or document is a NotFound status.
func (s *GRPCServer) VerifyDocument(ctx context.Context, req *VerifyDocumentRequest) (*VerifyDocumentResponse, error) {

	verdict, err := s.documents.Verify(ctx, strings.TrimSpace(req.EmployeeID), req.Hash)
	if err != nil {
		return nil, toStatus(err)
	}

	if verdict == services.VerdictNoSuchOwner || verdict == services.VerdictNoDocument {
		return nil, toStatus(verdict.Err())
	}

	return &VerifyDocumentResponse{Verdict: verdict.String(), Match: verdict == services.VerdictMatch}, nil

}
