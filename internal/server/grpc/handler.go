package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/showcase/internal/common"
	"github.com/dmitrijs2005/showcase/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// SignIn trusts the identity in the request. It is meant for a frontend
// server that has already completed the provider flow itself.
func (s *GRPCServer) SignIn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	fields := req.GetFields()
	identity := models.ExternalIdentity{
		Name:      fields["name"].GetStringValue(),
		Email:     fields["email"].GetStringValue(),
		AvatarURL: fields["avatarUrl"].GetStringValue(),
	}

	if identity.Email == "" {
		return nil, status.Error(codes.InvalidArgument, "email is required")
	}

	token, err := s.auth.SignIn(ctx, identity)
	if err != nil {
		if errors.Is(err, common.ErrSignInDenied) {
			return nil, status.Error(codes.PermissionDenied, common.ErrSignInDenied.Error())
		}
		s.logger.Error(ctx, "sign-in failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	resp, err := structpb.NewStruct(map[string]any{"token": token})
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return resp, nil
}

func (s *GRPCServer) GetSession(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {

	sess, err := s.auth.Session(ctx, accessTokenFromContext(ctx))
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, status.Error(codes.Unauthenticated, "unauthorized")
		}
		s.logger.Error(ctx, "session failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	resp, err := structpb.NewStruct(sess.AsMap())
	if err != nil {
		s.logger.Error(ctx, "error encoding session", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return resp, nil
}
