package proto

import (
	"context"
	"net"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/apperrors"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/config"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/models"
	"github.com/Rogue-Bear-Innovations/emojimap-back/internal/service"
)

type MapServerImpl struct {
	markers *service.Markers
	tags    *service.Tags
	reports *service.Reports
	logger  *zap.SugaredLogger

	server *grpc.Server
	lis    net.Listener
}

func NewMapServer(markers *service.Markers, tags *service.Tags, reports *service.Reports, logger *zap.SugaredLogger) *MapServerImpl {
	instance := &MapServerImpl{
		markers: markers,
		tags:    tags,
		reports: reports,
		logger:  logger,
	}
	instance.server = grpc.NewServer(grpc.UnaryInterceptor(instance.logUnary))
	RegisterMapServer(instance.server, instance)
	return instance
}

func NewGRPCServer(lc fx.Lifecycle, cfg *config.Config, markers *service.Markers, tags *service.Tags, reports *service.Reports, logger *zap.SugaredLogger) *MapServerImpl {
	instance := NewMapServer(markers, tags, reports, logger)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			lis, err := net.Listen("tcp", cfg.Host+":"+cfg.GRPCPort)
			if err != nil {
				return errors.Wrap(err, "listen grpc")
			}
			instance.lis = lis
			logger.Infow("Starting GRPC server.", "address", lis.Addr().String())

			go func() {
				if err := instance.server.Serve(lis); err != nil {
					logger.Errorw("GRPC server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping GRPC server.")
			instance.server.GracefulStop()
			return nil
		},
	})

	return instance
}

// Addr is the address the server listens on once started.
func (s *MapServerImpl) Addr() net.Addr {
	if s.lis == nil {
		return nil
	}
	return s.lis.Addr()
}

// Serve runs the server on lis until it is stopped.
func (s *MapServerImpl) Serve(lis net.Listener) error {
	s.lis = lis
	return s.server.Serve(lis)
}

func (s *MapServerImpl) Stop() {
	s.server.GracefulStop()
}

func (s *MapServerImpl) ListPublicMarkers(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	markers, err := s.markers.ListPublic(ctx)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return toList(models.NewMarkerResps(markers))
}

func (s *MapServerImpl) ListPublicTags(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	tags, err := s.tags.ListPublic(ctx)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return toList(models.NewTagResps(tags))
}

func (s *MapServerImpl) TrendingMarkers(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	rows, err := s.reports.Trending(ctx, true)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return toList(models.NewTrendingResps(rows))
}

func (s *MapServerImpl) logUnary(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debugw("grpc call", "method", info.FullMethod, "code", status.Code(err).String(), "latency", time.Since(start))
	return resp, err
}

// toList converts API objects into a ListValue through their JSON form, so
// gRPC and HTTP clients see the same field names.
func toList(v interface{}) (*structpb.ListValue, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	var items []interface{}
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	list, err := structpb.NewList(items)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	return list, nil
}

func (s *MapServerImpl) toStatus(err error) error {
	appErr := apperrors.From(err)
	var code codes.Code
	switch appErr.Code {
	case apperrors.CodeNotFound:
		code = codes.NotFound
	case apperrors.CodeUnauthorized:
		code = codes.Unauthenticated
	case apperrors.CodeForbidden:
		code = codes.PermissionDenied
	case apperrors.CodeConflict:
		code = codes.AlreadyExists
	case apperrors.CodeValidation:
		code = codes.InvalidArgument
	default:
		s.logger.Errorw("grpc call failed", "error", err)
		return status.Error(codes.Internal, apperrors.ErrInternal.Message)
	}
	return status.Error(code, appErr.Message)
}
