// internal/grpc/server.go
package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"film-service/internal/domain"
	"film-service/internal/service"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Server реализует FilmLookupServer поверх прикладных сервисов.
type Server struct {
	svc    *service.Services
	logger *slog.Logger
}

var _ FilmLookupServer = (*Server)(nil)

// NewServer создает новый экземпляр gRPC сервера.
func NewServer(svc *service.Services, logger *slog.Logger) *Server {
	return &Server{svc: svc, logger: logger}
}

// toStatus переводит ошибку сервиса в gRPC статус.
func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return status.Error(codes.Aborted, err.Error())
	default:
		return status.Errorf(codes.Internal, "internal error: %v", err)
	}
}

func requireID(req *wrapperspb.Int64Value, name string) error {
	if req.GetValue() <= 0 {
		return status.Errorf(codes.InvalidArgument, "%s must be positive", name)
	}
	return nil
}

// filmInfo преобразует фильм в Struct с полями id, name, releaseDate, duration, mpa, genres, directors, likes.
func filmInfo(f *domain.Film) (*structpb.Struct, error) {
	genres := make([]interface{}, 0, len(f.Genres))
	for _, g := range f.Genres {
		genres = append(genres, g.Name)
	}
	directors := make([]interface{}, 0, len(f.Directors))
	for _, d := range f.Directors {
		directors = append(directors, d.Name)
	}
	return structpb.NewStruct(map[string]interface{}{
		"id":          f.ID,
		"name":        f.Name,
		"releaseDate": f.ReleaseDate.String(),
		"duration":    f.Duration,
		"mpa":         f.MPA.Name,
		"genres":      genres,
		"directors":   directors,
		"likes":       f.LikeCount(),
	})
}

func (s *Server) CheckUserExists(ctx context.Context, req *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error) {
	s.logger.InfoContext(ctx, "gRPC CheckUserExists called", slog.Int64("user_id", req.GetValue()))
	if err := requireID(req, "user_id"); err != nil {
		return nil, err
	}
	exists, err := s.svc.Catalog.UserExists(ctx, req.GetValue())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to check user existence", slog.Int64("user_id", req.GetValue()), slog.String("error", err.Error()))
		return nil, toStatus(err)
	}
	return wrapperspb.Bool(exists), nil
}

func (s *Server) CheckFilmExists(ctx context.Context, req *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error) {
	s.logger.InfoContext(ctx, "gRPC CheckFilmExists called", slog.Int64("film_id", req.GetValue()))
	if err := requireID(req, "film_id"); err != nil {
		return nil, err
	}
	exists, err := s.svc.Catalog.FilmExists(ctx, req.GetValue())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to check film existence", slog.Int64("film_id", req.GetValue()), slog.String("error", err.Error()))
		return nil, toStatus(err)
	}
	return wrapperspb.Bool(exists), nil
}

func (s *Server) GetFilmInfo(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	s.logger.InfoContext(ctx, "gRPC GetFilmInfo called", slog.Int64("film_id", req.GetValue()))
	if err := requireID(req, "film_id"); err != nil {
		return nil, err
	}
	film, err := s.svc.Catalog.GetFilm(ctx, req.GetValue())
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to get film for GetFilmInfo", slog.Int64("film_id", req.GetValue()), slog.String("error", err.Error()))
		return nil, toStatus(err)
	}
	info, err := filmInfo(film)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode film: %v", err)
	}
	return info, nil
}

func (s *Server) GetRecommendations(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.ListValue, error) {
	s.logger.InfoContext(ctx, "gRPC GetRecommendations called", slog.Int64("user_id", req.GetValue()))
	if err := requireID(req, "user_id"); err != nil {
		return nil, err
	}
	films, err := s.svc.Recommender.Recommend(ctx, req.GetValue())
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to build recommendations", slog.Int64("user_id", req.GetValue()), slog.String("error", err.Error()))
		return nil, toStatus(err)
	}
	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(films))}
	for _, f := range films {
		info, err := filmInfo(f)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "failed to encode film: %v", err)
		}
		list.Values = append(list.Values, structpb.NewStructValue(info))
	}
	return list, nil
}

// LoggingInterceptor пишет строку журнала на каждый unary вызов.
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.InfoContext(ctx, "gRPC call served",
			slog.String("method", info.FullMethod),
			slog.String("code", status.Code(err).String()),
			slog.Duration("duration", time.Since(start)),
		)
		return resp, err
	}
}
