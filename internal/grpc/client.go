// internal/grpc/client.go
package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// defaultCallTimeout таймаут одного вызова, если у контекста нет своего
const defaultCallTimeout = 3 * time.Second

// breakerFailureThreshold подряд идущих сбоев размыкают цепь
const breakerFailureThreshold = 3

// Client вызывает FilmLookup на удаленном сервисе. Сбои транспорта
// размыкают цепь, и следующие вызовы сразу получают gobreaker.ErrOpenState.
type Client struct {
	conn    *grpc.ClientConn
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  *slog.Logger
}

// businessError ошибки, которые говорят о данных, а не о недоступности сервиса.
func businessError(err error) bool {
	switch status.Code(err) {
	case codes.OK, codes.NotFound, codes.InvalidArgument, codes.Aborted:
		return true
	}
	return false
}

func newBreaker(addr string, logger *slog.Logger) *gobreaker.CircuitBreaker[struct{}] {
	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "film-lookup:" + addr,
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		IsSuccessful: businessError,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("FilmLookup circuit breaker state changed",
				slog.String("breaker", name), slog.String("from", from.String()), slog.String("to", to.String()))
		},
	})
}

// Dial создает клиента к адресу addr без TLS.
func Dial(addr string, logger *slog.Logger, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		logger.Error("Failed to create FilmLookup gRPC client", slog.String("address", addr), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to connect to film lookup at %s: %w", addr, err)
	}
	return &Client{conn: conn, breaker: newBreaker(addr, logger), logger: logger}, nil
}

func (c *Client) invoke(ctx context.Context, method string, id int64, out interface{}) error {
	callCtx, cancel := context.WithTimeout(ctx, defaultCallTimeout)
	defer cancel()
	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.conn.Invoke(callCtx, method, wrapperspb.Int64(id), out)
	})
	if err != nil {
		st, _ := status.FromError(err)
		c.logger.ErrorContext(ctx, "FilmLookup gRPC call failed",
			slog.String("method", method),
			slog.Int64("id", id),
			slog.String("code", st.Code().String()),
			slog.String("message", st.Message()))
		return fmt.Errorf("grpc %s failed for id %d: %w", method, id, err)
	}
	return nil
}

func (c *Client) CheckUserExists(ctx context.Context, userID int64) (bool, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.invoke(ctx, MethodCheckUserExists, userID, out); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

func (c *Client) CheckFilmExists(ctx context.Context, filmID int64) (bool, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.invoke(ctx, MethodCheckFilmExists, filmID, out); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

// GetFilmInfo возвращает описание фильма в виде map.
func (c *Client) GetFilmInfo(ctx context.Context, filmID int64) (map[string]interface{}, error) {
	out := new(structpb.Struct)
	if err := c.invoke(ctx, MethodGetFilmInfo, filmID, out); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}

// GetRecommendations возвращает рекомендованные фильмы в порядке сервера.
func (c *Client) GetRecommendations(ctx context.Context, userID int64) ([]map[string]interface{}, error) {
	out := new(structpb.ListValue)
	if err := c.invoke(ctx, MethodGetRecommendations, userID, out); err != nil {
		return nil, err
	}
	films := make([]map[string]interface{}, 0, len(out.GetValues()))
	for _, v := range out.GetValues() {
		films = append(films, v.GetStructValue().AsMap())
	}
	return films, nil
}

// Close закрывает gRPC соединение.
func (c *Client) Close() error {
	if c.conn != nil {
		c.logger.Info("Closing FilmLookup gRPC connection")
		return c.conn.Close()
	}
	return nil
}
