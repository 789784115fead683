// internal/grpc/lookup_service.go
package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName полное имя gRPC сервиса справочных запросов.
const ServiceName = "filmservice.v1.FilmLookup"

// Полные имена методов FilmLookup
const (
	MethodCheckUserExists    = "/" + ServiceName + "/CheckUserExists"
	MethodCheckFilmExists    = "/" + ServiceName + "/CheckFilmExists"
	MethodGetFilmInfo        = "/" + ServiceName + "/GetFilmInfo"
	MethodGetRecommendations = "/" + ServiceName + "/GetRecommendations"
)

// FilmLookupServer контракт сервиса. Сообщения построены на well-known типах
// protobuf, поэтому отдельный .proto и генерация не нужны.
type FilmLookupServer interface {
	CheckUserExists(context.Context, *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error)
	CheckFilmExists(context.Context, *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error)
	GetFilmInfo(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	GetRecommendations(context.Context, *wrapperspb.Int64Value) (*structpb.ListValue, error)
}

// RegisterFilmLookupServer регистрирует реализацию на gRPC сервере.
func RegisterFilmLookupServer(s grpc.ServiceRegistrar, srv FilmLookupServer) {
	s.RegisterService(&filmLookupServiceDesc, srv)
}

// unaryHandler собирает обработчик метода с запросом Int64Value.
func unaryHandler[Resp any](method string, call func(FilmLookupServer, context.Context, *wrapperspb.Int64Value) (Resp, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(wrapperspb.Int64Value)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FilmLookupServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(FilmLookupServer), ctx, req.(*wrapperspb.Int64Value))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var filmLookupServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FilmLookupServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CheckUserExists",
			Handler:    unaryHandler(MethodCheckUserExists, FilmLookupServer.CheckUserExists),
		},
		{
			MethodName: "CheckFilmExists",
			Handler:    unaryHandler(MethodCheckFilmExists, FilmLookupServer.CheckFilmExists),
		},
		{
			MethodName: "GetFilmInfo",
			Handler:    unaryHandler(MethodGetFilmInfo, FilmLookupServer.GetFilmInfo),
		},
		{
			MethodName: "GetRecommendations",
			Handler:    unaryHandler(MethodGetRecommendations, FilmLookupServer.GetRecommendations),
		},
	},
	Streams: []grpc.StreamDesc{},
}
