package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// The Map service carries the read-only feed over gRPC. Messages are protobuf
// well-known types, so no generated code is needed: each list is a ListValue
// of Struct values shaped like the JSON API objects.

const mapServiceName = "emojimap.Map"

type MapServer interface {
	ListPublicMarkers(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	ListPublicTags(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	TrendingMarkers(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
}

type listCall func(MapServer, context.Context, *emptypb.Empty) (*structpb.ListValue, error)

// methodHandler has the shape grpc.MethodDesc.Handler expects.
type methodHandler = func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error)

func unaryHandler(method string, call listCall) methodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(emptypb.Empty)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MapServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + mapServiceName + "/" + method,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(MapServer), ctx, req.(*emptypb.Empty))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var MapServiceDesc = grpc.ServiceDesc{
	ServiceName: mapServiceName,
	HandlerType: (*MapServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListPublicMarkers", Handler: unaryHandler("ListPublicMarkers", MapServer.ListPublicMarkers)},
		{MethodName: "ListPublicTags", Handler: unaryHandler("ListPublicTags", MapServer.ListPublicTags)},
		{MethodName: "TrendingMarkers", Handler: unaryHandler("TrendingMarkers", MapServer.TrendingMarkers)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "emojimap/map.proto",
}

func RegisterMapServer(s grpc.ServiceRegistrar, srv MapServer) {
	s.RegisterService(&MapServiceDesc, srv)
}

type MapClient struct {
	cc grpc.ClientConnInterface
}

func NewMapClient(cc grpc.ClientConnInterface) *MapClient {
	return &MapClient{cc: cc}
}

func (c *MapClient) ListPublicMarkers(ctx context.Context, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return c.invoke(ctx, "ListPublicMarkers", opts...)
}

func (c *MapClient) ListPublicTags(ctx context.Context, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return c.invoke(ctx, "ListPublicTags", opts...)
}

func (c *MapClient) TrendingMarkers(ctx context.Context, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return c.invoke(ctx, "TrendingMarkers", opts...)
}

func (c *MapClient) invoke(ctx context.Context, method string, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, "/"+mapServiceName+"/"+method, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
