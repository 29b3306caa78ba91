package grpc

import (
	"catalog/domain"
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const CatalogServiceName = "catalog.v1.CatalogService"

const (
	getCategoryMethod = "/" + CatalogServiceName + "/GetCategory"
	getProductMethod  = "/" + CatalogServiceName + "/GetProduct"
)

// CatalogServer is the read-only lookup service used by other backends. It
// takes an id and returns the record as a JSON-shaped Struct.
type CatalogServer interface {
	GetCategory(ctx context.Context, id *wrapperspb.Int64Value) (*structpb.Struct, error)
	GetProduct(ctx context.Context, id *wrapperspb.Int64Value) (*structpb.Struct, error)
}

type CategoryReader interface {
	GetByID(ctx context.Context, id int64) (domain.Category, error)
}

type ProductReader interface {
	GetByID(ctx context.Context, id int64) (domain.Product, error)
}

type CatalogServiceServer struct {
	categories CategoryReader
	products   ProductReader
}

func NewCatalogServiceServer(categories CategoryReader, products ProductReader) *CatalogServiceServer {
	return &CatalogServiceServer{
		categories: categories,
		products:   products,
	}
}

func (s *CatalogServiceServer) GetCategory(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	if req.GetValue() <= 0 {
		return nil, status.Error(codes.InvalidArgument, "category id is required")
	}

	category, err := s.categories.GetByID(ctx, req.GetValue())
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(category)
}

func (s *CatalogServiceServer) GetProduct(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	if req.GetValue() <= 0 {
		return nil, status.Error(codes.InvalidArgument, "product id is required")
	}

	product, err := s.products.GetByID(ctx, req.GetValue())
	if err != nil {
		return nil, mapError(err)
	}
	return toStruct(product)
}

func mapError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return status.Error(codes.NotFound, err.Error())
	}
	zap.L().Error("Catalog lookup failed", zap.Error(err))
	return status.Error(codes.Internal, "internal error")
}

// toStruct converts v through its JSON form so gRPC clients see the same
// field names as HTTP clients.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}

	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&catalogServiceDesc, srv)
}

var catalogServiceDesc = grpc.ServiceDesc{
	ServiceName: CatalogServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetCategory", Handler: getCategoryHandler},
		{MethodName: "GetProduct", Handler: getProductHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "catalog/v1/catalog.proto",
}

func getCategoryHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).GetCategory(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getCategoryMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CatalogServer).GetCategory(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

func getProductHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CatalogServer).GetProduct(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getProductMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CatalogServer).GetProduct(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

// CatalogClient calls CatalogServer over a client connection.
type CatalogClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogClient(cc grpc.ClientConnInterface) *CatalogClient {
	return &CatalogClient{cc: cc}
}

func (c *CatalogClient) GetCategory(ctx context.Context, id int64, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getCategoryMethod, wrapperspb.Int64(id), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogClient) GetProduct(ctx context.Context, id int64, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getProductMethod, wrapperspb.Int64(id), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
