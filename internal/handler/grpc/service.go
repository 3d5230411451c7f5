package hgrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName    = "banking.v1.BankingService"
	DispatchMethod = "/" + ServiceName + "/Dispatch"
)

// BankingServiceServer is the server API for banking.v1.BankingService.
//
// Dispatch takes {"operation": string, "params": {name: value}} and returns the
// operation's rendered result.
type BankingServiceServer interface {
	Dispatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func _BankingService_Dispatch_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BankingServiceServer).Dispatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: DispatchMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BankingServiceServer).Dispatch(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var BankingService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BankingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Dispatch",
			Handler:    _BankingService_Dispatch_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "banking/v1/banking.proto",
}

func RegisterBankingServiceServer(s grpc.ServiceRegistrar, srv BankingServiceServer) {
	s.RegisterService(&BankingService_ServiceDesc, srv)
}

// BankingServiceClient calls Dispatch on a remote server.
type BankingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewBankingServiceClient(cc grpc.ClientConnInterface) *BankingServiceClient {
	return &BankingServiceClient{cc: cc}
}

func (c *BankingServiceClient) Dispatch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, DispatchMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
