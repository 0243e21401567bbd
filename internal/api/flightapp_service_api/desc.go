package flightapp_service_api

import (
	"context"

	"google.golang.org/genproto/googleapis/api/httpbody"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "flightapp.v1.FlightApp"

// FlightAppServer is the server API of flightapp.v1.FlightApp. Requests and
// responses are well-known protobuf types, so no generated code is needed.
type FlightAppServer interface {
	OpenSession(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	CloseSession(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	CreateAccount(context.Context, *structpb.Struct) (*httpbody.HttpBody, error)
	Login(context.Context, *structpb.Struct) (*httpbody.HttpBody, error)
	Logout(context.Context, *emptypb.Empty) (*httpbody.HttpBody, error)
	Search(context.Context, *structpb.Struct) (*httpbody.HttpBody, error)
	Book(context.Context, *structpb.Struct) (*httpbody.HttpBody, error)
	Pay(context.Context, *structpb.Struct) (*httpbody.HttpBody, error)
	Reservations(context.Context, *emptypb.Empty) (*httpbody.HttpBody, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FlightAppServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("OpenSession", FlightAppServer.OpenSession),
		unary("CloseSession", FlightAppServer.CloseSession),
		unary("CreateAccount", FlightAppServer.CreateAccount),
		unary("Login", FlightAppServer.Login),
		unary("Logout", FlightAppServer.Logout),
		unary("Search", FlightAppServer.Search),
		unary("Book", FlightAppServer.Book),
		unary("Pay", FlightAppServer.Pay),
		unary("Reservations", FlightAppServer.Reservations),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "flightapp/v1/flightapp.proto",
}

func RegisterFlightAppServer(s grpc.ServiceRegistrar, srv FlightAppServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// FullMethod returns the wire name of method, e.g. "/flightapp.v1.FlightApp/Book".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary[Req any, PReq interface {
	*Req
	proto.Message
}, Resp proto.Message](name string, call func(FlightAppServer, context.Context, PReq) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := PReq(new(Req))
			if err := dec(in); err != nil {
				return nil, err
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				out, err := call(srv.(FlightAppServer), ctx, req.(PReq))
				if err != nil {
					return nil, err
				}
				return out, nil
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, handler)
		},
	}
}
