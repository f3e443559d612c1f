package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "taskkeeper.TaskService"

// Full method names, as seen by interceptors.
const (
	MethodPing         = "/" + ServiceName + "/Ping"
	MethodRegister     = "/" + ServiceName + "/Register"
	MethodGetSalt      = "/" + ServiceName + "/GetSalt"
	MethodLogin        = "/" + ServiceName + "/Login"
	MethodRefreshToken = "/" + ServiceName + "/RefreshToken"
	MethodCreateTask   = "/" + ServiceName + "/CreateTask"
	MethodUpdateTask   = "/" + ServiceName + "/UpdateTask"
	MethodDeleteTask   = "/" + ServiceName + "/DeleteTask"
	MethodListTasks    = "/" + ServiceName + "/ListTasks"
	MethodGetStats     = "/" + ServiceName + "/GetStats"
	MethodExportTasks  = "/" + ServiceName + "/ExportTasks"
)

// TaskServiceServer is implemented by the server.
type TaskServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	GetSalt(context.Context, *GetSaltRequest) (*GetSaltResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	CreateTask(context.Context, *CreateTaskRequest) (*CreateTaskResponse, error)
	UpdateTask(context.Context, *UpdateTaskRequest) (*UpdateTaskResponse, error)
	DeleteTask(context.Context, *DeleteTaskRequest) (*DeleteTaskResponse, error)
	ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error)
	GetStats(context.Context, *GetStatsRequest) (*GetStatsResponse, error)
	ExportTasks(context.Context, *ExportTasksRequest) (*ExportTasksResponse, error)
}

// UnimplementedTaskServiceServer answers codes.Unimplemented for every
// method. Embed it to stay forward compatible.
type UnimplementedTaskServiceServer struct{}

func unimplemented(name string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", name)
}

func (UnimplementedTaskServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, unimplemented("Ping")
}
func (UnimplementedTaskServiceServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, unimplemented("Register")
}
func (UnimplementedTaskServiceServer) GetSalt(context.Context, *GetSaltRequest) (*GetSaltResponse, error) {
	return nil, unimplemented("GetSalt")
}
func (UnimplementedTaskServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, unimplemented("Login")
}
func (UnimplementedTaskServiceServer) RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	return nil, unimplemented("RefreshToken")
}
func (UnimplementedTaskServiceServer) CreateTask(context.Context, *CreateTaskRequest) (*CreateTaskResponse, error) {
	return nil, unimplemented("CreateTask")
}
func (UnimplementedTaskServiceServer) UpdateTask(context.Context, *UpdateTaskRequest) (*UpdateTaskResponse, error) {
	return nil, unimplemented("UpdateTask")
}
func (UnimplementedTaskServiceServer) DeleteTask(context.Context, *DeleteTaskRequest) (*DeleteTaskResponse, error) {
	return nil, unimplemented("DeleteTask")
}
func (UnimplementedTaskServiceServer) ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error) {
	return nil, unimplemented("ListTasks")
}
func (UnimplementedTaskServiceServer) GetStats(context.Context, *GetStatsRequest) (*GetStatsResponse, error) {
	return nil, unimplemented("GetStats")
}
func (UnimplementedTaskServiceServer) ExportTasks(context.Context, *ExportTasksRequest) (*ExportTasksResponse, error) {
	return nil, unimplemented("ExportTasks")
}

// unary builds the method descriptor for one RPC.
func unary[Req, Resp any](name string, call func(TaskServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(TaskServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(TaskServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes TaskService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TaskServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", TaskServiceServer.Ping),
		unary("Register", TaskServiceServer.Register),
		unary("GetSalt", TaskServiceServer.GetSalt),
		unary("Login", TaskServiceServer.Login),
		unary("RefreshToken", TaskServiceServer.RefreshToken),
		unary("CreateTask", TaskServiceServer.CreateTask),
		unary("UpdateTask", TaskServiceServer.UpdateTask),
		unary("DeleteTask", TaskServiceServer.DeleteTask),
		unary("ListTasks", TaskServiceServer.ListTasks),
		unary("GetStats", TaskServiceServer.GetStats),
		unary("ExportTasks", TaskServiceServer.ExportTasks),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "taskkeeper.proto",
}

// RegisterTaskServiceServer registers srv on s.
func RegisterTaskServiceServer(s grpc.ServiceRegistrar, srv TaskServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
