// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

// Package common holds the pieces shared by the hostshim client and server:
// the gRPC service contract and the binary fingerprinting helpers.
package common

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The service uses the protobuf well-known wrappers as its messages so no
// generated code is needed on either side. Host runtimes can call it with
// any stock gRPC stack.
const (
	ServiceName = "hostshim.v1.HostShim"

	PingMethod           = "/" + ServiceName + "/Ping"
	ReadCwdMethod        = "/" + ServiceName + "/ReadCwd"
	GetClipboardMethod   = "/" + ServiceName + "/GetClipboard"
	SetClipboardMethod   = "/" + ServiceName + "/SetClipboard"
	ClearClipboardMethod = "/" + ServiceName + "/ClearClipboard"

	// SelectionHeader is the metadata key carrying the clipboard
	// selection of the clipboard calls. Missing means CLIPBOARD.
	SelectionHeader = "hostshim-selection"
)

// HostShimServer is the server API for the HostShim service.
type HostShimServer interface {
	Ping(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error)
	ReadCwd(context.Context, *wrapperspb.Int32Value) (*wrapperspb.StringValue, error)
	GetClipboard(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	SetClipboard(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	ClearClipboard(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
}

// UnimplementedHostShimServer can be embedded to have forward compatible
// server implementations.
type UnimplementedHostShimServer struct{}

func (UnimplementedHostShimServer) Ping(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

func (UnimplementedHostShimServer) ReadCwd(context.Context, *wrapperspb.Int32Value) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ReadCwd not implemented")
}

func (UnimplementedHostShimServer) GetClipboard(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method GetClipboard not implemented")
}

func (UnimplementedHostShimServer) SetClipboard(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method SetClipboard not implemented")
}

func (UnimplementedHostShimServer) ClearClipboard(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method ClearClipboard not implemented")
}

// unaryHandler adapts a typed server method to a grpc.MethodHandler.
func unaryHandler[Req any, Resp any](
	fullMethod string, call func(HostShimServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(HostShimServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(HostShimServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// HostShimServiceDesc is the grpc.ServiceDesc for the HostShim service.
var HostShimServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*HostShimServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Ping",
			Handler:    unaryHandler(PingMethod, HostShimServer.Ping),
		},
		{
			MethodName: "ReadCwd",
			Handler:    unaryHandler(ReadCwdMethod, HostShimServer.ReadCwd),
		},
		{
			MethodName: "GetClipboard",
			Handler:    unaryHandler(GetClipboardMethod, HostShimServer.GetClipboard),
		},
		{
			MethodName: "SetClipboard",
			Handler:    unaryHandler(SetClipboardMethod, HostShimServer.SetClipboard),
		},
		{
			MethodName: "ClearClipboard",
			Handler:    unaryHandler(ClearClipboardMethod, HostShimServer.ClearClipboard),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hostshim/v1",
}

// RegisterHostShimServer registers the service implementation with a
// gRPC server.
func RegisterHostShimServer(s grpc.ServiceRegistrar, srv HostShimServer) {
	s.RegisterService(&HostShimServiceDesc, srv)
}

// HostShimClient is the client API for the HostShim service.
type HostShimClient interface {
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	ReadCwd(ctx context.Context, in *wrapperspb.Int32Value, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	GetClipboard(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	SetClipboard(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
	ClearClipboard(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type hostShimClient struct {
	cc grpc.ClientConnInterface
}

// NewHostShimClient returns a client for the HostShim service.
func NewHostShimClient(cc grpc.ClientConnInterface) HostShimClient {
	return &hostShimClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *hostShimClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	return invoke[wrapperspb.BoolValue](ctx, c.cc, PingMethod, in, opts...)
}

func (c *hostShimClient) ReadCwd(ctx context.Context, in *wrapperspb.Int32Value, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return invoke[wrapperspb.StringValue](ctx, c.cc, ReadCwdMethod, in, opts...)
}

func (c *hostShimClient) GetClipboard(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return invoke[wrapperspb.StringValue](ctx, c.cc, GetClipboardMethod, in, opts...)
}

func (c *hostShimClient) SetClipboard(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, SetClipboardMethod, in, opts...)
}

func (c *hostShimClient) ClearClipboard(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, ClearClipboardMethod, in, opts...)
}
