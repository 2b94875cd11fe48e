// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/chainguard-dev/clog"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/carabiner-dev/hostshim/internal/clipboard"
	"github.com/carabiner-dev/hostshim/internal/common"
	"github.com/carabiner-dev/hostshim/options"
	"github.com/carabiner-dev/hostshim/toolkit"
)

// Server implements the HostShim gRPC service
type Server struct {
	common.UnimplementedHostShimServer

	// Server options
	options *options.Server

	// display is the toolkit session the clipboard calls are served from
	display toolkit.Display

	lastActivity time.Time
	activityMu   sync.Mutex

	inactivityTimer *time.Timer
	shutdownOnce    sync.Once
	grpcServer      *grpc.Server
}

// NewServer creates a new HostShim server with the supplied options. When
// display is nil the clipboard backend named in the options is used.
func NewServer(ctx context.Context, opts *options.Server, display toolkit.Display) (*Server, error) {
	if display == nil {
		var err error
		display, err = clipboard.NewBackend(ctx, opts.ClipboardBackend, opts.MaxClipboardSize)
		if err != nil {
			return nil, err
		}
	}

	return &Server{
		options:      opts,
		display:      display,
		lastActivity: time.Now(),
	}, nil
}

// Run listens on the unix socket and blocks until the server shuts down,
// either by inactivity or by cancelling the context.
func (s *Server) Run(ctx context.Context) error {
	// Remove existing socket file if it already exists
	if err := os.RemoveAll(s.options.SocketPath); err != nil {
		return fmt.Errorf("failed to remove existing socket: %w", err)
	}

	// Create Unix domain socket listener
	lc := net.ListenConfig{}
	listener, err := lc.Listen(ctx, "unix", s.options.SocketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}
	defer listener.Close() //nolint:errcheck

	// Set socket permissions to be restrictive (owner only)
	if err := os.Chmod(s.options.SocketPath, 0o600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	clog.FromContext(ctx).Debugf("Server listening on %s", s.options.SocketPath)

	return s.Serve(ctx, listener)
}

// Serve handles connections on the listener until shutdown.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	// Create gRPC server with custom credentials to extract peer info
	s.grpcServer = grpc.NewServer(
		grpc.Creds(NewPeerCredentials()),
		grpc.UnaryInterceptor(loggingInterceptor(clog.FromContext(ctx))),
	)
	common.RegisterHostShimServer(s.grpcServer, s)

	// Start inactivity monitor
	if s.options.InactivityTimeout > 0 {
		s.activityMu.Lock()
		s.inactivityTimer = time.AfterFunc(s.options.InactivityTimeout, func() {
			clog.FromContext(ctx).Infof("No requests for %s, shutting down", s.idleFor().Round(time.Millisecond))
			s.Shutdown()
		})
		s.activityMu.Unlock()
	}

	// Stop when the context is cancelled
	stop := context.AfterFunc(ctx, s.Shutdown)
	defer stop()

	if err := s.grpcServer.Serve(listener); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}

	return nil
}

// Shutdown stops the server gracefully. It is safe to call more than once.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.activityMu.Lock()
		if s.inactivityTimer != nil {
			s.inactivityTimer.Stop()
		}
		s.activityMu.Unlock()

		if s.grpcServer != nil {
			s.grpcServer.GracefulStop()
		}
	})
}

// updateActivity updates the last activity timestamp of the server.
func (s *Server) updateActivity() {
	s.activityMu.Lock()
	defer s.activityMu.Unlock()

	s.lastActivity = time.Now()

	// Reset the inactivity timer
	if s.inactivityTimer != nil {
		s.inactivityTimer.Reset(s.options.InactivityTimeout)
	}
}

// idleFor returns the time since the last request.
func (s *Server) idleFor() time.Duration {
	s.activityMu.Lock()
	defer s.activityMu.Unlock()
	return time.Since(s.lastActivity)
}

// Ping implements the Ping RPC
func (s *Server) Ping(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	s.updateActivity()
	return wrapperspb.Bool(true), nil
}

// loggingInterceptor puts a logger scoped to the called method in the
// request context.
func loggingInterceptor(base *clog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx = clog.WithLogger(ctx, base.With("method", info.FullMethod))
		resp, err := handler(ctx, req)
		if err != nil {
			clog.FromContext(ctx).Debugf("Request failed: %v", err)
		}
		return resp, err
	}
}
