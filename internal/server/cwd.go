// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"

	"github.com/chainguard-dev/clog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/carabiner-dev/hostshim/internal/common"
	"github.com/carabiner-dev/hostshim/procinfo"
)

// ReadCwd implements the ReadCwd RPC. It returns the working directory of
// the requested process after checking the caller may inspect it.
func (s *Server) ReadCwd(ctx context.Context, req *wrapperspb.Int32Value) (*wrapperspb.StringValue, error) {
	s.updateActivity()

	pid := req.GetValue()
	clog.FromContext(ctx).Debugf("ReadCwd request for pid %d", pid)

	authInfo, err := GetPeerAuthInfo(ctx)
	if err != nil {
		return nil, status.Errorf(codes.Unauthenticated, "failed to get client credentials: %v", err)
	}

	if authInfo.PID > 0 {
		if exe, err := procinfo.Executable(authInfo.PID); err == nil {
			clog.FromContext(ctx).Debugf("Caller pid %d uid %d running %s", authInfo.PID, authInfo.UID, exe)
		}
	}

	if err := s.authorizeProcess(authInfo, pid); err != nil {
		return nil, err
	}

	path, err := procinfo.Cwd(pid)
	if err != nil {
		return nil, common.ToStatus(err)
	}

	return wrapperspb.String(path), nil
}

// authorizeProcess checks if the peer may read information about pid.
// Root can read any process, other users only their own unless the
// server allows foreign processes.
func (s *Server) authorizeProcess(authInfo *peerAuthInfo, pid int32) error {
	if s.options.AllowForeignProcesses || authInfo.UID == 0 {
		return nil
	}

	owner, err := procinfo.Owner(pid)
	if err != nil {
		return common.ToStatus(err)
	}

	if owner != authInfo.UID {
		return status.Errorf(codes.PermissionDenied, "process %d is not owned by uid %d", pid, authInfo.UID)
	}

	return nil
}
