// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

//go:build linux || darwin

package server

import (
	"context"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/carabiner-dev/hostshim/options"
)

func TestGetPeerAuthInfo(t *testing.T) {
	if _, err := GetPeerAuthInfo(context.Background()); err == nil {
		t.Error("Expected error without a peer in the context")
	}

	// Credentials that could not be read must not pass as uid 0
	unknown := peer.NewContext(context.Background(), &peer.Peer{AuthInfo: &peerAuthInfo{}})
	if _, err := GetPeerAuthInfo(unknown); err == nil {
		t.Error("Expected error for unknown peer credentials")
	}

	known := peer.NewContext(context.Background(), &peer.Peer{
		AuthInfo: &peerAuthInfo{PID: 42, UID: 1000, GID: 1000, Known: true},
	})
	info, err := GetPeerAuthInfo(known)
	if err != nil {
		t.Fatalf("GetPeerAuthInfo failed: %v", err)
	}
	if info.PID != 42 || info.UID != 1000 {
		t.Errorf("Unexpected auth info %+v", info)
	}
}

func TestAuthorizeProcess(t *testing.T) {
	s := &Server{options: options.DefaultServer()}

	if err := s.authorizeProcess(&peerAuthInfo{UID: 0, Known: true}, 0x7ffffff0); err != nil {
		t.Errorf("Expected root to be authorized, got %v", err)
	}

	s.options.AllowForeignProcesses = true
	if err := s.authorizeProcess(&peerAuthInfo{UID: 4242, Known: true}, 0x7ffffff0); err != nil {
		t.Errorf("Expected foreign processes to be allowed, got %v", err)
	}

	s.options.AllowForeignProcesses = false
	if err := s.authorizeProcess(&peerAuthInfo{UID: 4242, Known: true}, 0x7ffffff0); status.Code(err) != codes.NotFound {
		t.Errorf("Expected NotFound for a missing process, got %v", err)
	}
}
