// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/peer"
)

// peerCredentials implements GRPC's credentials.TransportCredentials
// for Unix sockets.
type peerCredentials struct{}

// NewPeerCredentials creates transport credentials that extract peer info
func NewPeerCredentials() credentials.TransportCredentials {
	return &peerCredentials{}
}

func (c *peerCredentials) ClientHandshake(ctx context.Context, authority string, rawConn net.Conn) (net.Conn, credentials.AuthInfo, error) {
	return rawConn, &peerAuthInfo{}, nil
}

// ServerHandshake handles the new connection from the client. It extracts the
// peer information from the socket calling GetsockoptUcred in the GetPeerCredentials
// function.
func (c *peerCredentials) ServerHandshake(rawConn net.Conn) (net.Conn, credentials.AuthInfo, error) {
	// Extract peer credentials from Unix socket
	unixConn, ok := rawConn.(*net.UnixConn)
	if !ok {
		return rawConn, &peerAuthInfo{}, nil
	}

	pid, uid, gid, err := GetPeerCredentials(unixConn)
	if err != nil {
		// Don't fail the handshake, calls needing the peer identity
		// will be rejected later.
		return rawConn, &peerAuthInfo{}, nil
	}

	return rawConn, &peerAuthInfo{
		PID:   pid,
		UID:   uid,
		GID:   gid,
		Known: true,
	}, nil
}

func (c *peerCredentials) Info() credentials.ProtocolInfo {
	return credentials.ProtocolInfo{
		SecurityProtocol: "unix",
		SecurityVersion:  "1.0",
	}
}

func (c *peerCredentials) Clone() credentials.TransportCredentials {
	return &peerCredentials{}
}

func (c *peerCredentials) OverrideServerName(string) error {
	return nil
}

// peerAuthInfo contains authentication info from peer credentials.
// Known is false when the credentials could not be read from the socket,
// in that case the IDs are zero and must not be trusted.
type peerAuthInfo struct {
	PID   int32
	UID   uint32
	GID   uint32
	Known bool
}

func (a *peerAuthInfo) AuthType() string {
	return "unix-peercred"
}

// GetPeerAuthInfo extracts peerAuthInfo from context
func GetPeerAuthInfo(ctx context.Context) (*peerAuthInfo, error) {
	p, ok := peer.FromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("no peer in context")
	}

	authInfo, ok := p.AuthInfo.(*peerAuthInfo)
	if !ok {
		return nil, fmt.Errorf("auth info is not peerAuthInfo, got %T", p.AuthInfo)
	}

	if !authInfo.Known {
		return nil, fmt.Errorf("peer credentials not available")
	}

	return authInfo, nil
}
