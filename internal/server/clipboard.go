// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"

	"github.com/chainguard-dev/clog"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/carabiner-dev/hostshim/internal/common"
	"github.com/carabiner-dev/hostshim/toolkit"
)

// clipboardFromContext returns the clipboard handle for the selection
// requested in the call metadata.
func (s *Server) clipboardFromContext(ctx context.Context) (toolkit.Clipboard, error) {
	sel := toolkit.SelectionClipboard
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get(common.SelectionHeader); len(vals) > 0 {
			var err error
			sel, err = toolkit.ParseSelection(vals[0])
			if err != nil {
				return nil, common.ToStatus(err)
			}
		}
	}

	if sel == toolkit.SelectionClipboard {
		return toolkit.GetDefaultClipboard(s.display), nil
	}
	return s.display.Clipboard(sel), nil
}

// GetClipboard implements the GetClipboard RPC
func (s *Server) GetClipboard(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	s.updateActivity()

	cb, err := s.clipboardFromContext(ctx)
	if err != nil {
		return nil, err
	}

	text, err := cb.Text(ctx)
	if err != nil {
		return nil, common.ToStatus(err)
	}

	clog.FromContext(ctx).Debugf("Read %d bytes from %s", len(text), cb.Selection())
	return wrapperspb.String(text), nil
}

// SetClipboard implements the SetClipboard RPC
func (s *Server) SetClipboard(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	s.updateActivity()

	cb, err := s.clipboardFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := cb.SetText(ctx, req.GetValue()); err != nil {
		return nil, common.ToStatus(err)
	}

	clog.FromContext(ctx).Debugf("Stored %d bytes in %s", len(req.GetValue()), cb.Selection())
	return &emptypb.Empty{}, nil
}

// ClearClipboard implements the ClearClipboard RPC
func (s *Server) ClearClipboard(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	s.updateActivity()

	cb, err := s.clipboardFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := cb.Clear(ctx); err != nil {
		return nil, common.ToStatus(err)
	}
	return &emptypb.Empty{}, nil
}
