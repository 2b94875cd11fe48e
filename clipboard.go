// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package hostshim

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/carabiner-dev/hostshim/internal/common"
	"github.com/carabiner-dev/hostshim/toolkit"
)

// selectionContext returns a context tagged with the selection and a
// timeout for the clipboard calls.
func selectionContext(ctx context.Context, sel toolkit.Selection) (context.Context, context.CancelFunc) {
	ctx = metadata.AppendToOutgoingContext(ctx, common.SelectionHeader, sel.String())
	return context.WithTimeout(ctx, 5*time.Second)
}

// localClipboard returns the in-process clipboard for NoServer mode.
func (c *Client) localClipboard(sel toolkit.Selection) (toolkit.Clipboard, error) {
	if c.display == nil {
		return nil, ErrNotConnected
	}
	if sel == toolkit.SelectionClipboard {
		return toolkit.GetDefaultClipboard(c.display), nil
	}
	return c.display.Clipboard(sel), nil
}

// ClipboardText returns the text in the selection.
func (c *Client) ClipboardText(ctx context.Context, sel toolkit.Selection) (string, error) {
	if c.options.NoServer {
		cb, err := c.localClipboard(sel)
		if err != nil {
			return "", err
		}
		return cb.Text(ctx)
	}

	if c.client == nil {
		return "", ErrNotConnected
	}

	ctx, cancel := selectionContext(ctx, sel)
	defer cancel()

	resp, err := c.client.GetClipboard(ctx, &emptypb.Empty{})
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", sel, common.FromClipboardStatus(err))
	}
	return resp.GetValue(), nil
}

// SetClipboardText replaces the text in the selection.
func (c *Client) SetClipboardText(ctx context.Context, sel toolkit.Selection, text string) error {
	if c.options.NoServer {
		cb, err := c.localClipboard(sel)
		if err != nil {
			return err
		}
		return cb.SetText(ctx, text)
	}

	if c.client == nil {
		return ErrNotConnected
	}

	ctx, cancel := selectionContext(ctx, sel)
	defer cancel()

	if _, err := c.client.SetClipboard(ctx, wrapperspb.String(text)); err != nil {
		return fmt.Errorf("writing %s: %w", sel, common.FromClipboardStatus(err))
	}
	return nil
}

// ClearClipboard empties the selection.
func (c *Client) ClearClipboard(ctx context.Context, sel toolkit.Selection) error {
	if c.options.NoServer {
		cb, err := c.localClipboard(sel)
		if err != nil {
			return err
		}
		return cb.Clear(ctx)
	}

	if c.client == nil {
		return ErrNotConnected
	}

	ctx, cancel := selectionContext(ctx, sel)
	defer cancel()

	if _, err := c.client.ClearClipboard(ctx, &emptypb.Empty{}); err != nil {
		return fmt.Errorf("clearing %s: %w", sel, common.FromClipboardStatus(err))
	}
	return nil
}
