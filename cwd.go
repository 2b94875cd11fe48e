// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package hostshim

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/carabiner-dev/hostshim/internal/common"
	"github.com/carabiner-dev/hostshim/procinfo"
)

// ReadCwd returns the current working directory of the process pid.
// Failures wrap procinfo.ErrQueryFailed. When the daemon cannot be reached
// the error also wraps ErrServerUnavailable or ErrNotConnected.
func (c *Client) ReadCwd(ctx context.Context, pid int32) (string, error) {
	// Use the local reader if running without a server
	if c.options.NoServer {
		return procinfo.Cwd(pid)
	}

	if c.client == nil {
		return "", fmt.Errorf("%w: %w", procinfo.ErrQueryFailed, ErrNotConnected)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	resp, err := c.client.ReadCwd(ctx, wrapperspb.Int32(pid))
	if err != nil {
		return "", fmt.Errorf("reading cwd of pid %d: %w", pid, common.FromCwdStatus(err))
	}

	return resp.GetValue(), nil
}

// ReadCwdInto writes the working directory of pid and a NUL terminator
// into buf and returns the path length. On failure it returns -1 and buf
// is left untouched, see procinfo.ReadCwd.
func (c *Client) ReadCwdInto(ctx context.Context, pid int32, buf []byte) (int, error) {
	if c.options.NoServer {
		return procinfo.ReadCwd(pid, buf)
	}

	path, err := c.ReadCwd(ctx, pid)
	if err != nil {
		return -1, err
	}

	if len(path)+1 > len(buf) {
		return -1, fmt.Errorf("%w: path needs %d bytes, buffer holds %d", procinfo.ErrBufferTooSmall, len(path)+1, len(buf))
	}

	n := copy(buf, path)
	buf[n] = 0
	return n, nil
}
