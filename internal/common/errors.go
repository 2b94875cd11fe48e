// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/carabiner-dev/hostshim/internal/clipboard"
	"github.com/carabiner-dev/hostshim/procinfo"
	"github.com/carabiner-dev/hostshim/toolkit"
)

// ErrServerUnavailable is returned when the daemon cannot be reached.
var ErrServerUnavailable = errors.New("hostshim server unavailable")

// clipboardCodes maps the status codes of the clipboard calls back to the
// errors callers check with errors.Is. The server never emits Unavailable
// itself, so that code always comes from the transport.
var clipboardCodes = map[codes.Code]error{
	codes.ResourceExhausted:  clipboard.ErrTooLarge,
	codes.InvalidArgument:    toolkit.ErrUnknownSelection,
	codes.FailedPrecondition: clipboard.ErrUnavailable,
	codes.Unavailable:        ErrServerUnavailable,
}

// ToStatus converts an error from the shims into a gRPC status error.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := status.FromError(err); ok {
		return err
	}

	code := codes.Internal
	switch {
	case errors.Is(err, procinfo.ErrBufferTooSmall):
		code = codes.OutOfRange
	case errors.Is(err, procinfo.ErrQueryFailed):
		code = codes.NotFound
	case errors.Is(err, clipboard.ErrTooLarge):
		code = codes.ResourceExhausted
	case errors.Is(err, toolkit.ErrUnknownSelection):
		code = codes.InvalidArgument
	case errors.Is(err, clipboard.ErrUnavailable):
		code = codes.FailedPrecondition
	}
	return status.Error(code, err.Error())
}

// FromCwdStatus converts an error returned by the ReadCwd call. Every
// failure to read the directory wraps procinfo.ErrQueryFailed, whether the
// process is missing, belongs to someone else or the daemon is gone.
// Transport failures also wrap ErrServerUnavailable.
func FromCwdStatus(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %w", procinfo.ErrQueryFailed, err)
	}

	switch st.Code() {
	case codes.OutOfRange:
		return fmt.Errorf("%w: %s", procinfo.ErrBufferTooSmall, st.Message())
	case codes.Unavailable:
		return fmt.Errorf("%w: %w: %s", procinfo.ErrQueryFailed, ErrServerUnavailable, st.Message())
	default:
		return fmt.Errorf("%w: %s: %s", procinfo.ErrQueryFailed, st.Code(), st.Message())
	}
}

// FromClipboardStatus converts an error returned by the clipboard calls
// into an error wrapping the matching sentinel, if there is one.
func FromClipboardStatus(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	if sentinel, ok := clipboardCodes[st.Code()]; ok {
		return fmt.Errorf("%w: %s", sentinel, st.Message())
	}
	return err
}
