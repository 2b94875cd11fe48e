// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/carabiner-dev/hostshim/internal/clipboard"
	"github.com/carabiner-dev/hostshim/procinfo"
	"github.com/carabiner-dev/hostshim/toolkit"
)

func TestToStatus(t *testing.T) {
	for _, tc := range []struct {
		sentinel error
		code     codes.Code
	}{
		{procinfo.ErrQueryFailed, codes.NotFound},
		{procinfo.ErrBufferTooSmall, codes.OutOfRange},
		{clipboard.ErrTooLarge, codes.ResourceExhausted},
		{toolkit.ErrUnknownSelection, codes.InvalidArgument},
		{clipboard.ErrUnavailable, codes.FailedPrecondition},
	} {
		t.Run(tc.sentinel.Error(), func(t *testing.T) {
			st := ToStatus(fmt.Errorf("%w: some detail", tc.sentinel))
			if got := status.Code(st); got != tc.code {
				t.Errorf("Expected code %s, got %s", tc.code, got)
			}
		})
	}
}

func TestToStatusPassthrough(t *testing.T) {
	if ToStatus(nil) != nil {
		t.Error("Expected nil for nil error")
	}

	orig := status.Error(codes.PermissionDenied, "nope")
	if got := ToStatus(orig); status.Code(got) != codes.PermissionDenied {
		t.Errorf("Expected status to pass through, got %v", got)
	}

	if got := ToStatus(errors.New("boom")); status.Code(got) != codes.Internal {
		t.Errorf("Expected Internal for unknown errors, got %v", got)
	}
}

func TestFromCwdStatus(t *testing.T) {
	if FromCwdStatus(nil) != nil {
		t.Error("Expected nil for nil error")
	}

	for _, tc := range []struct {
		name        string
		err         error
		queryFailed bool
		tooSmall    bool
		unavailable bool
	}{
		{"missing process", ToStatus(procinfo.ErrQueryFailed), true, false, false},
		{"foreign process", status.Error(codes.PermissionDenied, "not owned"), true, false, false},
		{"unknown caller", status.Error(codes.Unauthenticated, "no credentials"), true, false, false},
		{"daemon gone", status.Error(codes.Unavailable, "connection refused"), true, false, true},
		{"internal", status.Error(codes.Internal, "boom"), true, false, false},
		{"plain error", errors.New("boom"), true, false, false},
		{"buffer", ToStatus(procinfo.ErrBufferTooSmall), false, true, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := FromCwdStatus(tc.err)
			if errors.Is(got, procinfo.ErrQueryFailed) != tc.queryFailed {
				t.Errorf("ErrQueryFailed: expected %v for %v", tc.queryFailed, got)
			}
			if errors.Is(got, procinfo.ErrBufferTooSmall) != tc.tooSmall {
				t.Errorf("ErrBufferTooSmall: expected %v for %v", tc.tooSmall, got)
			}
			if errors.Is(got, ErrServerUnavailable) != tc.unavailable {
				t.Errorf("ErrServerUnavailable: expected %v for %v", tc.unavailable, got)
			}
			if errors.Is(got, clipboard.ErrUnavailable) {
				t.Errorf("cwd errors must not report the clipboard as unavailable: %v", got)
			}
		})
	}
}

func TestFromClipboardStatus(t *testing.T) {
	for _, tc := range []struct {
		name     string
		err      error
		sentinel error
	}{
		{"too large", ToStatus(clipboard.ErrTooLarge), clipboard.ErrTooLarge},
		{"bad selection", ToStatus(toolkit.ErrUnknownSelection), toolkit.ErrUnknownSelection},
		{"backend down", ToStatus(clipboard.ErrUnavailable), clipboard.ErrUnavailable},
		{"daemon gone", status.Error(codes.Unavailable, "connection refused"), ErrServerUnavailable},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := FromClipboardStatus(tc.err)
			if !errors.Is(got, tc.sentinel) {
				t.Errorf("Expected %v to wrap %v", got, tc.sentinel)
			}
			for _, other := range []error{clipboard.ErrTooLarge, toolkit.ErrUnknownSelection, clipboard.ErrUnavailable, ErrServerUnavailable} {
				if other != tc.sentinel && errors.Is(got, other) {
					t.Errorf("Expected %v not to wrap %v", got, other)
				}
			}
		})
	}

	orig := status.Error(codes.PermissionDenied, "nope")
	if got := FromClipboardStatus(orig); got != orig {
		t.Errorf("Expected the original error back, got %v", got)
	}
	plain := errors.New("plain")
	if got := FromClipboardStatus(plain); got != plain {
		t.Errorf("Expected non-status errors to pass through, got %v", got)
	}
}
