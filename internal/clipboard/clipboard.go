// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

// Package clipboard implements the toolkit.Display backends used by
// hostshim: the host clipboard, the Linux kernel keyring and plain memory.
package clipboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/carabiner-dev/hostshim/options"
	"github.com/carabiner-dev/hostshim/toolkit"
)

var (
	// ErrUnavailable is returned when a backend cannot reach its store.
	ErrUnavailable = errors.New("clipboard unavailable")

	// ErrTooLarge is returned when the text exceeds the configured limit.
	ErrTooLarge = errors.New("clipboard text too large")
)

// NewDisplay returns the best display available on this host: the system
// clipboard when a desktop session is running, then the kernel keyring,
// then memory.
func NewDisplay(ctx context.Context, maxSize int64) toolkit.Display {
	system, err := NewSystemDisplay(maxSize)
	if err == nil {
		clog.FromContext(ctx).Debugf("Using system clipboard display")
		return system
	}
	clog.FromContext(ctx).Debugf("System clipboard not available: %v", err)

	keyring, err := NewKeyringDisplay(maxSize)
	if err == nil {
		clog.FromContext(ctx).Debugf("Using kernel keyring clipboard display")
		return keyring
	}
	clog.FromContext(ctx).Debugf("Kernel keyring not available, using memory clipboard: %v", err)

	return NewMemoryDisplay(maxSize)
}

// NewBackend returns the display for a backend name as used in the
// options: auto, system, keyring or memory.
func NewBackend(ctx context.Context, name string, maxSize int64) (toolkit.Display, error) {
	switch name {
	case options.ClipboardAuto, "":
		return NewDisplay(ctx, maxSize), nil
	case options.ClipboardSystem:
		return NewSystemDisplay(maxSize)
	case options.ClipboardKeyring:
		return NewKeyringDisplay(maxSize)
	case options.ClipboardMemory:
		return NewMemoryDisplay(maxSize), nil
	default:
		return nil, fmt.Errorf("unknown clipboard backend %q", name)
	}
}

// failingClipboard is handed out for selections a display cannot serve.
// Every call returns err.
type failingClipboard struct {
	sel toolkit.Selection
	err error
}

func (f *failingClipboard) Selection() toolkit.Selection { return f.sel }
func (f *failingClipboard) Text(context.Context) (string, error) { return "", f.err }
func (f *failingClipboard) SetText(context.Context, string) error { return f.err }
func (f *failingClipboard) Clear(context.Context) error { return f.err }

func unknownSelection(sel toolkit.Selection) toolkit.Clipboard {
	return &failingClipboard{
		sel: sel,
		err: fmt.Errorf("%w: %d", toolkit.ErrUnknownSelection, int(sel)),
	}
}

func checkSize(text string, maxSize int64) error {
	if maxSize > 0 && int64(len(text)) > maxSize {
		return fmt.Errorf("%w: %d bytes exceeds maximum of %d", ErrTooLarge, len(text), maxSize)
	}
	return nil
}
