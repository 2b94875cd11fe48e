// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package clipboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/carabiner-dev/hostshim/toolkit"
)

var _ toolkit.Display = &SystemDisplay{}

// SystemDisplay exposes the clipboard of the desktop session through the
// host clipboard utilities (pbcopy, xclip, wl-clipboard...).
//
// The utilities are driven with fixed arguments that only reach the
// CLIPBOARD selection, so PRIMARY reports ErrUnavailable.
type SystemDisplay struct {
	clipboard *systemClipboard
	primary   toolkit.Clipboard
}

// NewSystemDisplay returns a display bound to the host clipboard. It
// fails when no clipboard utility can be found or when there is no
// desktop session for it to talk to.
func NewSystemDisplay(maxSize int64) (*SystemDisplay, error) {
	if clipboard.Unsupported {
		return nil, fmt.Errorf("%w: no clipboard utilities found", ErrUnavailable)
	}
	if !hasDesktopSession() {
		return nil, fmt.Errorf("%w: no desktop session", ErrUnavailable)
	}
	return newSystemDisplay(maxSize, clipboard.ReadAll, clipboard.WriteAll), nil
}

func newSystemDisplay(maxSize int64, read func() (string, error), write func(string) error) *SystemDisplay {
	return &SystemDisplay{
		clipboard: &systemClipboard{
			maxSize: maxSize,
			read:    read,
			write:   write,
		},
		primary: &failingClipboard{
			sel: toolkit.SelectionPrimary,
			err: fmt.Errorf("%w: the host clipboard utilities only reach %s", ErrUnavailable, toolkit.SelectionClipboard),
		},
	}
}

// Clipboard returns the handle for the selection.
func (d *SystemDisplay) Clipboard(sel toolkit.Selection) toolkit.Clipboard {
	switch sel {
	case toolkit.SelectionClipboard:
		return d.clipboard
	case toolkit.SelectionPrimary:
		return d.primary
	default:
		return unknownSelection(sel)
	}
}

type systemClipboard struct {
	maxSize int64
	read    func() (string, error)
	write   func(string) error

	// Serializes the utility invocations
	mu sync.Mutex
}

func (s *systemClipboard) Selection() toolkit.Selection { return toolkit.SelectionClipboard }

func (s *systemClipboard) Text(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, err := s.read()
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %w", ErrUnavailable, toolkit.SelectionClipboard, err)
	}
	return text, nil
}

func (s *systemClipboard) SetText(_ context.Context, text string) error {
	if err := checkSize(text, s.maxSize); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(text); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrUnavailable, toolkit.SelectionClipboard, err)
	}
	return nil
}

func (s *systemClipboard) Clear(ctx context.Context) error {
	return s.SetText(ctx, "")
}
