// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package clipboard

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/carabiner-dev/hostshim/toolkit"
)

// keyringMaxPayload is the largest payload the kernel accepts for
// "user" type keys.
const keyringMaxPayload = 32767

var _ toolkit.Display = &KeyringDisplay{}

// KeyringDisplay keeps clipboard contents in the kernel process keyring.
// The contents live as long as the process and never touch the disk.
type KeyringDisplay struct {
	boards map[toolkit.Selection]*keyringClipboard
}

// NewKeyringDisplay creates a new kernel keyring display. It uses the
// process keyring (KEY_SPEC_PROCESS_KEYRING) which is isolated per-process.
func NewKeyringDisplay(maxSize int64) (*KeyringDisplay, error) {
	// Request the process keyring, creating it if it doesn't exist
	if _, err := unix.KeyctlGetKeyringID(unix.KEY_SPEC_PROCESS_KEYRING, true); err != nil {
		return nil, fmt.Errorf("failed to access/create process keyring: %w", err)
	}

	if maxSize <= 0 || maxSize > keyringMaxPayload {
		maxSize = keyringMaxPayload
	}

	d := &KeyringDisplay{
		boards: map[toolkit.Selection]*keyringClipboard{},
	}
	for _, sel := range []toolkit.Selection{toolkit.SelectionClipboard, toolkit.SelectionPrimary} {
		d.boards[sel] = &keyringClipboard{
			sel:         sel,
			maxSize:     maxSize,
			description: "hostshim:" + sel.String(),
		}
	}
	return d, nil
}

// Clipboard returns the handle for the selection.
func (d *KeyringDisplay) Clipboard(sel toolkit.Selection) toolkit.Clipboard {
	if b, ok := d.boards[sel]; ok {
		return b
	}
	return unknownSelection(sel)
}

type keyringClipboard struct {
	sel         toolkit.Selection
	maxSize     int64
	description string
}

func (k *keyringClipboard) Selection() toolkit.Selection { return k.sel }

// Text reads the clipboard key. A missing key is an empty clipboard.
func (k *keyringClipboard) Text(context.Context) (string, error) {
	keyID, err := unix.KeyctlSearch(unix.KEY_SPEC_PROCESS_KEYRING, "user", k.description, 0)
	if errors.Is(err, unix.ENOKEY) {
		// Nothing was copied yet
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: searching keyring: %w", ErrUnavailable, err)
	}

	// First, get the size of the key data
	size, err := unix.KeyctlBuffer(unix.KEYCTL_READ, keyID, nil, 0)
	if err != nil {
		return "", fmt.Errorf("getting key size: %w", err)
	}

	buf := make([]byte, size)
	n, err := unix.KeyctlBuffer(unix.KEYCTL_READ, keyID, buf, 0)
	if err != nil {
		return "", fmt.Errorf("failed to read key from keyring: %w", err)
	}
	if n < len(buf) {
		buf = buf[:n]
	}

	return string(buf), nil
}

// SetText stores the text as a user key in the process keyring.
func (k *keyringClipboard) SetText(ctx context.Context, text string) error {
	if err := checkSize(text, k.maxSize); err != nil {
		return err
	}

	// The kernel rejects empty payloads
	if text == "" {
		return k.Clear(ctx)
	}

	// add_key updates the payload in place if the key already exists
	keyID, err := unix.AddKey("user", k.description, []byte(text), unix.KEY_SPEC_PROCESS_KEYRING)
	if err != nil {
		return fmt.Errorf("adding key to keyring: %w", err)
	}

	// Set a permission that only allows the owner to access
	if err := unix.KeyctlSetperm(keyID, 0x3f000000); err != nil {
		return fmt.Errorf("setting key permissions: %w", err)
	}

	return nil
}

// Clear unlinks the clipboard key.
func (k *keyringClipboard) Clear(context.Context) error {
	keyID, err := unix.KeyctlSearch(unix.KEY_SPEC_PROCESS_KEYRING, "user", k.description, 0)
	if errors.Is(err, unix.ENOKEY) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: searching keyring: %w", ErrUnavailable, err)
	}

	if _, err := unix.KeyctlInt(unix.KEYCTL_UNLINK, keyID, unix.KEY_SPEC_PROCESS_KEYRING, 0, 0); err != nil {
		return fmt.Errorf("unlinking key from keyring: %w", err)
	}

	return nil
}
