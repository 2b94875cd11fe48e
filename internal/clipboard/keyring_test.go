// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package clipboard

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/carabiner-dev/hostshim/toolkit"
)

func TestKeyringClipboardSetAndGet(t *testing.T) {
	d, err := NewKeyringDisplay(0)
	if err != nil {
		t.Skipf("Skipping keyring test: %v", err)
	}

	ctx := context.Background()
	cb := toolkit.GetDefaultClipboard(d)
	defer cb.Clear(ctx) //nolint:errcheck

	if err := cb.SetText(ctx, "version-1"); err != nil {
		t.Fatalf("Failed to set clipboard: %v", err)
	}

	// Overwrite with second version
	if err := cb.SetText(ctx, "version-2"); err != nil {
		t.Fatalf("Failed to overwrite clipboard: %v", err)
	}

	text, err := cb.Text(ctx)
	if err != nil {
		t.Fatalf("Failed to read clipboard: %v", err)
	}
	if text != "version-2" {
		t.Errorf("Expected version-2, got %q", text)
	}
}

func TestKeyringClipboardSelectionsAreSeparate(t *testing.T) {
	d, err := NewKeyringDisplay(0)
	if err != nil {
		t.Skipf("Skipping keyring test: %v", err)
	}

	ctx := context.Background()
	clip := d.Clipboard(toolkit.SelectionClipboard)
	primary := d.Clipboard(toolkit.SelectionPrimary)
	defer clip.Clear(ctx)    //nolint:errcheck
	defer primary.Clear(ctx) //nolint:errcheck

	if err := clip.SetText(ctx, "clip"); err != nil {
		t.Fatal(err)
	}
	if err := primary.SetText(ctx, "primary"); err != nil {
		t.Fatal(err)
	}

	if text, _ := clip.Text(ctx); text != "clip" { //nolint:errcheck
		t.Errorf("Expected clip, got %q", text)
	}
	if text, _ := primary.Text(ctx); text != "primary" { //nolint:errcheck
		t.Errorf("Expected primary, got %q", text)
	}
}

func TestKeyringClipboardClear(t *testing.T) {
	d, err := NewKeyringDisplay(0)
	if err != nil {
		t.Skipf("Skipping keyring test: %v", err)
	}

	ctx := context.Background()
	cb := toolkit.GetDefaultClipboard(d)

	if err := cb.SetText(ctx, "to-be-cleared"); err != nil {
		t.Fatal(err)
	}
	if err := cb.Clear(ctx); err != nil {
		t.Fatalf("Failed to clear: %v", err)
	}

	text, err := cb.Text(ctx)
	if err != nil {
		t.Fatalf("Reading a cleared clipboard should not fail: %v", err)
	}
	if text != "" {
		t.Errorf("Expected empty clipboard, got %q", text)
	}

	// Clearing twice is fine
	if err := cb.Clear(ctx); err != nil {
		t.Errorf("Second clear failed: %v", err)
	}
}

func TestKeyringClipboardTooLarge(t *testing.T) {
	d, err := NewKeyringDisplay(0)
	if err != nil {
		t.Skipf("Skipping keyring test: %v", err)
	}

	err = toolkit.GetDefaultClipboard(d).SetText(context.Background(), strings.Repeat("a", keyringMaxPayload+1))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge, got %v", err)
	}
}

func TestKeyringUnknownSelection(t *testing.T) {
	d, err := NewKeyringDisplay(0)
	if err != nil {
		t.Skipf("Skipping keyring test: %v", err)
	}

	cb := d.Clipboard(toolkit.Selection(7))
	if _, err := cb.Text(context.Background()); !errors.Is(err, toolkit.ErrUnknownSelection) {
		t.Errorf("Expected ErrUnknownSelection, got %v", err)
	}
	if err := cb.SetText(context.Background(), "x"); !errors.Is(err, toolkit.ErrUnknownSelection) {
		t.Errorf("Expected ErrUnknownSelection, got %v", err)
	}
}
