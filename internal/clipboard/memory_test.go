// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package clipboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/carabiner-dev/hostshim/toolkit"
)

func TestMemoryDisplayDefaultClipboard(t *testing.T) {
	d := NewMemoryDisplay(0)

	first := toolkit.GetDefaultClipboard(d)
	if first == nil {
		t.Fatal("Expected a clipboard handle, got nil")
	}
	if again := toolkit.GetDefaultClipboard(d); again != first {
		t.Error("Expected the same handle on repeated calls")
	}
	if d.Clipboard(toolkit.SelectionPrimary) == first {
		t.Error("Primary selection must have its own handle")
	}
}

func TestMemoryClipboardSetAndClear(t *testing.T) {
	ctx := context.Background()
	cb := toolkit.GetDefaultClipboard(NewMemoryDisplay(0))

	text, err := cb.Text(ctx)
	if err != nil {
		t.Fatalf("Failed to read clipboard: %v", err)
	}
	if text != "" {
		t.Errorf("Expected empty clipboard, got %q", text)
	}

	if err := cb.SetText(ctx, "hello"); err != nil {
		t.Fatalf("Failed to set clipboard: %v", err)
	}
	if text, _ := cb.Text(ctx); text != "hello" { //nolint:errcheck
		t.Errorf("Expected hello, got %q", text)
	}

	if err := cb.Clear(ctx); err != nil {
		t.Fatalf("Failed to clear clipboard: %v", err)
	}
	if text, _ := cb.Text(ctx); text != "" { //nolint:errcheck
		t.Errorf("Expected empty clipboard after clear, got %q", text)
	}
}

func TestMemoryClipboardTooLarge(t *testing.T) {
	ctx := context.Background()
	cb := toolkit.GetDefaultClipboard(NewMemoryDisplay(4))

	if err := cb.SetText(ctx, "abcd"); err != nil {
		t.Fatalf("Expected text at the limit to be accepted: %v", err)
	}

	err := cb.SetText(ctx, "abcde")
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Expected ErrTooLarge, got %v", err)
	}

	// The previous contents survive a rejected write
	if text, _ := cb.Text(ctx); text != "abcd" { //nolint:errcheck
		t.Errorf("Expected abcd, got %q", text)
	}
}

func TestMemoryClipboardConcurrent(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDisplay(0)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cb := toolkit.GetDefaultClipboard(d)
			_ = cb.SetText(ctx, strings.Repeat("x", i)) //nolint:errcheck
			_, _ = cb.Text(ctx)                         //nolint:errcheck
		}(i)
	}
	wg.Wait()

	text, err := toolkit.GetDefaultClipboard(d).Text(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Trim(text, "x") != "" {
		t.Errorf("Unexpected clipboard contents %q", text)
	}
}

func TestNewDisplay(t *testing.T) {
	d := NewDisplay(context.Background(), 1024)
	if d == nil {
		t.Fatal("Expected a display, got nil")
	}
	if toolkit.GetDefaultClipboard(d) == nil {
		t.Fatal("Expected a default clipboard, got nil")
	}
}

func TestNewBackend(t *testing.T) {
	ctx := context.Background()

	d, err := NewBackend(ctx, "memory", 10)
	if err != nil {
		t.Fatalf("NewBackend(memory) failed: %v", err)
	}
	if _, ok := d.(*MemoryDisplay); !ok {
		t.Errorf("Expected *MemoryDisplay, got %T", d)
	}

	if _, err := NewBackend(ctx, "auto", 10); err != nil {
		t.Errorf("NewBackend(auto) failed: %v", err)
	}

	if _, err := NewBackend(ctx, "floppy", 10); err == nil {
		t.Error("Expected error for unknown backend")
	}
}
