// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package clipboard

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/carabiner-dev/hostshim/toolkit"
)

// recordingUtility stands in for the host clipboard utilities
type recordingUtility struct {
	text  string
	calls []string
}

func (r *recordingUtility) read() (string, error) {
	r.calls = append(r.calls, "read")
	return r.text, nil
}

func (r *recordingUtility) write(text string) error {
	r.calls = append(r.calls, "write")
	r.text = text
	return nil
}

func TestSystemDisplayPrimaryUnavailable(t *testing.T) {
	ctx := context.Background()
	util := &recordingUtility{text: "copied"}
	d := newSystemDisplay(0, util.read, util.write)

	primary := d.Clipboard(toolkit.SelectionPrimary)
	if primary.Selection() != toolkit.SelectionPrimary {
		t.Errorf("Expected PRIMARY handle, got %s", primary.Selection())
	}
	if _, err := primary.Text(ctx); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable reading PRIMARY, got %v", err)
	}
	if err := primary.SetText(ctx, "x"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable writing PRIMARY, got %v", err)
	}
	if len(util.calls) != 0 {
		t.Fatalf("PRIMARY must not reach the utilities, got calls %v", util.calls)
	}

	// The default clipboard is unaffected by the PRIMARY attempts
	cb := toolkit.GetDefaultClipboard(d)
	if cb.Selection() != toolkit.SelectionClipboard {
		t.Errorf("Expected CLIPBOARD handle, got %s", cb.Selection())
	}
	text, err := cb.Text(ctx)
	if err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	if text != "copied" {
		t.Errorf("Expected 'copied', got %q", text)
	}
	if err := cb.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if util.text != "" {
		t.Errorf("Expected clear to write empty text, got %q", util.text)
	}
	if got := strings.Join(util.calls, ","); got != "read,write" {
		t.Errorf("Unexpected utility calls %q", got)
	}
}

func TestSystemDisplayErrors(t *testing.T) {
	ctx := context.Background()
	failing := func() (string, error) { return "", errors.New("exit status 1") }
	d := newSystemDisplay(4, failing, func(string) error { return nil })

	if _, err := toolkit.GetDefaultClipboard(d).Text(ctx); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected utility failures to wrap ErrUnavailable, got %v", err)
	}
	if err := toolkit.GetDefaultClipboard(d).SetText(ctx, "too long"); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge, got %v", err)
	}
}

func TestUnknownSelection(t *testing.T) {
	ctx := context.Background()
	util := &recordingUtility{}

	for name, d := range map[string]toolkit.Display{
		"memory": NewMemoryDisplay(0),
		"system": newSystemDisplay(0, util.read, util.write),
	} {
		t.Run(name, func(t *testing.T) {
			cb := d.Clipboard(toolkit.Selection(7))
			if cb == toolkit.GetDefaultClipboard(d) {
				t.Fatal("Unknown selection must not alias the default clipboard")
			}
			if _, err := cb.Text(ctx); !errors.Is(err, toolkit.ErrUnknownSelection) {
				t.Errorf("Expected ErrUnknownSelection, got %v", err)
			}
			if err := cb.SetText(ctx, "x"); !errors.Is(err, toolkit.ErrUnknownSelection) {
				t.Errorf("Expected ErrUnknownSelection, got %v", err)
			}
			if err := cb.Clear(ctx); !errors.Is(err, toolkit.ErrUnknownSelection) {
				t.Errorf("Expected ErrUnknownSelection, got %v", err)
			}
		})
	}

	if len(util.calls) != 0 {
		t.Errorf("Unknown selections must not reach the utilities, got calls %v", util.calls)
	}
}
