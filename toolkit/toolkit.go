// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

// Package toolkit exposes the GUI toolkit values that host runtimes cannot
// reach on their own: the default clipboard and the action suggested by a
// drag and drop source.
//
// The toolkit session is never global. It is handed in as a Display so
// that code depending on the clipboard can run without a live GUI session.
package toolkit

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSelection is returned for selections a display does not manage.
var ErrUnknownSelection = errors.New("unknown selection")

// Selection names one of the clipboards a display manages.
type Selection int

const (
	// SelectionClipboard is the clipboard used by explicit cut/copy/paste.
	SelectionClipboard Selection = iota
	// SelectionPrimary is the X11 style primary selection.
	SelectionPrimary
)

func (s Selection) String() string {
	switch s {
	case SelectionClipboard:
		return "CLIPBOARD"
	case SelectionPrimary:
		return "PRIMARY"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether s is one of the known selections.
func (s Selection) Valid() bool {
	return s == SelectionClipboard || s == SelectionPrimary
}

// ParseSelection parses a selection name. The empty string is the
// default clipboard.
func ParseSelection(s string) (Selection, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "CLIPBOARD":
		return SelectionClipboard, nil
	case "PRIMARY":
		return SelectionPrimary, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownSelection, s)
	}
}

// Clipboard is a handle to a clipboard owned by the toolkit. Callers never
// create or destroy it, they only obtain it from a Display.
type Clipboard interface {
	// Selection returns the selection this handle refers to.
	Selection() Selection

	// Text returns the current text contents. An empty clipboard
	// returns an empty string.
	Text(context.Context) (string, error)

	// SetText replaces the clipboard contents.
	SetText(context.Context, string) error

	// Clear empties the clipboard.
	Clear(context.Context) error
}

// Display is the toolkit session. Each selection maps to a single
// Clipboard handle for the lifetime of the display. Handles for invalid
// selections fail every call with ErrUnknownSelection.
type Display interface {
	Clipboard(Selection) Clipboard
}

// GetDefaultClipboard returns the default clipboard of the display, the
// one bound to SelectionClipboard.
func GetDefaultClipboard(d Display) Clipboard {
	return d.Clipboard(SelectionClipboard)
}
