// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package clipboard

import (
	"context"
	"sync"

	"github.com/carabiner-dev/hostshim/toolkit"
)

var _ toolkit.Display = &MemoryDisplay{}

// MemoryDisplay is an in-memory toolkit session. Its clipboards live as
// long as the display and are safe for concurrent use.
type MemoryDisplay struct {
	maxSize int64
	boards  map[toolkit.Selection]*MemoryClipboard
	mu      sync.Mutex
}

// NewMemoryDisplay creates a new display holding clipboards in memory.
func NewMemoryDisplay(maxSize int64) *MemoryDisplay {
	return &MemoryDisplay{
		maxSize: maxSize,
		boards:  map[toolkit.Selection]*MemoryClipboard{},
	}
}

// Clipboard returns the handle for the selection, creating it on first use.
func (d *MemoryDisplay) Clipboard(sel toolkit.Selection) toolkit.Clipboard {
	if !sel.Valid() {
		return unknownSelection(sel)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if b, ok := d.boards[sel]; ok {
		return b
	}
	b := &MemoryClipboard{sel: sel, maxSize: d.maxSize}
	d.boards[sel] = b
	return b
}

// MemoryClipboard is a clipboard stored in a string protected by a mutex.
type MemoryClipboard struct {
	sel     toolkit.Selection
	maxSize int64
	text    string
	mu      sync.RWMutex
}

func (m *MemoryClipboard) Selection() toolkit.Selection { return m.sel }

// Text returns the stored text.
func (m *MemoryClipboard) Text(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.text, nil
}

// SetText replaces the stored text.
func (m *MemoryClipboard) SetText(_ context.Context, text string) error {
	if err := checkSize(text, m.maxSize); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

// Clear drops the stored text.
func (m *MemoryClipboard) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = ""
	return nil
}
