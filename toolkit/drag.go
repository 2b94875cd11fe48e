// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package toolkit

import (
	"fmt"
	"strings"
)

// DragAction is the set of actions a drag and drop operation can perform.
// The values match the toolkit's drag action flags so they can be passed
// through to it unchanged.
type DragAction uint32

const (
	DragActionDefault DragAction = 1 << iota
	DragActionCopy
	DragActionMove
	DragActionLink
	DragActionPrivate
	DragActionAsk
)

var dragActionNames = []struct {
	action DragAction
	name   string
}{
	{DragActionDefault, "default"},
	{DragActionCopy, "copy"},
	{DragActionMove, "move"},
	{DragActionLink, "link"},
	{DragActionPrivate, "private"},
	{DragActionAsk, "ask"},
}

// AllDragActions lists every single action flag.
func AllDragActions() []DragAction {
	ret := make([]DragAction, 0, len(dragActionNames))
	for _, n := range dragActionNames {
		ret = append(ret, n.action)
	}
	return ret
}

// String renders the action flags joined by "|", or "none".
func (a DragAction) String() string {
	if a == 0 {
		return "none"
	}

	parts := []string{}
	rest := a
	for _, n := range dragActionNames {
		if a&n.action != 0 {
			parts = append(parts, n.name)
			rest &^= n.action
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseDragAction parses action names joined by "|" as printed by
// DragAction.String. Unnamed bits are not accepted.
func ParseDragAction(s string) (DragAction, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "none" {
		return 0, nil
	}

	var ret DragAction
	for _, part := range strings.Split(s, "|") {
		found := false
		for _, n := range dragActionNames {
			if n.name == strings.TrimSpace(part) {
				ret |= n.action
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown drag action %q", part)
		}
	}
	return ret, nil
}

// DragContext describes a drag and drop operation in progress.
type DragContext interface {
	// SuggestedAction is the action the drag source proposes.
	SuggestedAction() DragAction

	// Actions is the set of actions the source supports.
	Actions() DragAction
}

// ExtractSuggestedAction reads the action suggested by the drag source.
// A nil context has no suggestion.
func ExtractSuggestedAction(ctx DragContext) DragAction {
	if ctx == nil {
		return 0
	}
	return ctx.SuggestedAction()
}

// Drag is a plain DragContext value.
type Drag struct {
	suggested DragAction
	actions   DragAction
}

var _ DragContext = (*Drag)(nil)

// NewDrag returns a drag context suggesting the given action. The
// suggested action is always part of the supported set.
func NewDrag(suggested, actions DragAction) *Drag {
	return &Drag{
		suggested: suggested,
		actions:   actions | suggested,
	}
}

func (d *Drag) SuggestedAction() DragAction { return d.suggested }

func (d *Drag) Actions() DragAction { return d.actions }
