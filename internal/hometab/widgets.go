package hometab

import (
	"fmt"
	"strings"

	"jupiter-cli/internal/model"
)

type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case DirectionUp, DirectionDown, DirectionLeft, DirectionRight:
		return d, nil
	}
	return "", fmt.Errorf("invalid direction: %q (want up|down|left|right)", s)
}

// LocateWidget finds widgetID in placement.
func LocateWidget(p model.WidgetPlacement, widgetID model.EntityID) (col, row int, ok bool) {
	for c, column := range p.Columns {
		if r := indexOf(column, widgetID); r >= 0 {
			return c, r, true
		}
	}
	return -1, -1, false
}

func missingWidget(id model.EntityID) error {
	return &InvariantViolationError{Kind: "home widget", ID: id, What: "is missing from the widget placement"}
}

// ShiftWidgetUp moves the widget one row up within its column.
func ShiftWidgetUp(p model.WidgetPlacement, widgetID model.EntityID) (model.WidgetPlacement, error) {
	c, r, ok := LocateWidget(p, widgetID)
	if !ok {
		return model.WidgetPlacement{}, missingWidget(widgetID)
	}
	out := p.Clone()
	if r == 0 {
		return out, nil
	}
	col := out.Columns[c]
	col[r-1], col[r] = col[r], col[r-1]
	return out, nil
}

// ShiftWidgetDown moves the widget one row down within its column.
func ShiftWidgetDown(p model.WidgetPlacement, widgetID model.EntityID) (model.WidgetPlacement, error) {
	c, r, ok := LocateWidget(p, widgetID)
	if !ok {
		return model.WidgetPlacement{}, missingWidget(widgetID)
	}
	out := p.Clone()
	col := out.Columns[c]
	if r == len(col)-1 {
		return out, nil
	}
	col[r+1], col[r] = col[r], col[r+1]
	return out, nil
}

// ShiftWidgetLeft moves the widget into the previous column at the same row,
// clamped to that column's length.
func ShiftWidgetLeft(p model.WidgetPlacement, widgetID model.EntityID) (model.WidgetPlacement, error) {
	return shiftWidgetColumn(p, widgetID, -1)
}

// ShiftWidgetRight moves the widget into the next column at the same row,
// clamped to that column's length.
func ShiftWidgetRight(p model.WidgetPlacement, widgetID model.EntityID) (model.WidgetPlacement, error) {
	return shiftWidgetColumn(p, widgetID, 1)
}

func shiftWidgetColumn(p model.WidgetPlacement, widgetID model.EntityID, delta int) (model.WidgetPlacement, error) {
	c, r, ok := LocateWidget(p, widgetID)
	if !ok {
		return model.WidgetPlacement{}, missingWidget(widgetID)
	}
	out := p.Clone()
	dst := c + delta
	if dst < 0 || dst >= len(out.Columns) {
		return out, nil
	}

	src := out.Columns[c]
	out.Columns[c] = append(src[:r:r], src[r+1:]...)

	target := out.Columns[dst]
	at := r
	if at > len(target) {
		at = len(target)
	}
	next := make([]model.EntityID, 0, len(target)+1)
	next = append(next, target[:at]...)
	next = append(next, widgetID)
	next = append(next, target[at:]...)
	out.Columns[dst] = next
	return out, nil
}

// ShiftWidget dispatches on d.
func ShiftWidget(p model.WidgetPlacement, widgetID model.EntityID, d Direction) (model.WidgetPlacement, error) {
	switch d {
	case DirectionUp:
		return ShiftWidgetUp(p, widgetID)
	case DirectionDown:
		return ShiftWidgetDown(p, widgetID)
	case DirectionLeft:
		return ShiftWidgetLeft(p, widgetID)
	case DirectionRight:
		return ShiftWidgetRight(p, widgetID)
	}
	return model.WidgetPlacement{}, fmt.Errorf("invalid direction: %q", d)
}

// ShiftTab dispatches on d; only up and down apply to tabs.
func ShiftTab(tab model.HomeTab, order []model.EntityID, d Direction) ([]model.EntityID, error) {
	switch d {
	case DirectionUp:
		return ShiftTabUp(tab, order)
	case DirectionDown:
		return ShiftTabDown(tab, order)
	case DirectionLeft, DirectionRight:
	}
	return nil, fmt.Errorf("tabs can only move up or down, not %q", d)
}

// SamePlacement reports whether a and b list the same widgets in the same places.
func SamePlacement(a, b model.WidgetPlacement) bool {
	if len(a.Columns) != len(b.Columns) {
		return false
	}
	for i := range a.Columns {
		if !SameOrder(a.Columns[i], b.Columns[i]) {
			return false
		}
	}
	return true
}

func SameOrder(a, b []model.EntityID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
