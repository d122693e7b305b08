package coords

import "github.com/raykavin/chartoverlay/pkg/overlay"

// ElementPosition maps a widget size, corner and offset to a pixel position
// inside the pane's content area. It is a pure function of its inputs.
func ElementPosition(pane *PaneCoordinates, size overlay.Dimensions, corner overlay.Corner, offset overlay.Offset) overlay.Position {
	if pane == nil {
		return overlay.Position{Top: offset.Y, Left: offset.X}
	}
	return PositionInRect(pane.ContentArea, size, corner, offset)
}

// PositionInRect anchors a box of the given size to one corner of rect,
// shifted inward by offset.
func PositionInRect(rect overlay.Rect, size overlay.Dimensions, corner overlay.Corner, offset overlay.Offset) overlay.Position {
	var position overlay.Position

	if corner.IsLeft() {
		position.Left = rect.X + offset.X
	} else {
		position.Left = rect.Right() - size.Width - offset.X
	}

	if corner.IsTop() {
		position.Top = rect.Y + offset.Y
	} else {
		position.Top = rect.Bottom() - size.Height - offset.Y
	}

	return position
}
