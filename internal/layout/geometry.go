package layout

const (
	// DefaultMinimumWidth is the smallest width a widget may occupy in grid cells.
	DefaultMinimumWidth = 1
	// DefaultMinimumHeight is the smallest height a widget may occupy in grid cells.
	DefaultMinimumHeight = 1

	unboundedDimension = 0
)

// Footprint describes the size and size constraints of a widget in grid-cell
// units. A zero MaxWidth or MaxHeight means the dimension is unbounded.
type Footprint struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	MinWidth  int `json:"min_width"`
	MinHeight int `json:"min_height"`
	MaxWidth  int `json:"max_width"`
	MaxHeight int `json:"max_height"`
}

// Rect is an axis-aligned rectangle on the dashboard grid.
type Rect struct {
	X         int `json:"x"`
	Y         int `json:"y"`
	Width     int `json:"width"`
	Height    int `json:"height"`
	MinWidth  int `json:"min_width"`
	MinHeight int `json:"min_height"`
	MaxWidth  int `json:"max_width"`
	MaxHeight int `json:"max_height"`
}

// RectForFootprint places a footprint at the given grid position.
func RectForFootprint(footprint Footprint, gridX int, gridY int) Rect {
	return Rect{
		X:         gridX,
		Y:         gridY,
		Width:     footprint.Width,
		Height:    footprint.Height,
		MinWidth:  footprint.MinWidth,
		MinHeight: footprint.MinHeight,
		MaxWidth:  footprint.MaxWidth,
		MaxHeight: footprint.MaxHeight,
	}
}

// Overlaps reports whether two rectangles intersect. Two rectangles overlap
// iff both their x-intervals and their y-intervals overlap.
func (rectangle Rect) Overlaps(other Rect) bool {
	horizontalOverlap := rectangle.X < other.X+other.Width && other.X < rectangle.X+rectangle.Width
	verticalOverlap := rectangle.Y < other.Y+other.Height && other.Y < rectangle.Y+rectangle.Height
	return horizontalOverlap && verticalOverlap
}

// Bottom returns the first grid row below the rectangle.
func (rectangle Rect) Bottom() int {
	return rectangle.Y + rectangle.Height
}

// Unset reports whether the rectangle has no recorded dimensions yet; such a
// placement is replaced with the widget type's default footprint at the next
// projection.
func (rectangle Rect) Unset() bool {
	return rectangle.Width == 0 || rectangle.Height == 0
}

// Clamped returns a copy of the rectangle with its dimensions forced into the
// [minimum, maximum] bounds and its position forced non-negative. A violated
// constraint is always resolved by clamping, never reported as an error.
func (rectangle Rect) Clamped() Rect {
	clamped := rectangle

	minimumWidth := clamped.MinWidth
	if minimumWidth < DefaultMinimumWidth {
		minimumWidth = DefaultMinimumWidth
	}
	minimumHeight := clamped.MinHeight
	if minimumHeight < DefaultMinimumHeight {
		minimumHeight = DefaultMinimumHeight
	}

	if clamped.Width < minimumWidth {
		clamped.Width = minimumWidth
	}
	if clamped.Height < minimumHeight {
		clamped.Height = minimumHeight
	}
	if clamped.MaxWidth != unboundedDimension && clamped.Width > clamped.MaxWidth {
		clamped.Width = clamped.MaxWidth
	}
	if clamped.MaxHeight != unboundedDimension && clamped.Height > clamped.MaxHeight {
		clamped.Height = clamped.MaxHeight
	}
	if clamped.X < 0 {
		clamped.X = 0
	}
	if clamped.Y < 0 {
		clamped.Y = 0
	}

	return clamped
}

// ClampedToColumns additionally forces the rectangle to fit within a grid of
// the given column count, shrinking the width before shifting the position.
func (rectangle Rect) ClampedToColumns(columnCount int) Rect {
	clamped := rectangle.Clamped()
	if columnCount <= 0 {
		return clamped
	}

	if clamped.Width > columnCount {
		clamped.Width = columnCount
	}
	if clamped.X+clamped.Width > columnCount {
		clamped.X = columnCount - clamped.Width
	}
	if clamped.X < 0 {
		clamped.X = 0
	}

	return clamped
}
