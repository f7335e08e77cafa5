package rbtree

// Color is the color of a tree node. Empty child slots count as Black.
type Color bool

// Node colors.
const (
	Red   Color = false
	Black Color = true
)

// String returns "R" for red and "B" for black.
func (color Color) String() string {
	if color == Red {
		return "R"
	}

	return "B"
}

// Direction selects a child slot.
type Direction uint8

// Child directions.
const (
	Left Direction = iota
	Right
)

// Opposite returns the other direction.
func (dir Direction) Opposite() Direction {
	if dir == Left {
		return Right
	}

	return Left
}

func (dir Direction) String() string {
	if dir == Left {
		return "left"
	}

	return "right"
}
