package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

/**
 * @brief An axis-aligned rectangle described by its top-left and
 * bottom-right corners. Screen space grows right and down.
 */
type Rect struct {
	/** @brief The top-left corner. */
	Min Vec2
	/** @brief The bottom-right corner. */
	Max Vec2
}
