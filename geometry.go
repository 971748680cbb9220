package server

import "math"

const degToRad = math.Pi / 180.0

// vec2 is a plain 2D point used throughout the simulation.
type vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func distance(a, b vec2) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// bearing returns the angle in radians from a toward b.
func bearing(a, b vec2) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// wrapAngle normalizes an angle to [-pi, pi].
func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Wall is an axis-aligned rectangle blocking movement and line of sight.
type Wall struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (w Wall) contains(p vec2) bool {
	return p.X >= w.X && p.X <= w.X+w.Width && p.Y >= w.Y && p.Y <= w.Y+w.Height
}

// rectsOverlap reports whether two axis-aligned rectangles intersect.
func rectsOverlap(ax, ay, aw, ah float64, b Wall) bool {
	return ax < b.X+b.Width && ax+aw > b.X && ay < b.Y+b.Height && ay+ah > b.Y
}

func circleRectOverlap(cx, cy, radius float64, w Wall) bool {
	closestX := clamp(cx, w.X, w.X+w.Width)
	closestY := clamp(cy, w.Y, w.Y+w.Height)
	dx := cx - closestX
	dy := cy - closestY
	return dx*dx+dy*dy <= radius*radius
}

// segmentIntersectsRect clips the segment a->b against the wall's slabs
// (Liang-Barsky) and reports whether any portion lies inside.
func segmentIntersectsRect(a, b vec2, w Wall) bool {
	dx := b.X - a.X
	dy := b.Y - a.Y

	tMin := 0.0
	tMax := 1.0

	if math.Abs(dx) < 1e-12 {
		if a.X < w.X || a.X > w.X+w.Width {
			return false
		}
	} else {
		inv := 1.0 / dx
		t1 := (w.X - a.X) * inv
		t2 := (w.X + w.Width - a.X) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}

	if math.Abs(dy) < 1e-12 {
		if a.Y < w.Y || a.Y > w.Y+w.Height {
			return false
		}
	} else {
		inv := 1.0 / dy
		t1 := (w.Y - a.Y) * inv
		t2 := (w.Y + w.Height - a.Y) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}

	return true
}

// segmentClearOfWalls reports whether the segment a->b crosses no wall.
func segmentClearOfWalls(a, b vec2, walls []Wall) bool {
	for _, wall := range walls {
		if segmentIntersectsRect(a, b, wall) {
			return false
		}
	}
	return true
}

// pointSegmentDistance returns the shortest distance from p to the segment a->b.
func pointSegmentDistance(p, a, b vec2) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lengthSq := dx*dx + dy*dy
	if lengthSq < 1e-12 {
		return distance(p, a)
	}
	t := clamp(((p.X-a.X)*dx+(p.Y-a.Y)*dy)/lengthSq, 0, 1)
	closest := vec2{X: a.X + t*dx, Y: a.Y + t*dy}
	return distance(p, closest)
}
