package server

import "testing"

func testNavMap(walls []Wall) *MapDef {
	return &MapDef{
		Name:   "nav-test",
		Width:  500,
		Height: 500,
		Walls:  walls,
		BombSites: []BombSite{{
			Zone:       Zone{Name: "A", X: 0, Y: 0, Width: 100, Height: 100},
			PlantZones: []Zone{{Name: "A-open", X: 0, Y: 0, Width: 100, Height: 100}},
		}},
		AttackerSpawn: Zone{Name: "a", X: 0, Y: 400, Width: 100, Height: 100},
		DefenderSpawn: Zone{Name: "d", X: 400, Y: 0, Width: 100, Height: 100},
	}
}

func TestFindPathAvoidsWalls(t *testing.T) {
	// A vertical wall splits the map except for a gap at the bottom.
	wall := Wall{X: 240, Y: 0, Width: 20, Height: 400}
	grid := newNavGrid(testNavMap([]Wall{wall}))

	start := vec2{X: 60, Y: 60}
	target := vec2{X: 440, Y: 60}
	path := grid.findPath(start, target)
	if len(path) == 0 {
		t.Fatal("expected a path around the wall, got none")
	}
	if path[0] != start {
		t.Fatalf("path starts at %+v, want %+v", path[0], start)
	}
	if path[len(path)-1] != target {
		t.Fatalf("path ends at %+v, want %+v", path[len(path)-1], target)
	}
	for i := 0; i+1 < len(path); i++ {
		if segmentIntersectsRect(path[i], path[i+1], wall) {
			t.Fatalf("path segment %d crosses the wall: %+v -> %+v", i, path[i], path[i+1])
		}
	}
}

func TestFindPathBlockedEndpoints(t *testing.T) {
	wall := Wall{X: 200, Y: 200, Width: 100, Height: 100}
	grid := newNavGrid(testNavMap([]Wall{wall}))

	if path := grid.findPath(vec2{X: 250, Y: 250}, vec2{X: 60, Y: 60}); path != nil {
		t.Fatalf("start inside a wall should yield no path, got %d waypoints", len(path))
	}
	if path := grid.findPath(vec2{X: 60, Y: 60}, vec2{X: 250, Y: 250}); path != nil {
		t.Fatalf("target inside a wall should yield no path, got %d waypoints", len(path))
	}
	if path := grid.findPath(vec2{X: -10, Y: 60}, vec2{X: 60, Y: 60}); path != nil {
		t.Fatalf("off-grid start should yield no path, got %d waypoints", len(path))
	}
}

func TestFindPathNoRouteExists(t *testing.T) {
	// A wall spanning the full height seals the map in two halves.
	wall := Wall{X: 240, Y: 0, Width: 20, Height: 500}
	grid := newNavGrid(testNavMap([]Wall{wall}))

	if path := grid.findPath(vec2{X: 60, Y: 60}, vec2{X: 440, Y: 60}); path != nil {
		t.Fatalf("sealed map should yield no path, got %d waypoints", len(path))
	}
}

func TestSmoothPathKeepsEndpointsAndClearance(t *testing.T) {
	wall := Wall{X: 240, Y: 0, Width: 20, Height: 400}
	grid := newNavGrid(testNavMap([]Wall{wall}))

	start := vec2{X: 60, Y: 60}
	target := vec2{X: 440, Y: 60}
	raw := grid.findPath(start, target)
	if len(raw) == 0 {
		t.Fatal("expected a raw path")
	}

	smoothed := grid.smoothPath(raw)
	if len(smoothed) > len(raw) {
		t.Fatalf("smoothing grew the path from %d to %d waypoints", len(raw), len(smoothed))
	}
	if smoothed[0] != start || smoothed[len(smoothed)-1] != target {
		t.Fatalf("smoothing moved the endpoints: %+v .. %+v", smoothed[0], smoothed[len(smoothed)-1])
	}
	for i := 0; i+1 < len(smoothed); i++ {
		if segmentIntersectsRect(smoothed[i], smoothed[i+1], wall) {
			t.Fatalf("smoothed segment %d crosses the wall", i)
		}
	}
}

func TestSmoothPathShortInputUntouched(t *testing.T) {
	grid := newNavGrid(testNavMap(nil))
	short := []vec2{{X: 10, Y: 10}, {X: 20, Y: 20}}
	smoothed := grid.smoothPath(short)
	if len(smoothed) != 2 || smoothed[0] != short[0] || smoothed[1] != short[1] {
		t.Fatalf("two-point path should be returned untouched, got %+v", smoothed)
	}
}

func TestAstarDeterministicExpansion(t *testing.T) {
	wall := Wall{X: 240, Y: 100, Width: 20, Height: 300}
	grid := newNavGrid(testNavMap([]Wall{wall}))

	start := vec2{X: 60, Y: 250}
	target := vec2{X: 440, Y: 250}
	first := grid.findPath(start, target)
	second := grid.findPath(start, target)
	if len(first) != len(second) {
		t.Fatalf("repeat query changed path length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("repeat query diverged at waypoint %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}
