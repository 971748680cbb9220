package server

import "fmt"

// Zone is a named axis-aligned region used for bomb sites and spawns.
type Zone struct {
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (z Zone) contains(p vec2) bool {
	return p.X >= z.X && p.X <= z.X+z.Width && p.Y >= z.Y && p.Y <= z.Y+z.Height
}

func (z Zone) center() vec2 {
	return vec2{X: z.X + z.Width/2, Y: z.Y + z.Height/2}
}

// BombSite is a site region with its nested plant sub-zones.
type BombSite struct {
	Zone       Zone   `json:"zone"`
	PlantZones []Zone `json:"plantZones"`
}

// MapDef describes everything immutable about a map.
type MapDef struct {
	Name          string     `json:"name"`
	Width         float64    `json:"width"`
	Height        float64    `json:"height"`
	Walls         []Wall     `json:"walls"`
	BombSites     []BombSite `json:"bombSites"`
	AttackerSpawn Zone       `json:"attackerSpawn"`
	DefenderSpawn Zone       `json:"defenderSpawn"`
}

// Validate rejects maps the simulation cannot run on.
func (m *MapDef) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("map %q: non-positive dimensions %gx%g", m.Name, m.Width, m.Height)
	}
	if len(m.BombSites) == 0 {
		return fmt.Errorf("map %q: no bomb sites", m.Name)
	}
	for _, site := range m.BombSites {
		if len(site.PlantZones) == 0 {
			return fmt.Errorf("map %q: site %q has no plant zones", m.Name, site.Zone.Name)
		}
	}
	if m.AttackerSpawn.Width <= 0 || m.DefenderSpawn.Width <= 0 {
		return fmt.Errorf("map %q: missing spawn zones", m.Name)
	}
	return nil
}

// spawnPositions lays the five slots out in a line inside a spawn zone.
func (z Zone) spawnPositions() [teamSize]vec2 {
	var out [teamSize]vec2
	stepX := z.Width / (teamSize + 1)
	for i := 0; i < teamSize; i++ {
		out[i] = vec2{X: z.X + stepX*float64(i+1), Y: z.Y + z.Height/2}
	}
	return out
}

// DefaultMap is a two-site layout with a center corridor and flanking halls.
func DefaultMap() *MapDef {
	return &MapDef{
		Name:   "crossfire",
		Width:  worldWidth,
		Height: worldHeight,
		Walls: []Wall{
			// Outer shell.
			{X: 0, Y: 0, Width: worldWidth, Height: 40},
			{X: 0, Y: worldHeight - 40, Width: worldWidth, Height: 40},
			{X: 0, Y: 0, Width: 40, Height: worldHeight},
			{X: worldWidth - 40, Y: 0, Width: 40, Height: worldHeight},
			// Mid structure splitting the lanes.
			{X: 850, Y: 500, Width: 300, Height: 160},
			{X: 850, Y: 1340, Width: 300, Height: 160},
			{X: 950, Y: 860, Width: 100, Height: 280},
			// Site A cover, below the site box so the plant zones stay open.
			{X: 300, Y: 620, Width: 220, Height: 60},
			{X: 540, Y: 620, Width: 60, Height: 200},
			// Site B cover.
			{X: 1480, Y: 620, Width: 220, Height: 60},
			{X: 1400, Y: 620, Width: 60, Height: 200},
			// Lower halls.
			{X: 400, Y: 1500, Width: 60, Height: 260},
			{X: 1540, Y: 1500, Width: 60, Height: 260},
		},
		BombSites: []BombSite{
			{
				Zone: Zone{Name: "A", X: 220, Y: 180, Width: 420, Height: 420},
				PlantZones: []Zone{
					{Name: "A-open", X: 260, Y: 220, Width: 200, Height: 200},
					{Name: "A-back", X: 480, Y: 400, Width: 140, Height: 160},
				},
			},
			{
				Zone: Zone{Name: "B", X: 1360, Y: 180, Width: 420, Height: 420},
				PlantZones: []Zone{
					{Name: "B-open", X: 1540, Y: 220, Width: 200, Height: 200},
					{Name: "B-back", X: 1380, Y: 400, Width: 140, Height: 160},
				},
			},
		},
		AttackerSpawn: Zone{Name: "attacker-spawn", X: 600, Y: 1760, Width: 800, Height: 160},
		DefenderSpawn: Zone{Name: "defender-spawn", X: 600, Y: 100, Width: 800, Height: 60},
	}
}

// plantZoneAt returns the enclosing plant zone name, or false when the point
// is outside every plant zone.
func (m *MapDef) plantZoneAt(p vec2) (string, bool) {
	for _, site := range m.BombSites {
		for _, zone := range site.PlantZones {
			if zone.contains(p) {
				return zone.Name, true
			}
		}
	}
	return "", false
}

// siteAt returns the bomb site containing the point, if any.
func (m *MapDef) siteAt(p vec2) (string, bool) {
	for _, site := range m.BombSites {
		if site.Zone.contains(p) {
			return site.Zone.Name, true
		}
	}
	return "", false
}
