package stats

import (
	"math"
	"testing"
)

func flatBundle(value float64) Bundle {
	var b Bundle
	for i := range b {
		b[i] = value
	}
	return b
}

func TestBundleGetClamps(t *testing.T) {
	var b Bundle
	b[StatAccuracy] = -20
	b[StatSpeed] = 500

	if got := b.Get(StatAccuracy); got != 1 {
		t.Fatalf("below-range stat = %.1f, want clamp to 1", got)
	}
	if got := b.Get(StatSpeed); got != 100 {
		t.Fatalf("above-range stat = %.1f, want clamp to 100", got)
	}
	if got := b.Get(StatCount); got != 0 {
		t.Fatalf("out-of-range id = %.1f, want 0", got)
	}
}

func TestMoveSpeedGrowsWithSpeedAndConditioning(t *testing.T) {
	slow := flatBundle(20)
	fast := flatBundle(20)
	fast[StatSpeed] = 90
	conditioned := flatBundle(20)
	conditioned[StatConditioning] = 90

	if MoveSpeed(fast) <= MoveSpeed(slow) {
		t.Fatal("higher speed stat should raise move speed")
	}
	if MoveSpeed(conditioned) <= MoveSpeed(slow) {
		t.Fatal("higher conditioning should raise move speed")
	}
}

func TestStealthModifierBounds(t *testing.T) {
	if got := StealthModifier(flatBundle(1)); got >= 1.0001 || got < 0.99 {
		t.Fatalf("minimal stealth modifier = %.4f, want about 1", got)
	}
	ghost := flatBundle(100)
	if got := StealthModifier(ghost); got < 0.5 || got > 0.61 {
		t.Fatalf("maximal stealth modifier = %.4f, want within [0.5, 0.61]", got)
	}
	// The effective radius shrinks accordingly.
	observer := flatBundle(50)
	if EffectiveDetectionRadius(observer, ghost) >= DetectionRadius(observer) {
		t.Fatal("stealthy target should shrink the effective radius")
	}
}

func TestFinalHitChanceFalloffAndMovement(t *testing.T) {
	b := flatBundle(60)
	weaponRange := 800.0

	near := FinalHitChance(b, 50, weaponRange, false, 1)
	far := FinalHitChance(b, 750, weaponRange, false, 1)
	if far >= near {
		t.Fatalf("hit chance should fall with distance: near %.4f, far %.4f", near, far)
	}

	moving := FinalHitChance(b, 50, weaponRange, true, 1)
	if moving >= near {
		t.Fatalf("moving shooter chance %.4f should trail stationary %.4f", moving, near)
	}

	// Beyond the reference range the falloff saturates instead of going
	// negative.
	beyond := FinalHitChance(b, 5000, weaponRange, false, 1)
	if beyond <= 0 {
		t.Fatalf("saturated falloff produced non-positive chance %.4f", beyond)
	}
}

func TestFirstShotBonusRange(t *testing.T) {
	if got := FirstShotBonus(flatBundle(1)); got < 1 || got > 1.01 {
		t.Fatalf("minimal reaction bonus = %.4f", got)
	}
	if got := FirstShotBonus(flatBundle(100)); math.Abs(got-1.1) > 1e-9 {
		t.Fatalf("maximal reaction bonus = %.4f, want 1.1", got)
	}
}

func TestSprayPenaltyDegradesAndClamps(t *testing.T) {
	b := flatBundle(50)
	if got := SprayPenalty(b, 1); got != 1 {
		t.Fatalf("first shot penalty = %.4f, want 1", got)
	}

	previous := 1.0
	for shots := 2; shots <= 30; shots++ {
		got := SprayPenalty(b, shots)
		if got > previous {
			t.Fatalf("penalty rose from %.4f to %.4f at shot %d", previous, got, shots)
		}
		if got < 0.4 {
			t.Fatalf("penalty %.4f fell below the floor at shot %d", got, shots)
		}
		previous = got
	}
	if got := SprayPenalty(b, 100); got != 0.4 {
		t.Fatalf("long spray penalty = %.4f, want the 0.4 floor", got)
	}

	// Recoil control softens the per-shot loss.
	steady := flatBundle(50)
	steady[StatRecoilControl] = 95
	if SprayPenalty(steady, 5) <= SprayPenalty(b, 5) {
		t.Fatal("higher recoil control should retain more accuracy while spraying")
	}
}

func TestComposureModifierPressureAndFloor(t *testing.T) {
	b := flatBundle(50)
	healthy := ComposureModifier(b, 1, 1, 4)
	wounded := ComposureModifier(b, 0.2, 1, 4)
	if wounded >= healthy {
		t.Fatalf("wounded modifier %.4f should trail healthy %.4f", wounded, healthy)
	}

	swarmed := ComposureModifier(b, 0.1, 5, 0)
	if swarmed < composureFloor {
		t.Fatalf("modifier %.4f fell below the %.2f floor", swarmed, composureFloor)
	}

	// High composure resists the same pressure.
	iceCold := flatBundle(50)
	iceCold[StatComposure] = 100
	if ComposureModifier(iceCold, 0.2, 3, 0) <= ComposureModifier(b, 0.2, 3, 0) {
		t.Fatal("higher composure should resist pressure better")
	}
}

func TestClutchAndTeamworkGates(t *testing.T) {
	b := flatBundle(80)
	if got := ClutchModifier(b, 2); got != 1 {
		t.Fatalf("clutch with allies alive = %.4f, want 1", got)
	}
	if got := ClutchModifier(b, 0); got <= 1 {
		t.Fatalf("last-alive clutch = %.4f, want above 1", got)
	}

	if got := TeamworkModifier(b, false); got != 1 {
		t.Fatalf("teamwork without a nearby ally = %.4f, want 1", got)
	}
	if got := TeamworkModifier(b, true); got <= 1 {
		t.Fatalf("teamwork with a nearby ally = %.4f, want above 1", got)
	}
}

func TestDetectionChanceShape(t *testing.T) {
	radius := 400.0
	pointBlank := DetectionChance(0, radius, false)
	if math.Abs(pointBlank-0.6) > 1e-9 {
		t.Fatalf("point-blank chance = %.4f, want 0.6", pointBlank)
	}
	atEdge := DetectionChance(radius, radius, false)
	if math.Abs(atEdge-0.36) > 1e-9 {
		t.Fatalf("edge chance = %.4f, want 0.36", atEdge)
	}
	peripheral := DetectionChance(0, radius, true)
	if math.Abs(peripheral-0.3) > 1e-9 {
		t.Fatalf("peripheral chance = %.4f, want half of 0.6", peripheral)
	}
	if got := DetectionChance(100, 0, false); got != 0 {
		t.Fatalf("zero radius chance = %.4f, want 0", got)
	}
}

func TestDefaultRosterProfiles(t *testing.T) {
	roster := DefaultRoster()
	for i, bundle := range roster {
		for id := StatID(0); id < StatCount; id++ {
			if v := bundle.Get(id); v < 1 || v > 100 {
				t.Fatalf("roster slot %d stat %d out of range: %.1f", i, id, v)
			}
		}
	}

	// Archetypes express their specialty relative to each other.
	entry := DefaultBundle(ArchetypeEntry)
	lurker := DefaultBundle(ArchetypeLurker)
	if entry.Get(StatSpeed) <= lurker.Get(StatSpeed) {
		t.Fatal("entry archetype should outrun the lurker")
	}
	if lurker.Get(StatStealth) <= entry.Get(StatStealth) {
		t.Fatal("lurker archetype should out-sneak the entry")
	}

	if r := Rating(flatBundle(50)); r != 50 {
		t.Fatalf("flat-50 rating = %.1f, want 50", r)
	}
}
