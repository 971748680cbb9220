package server

import (
	"math"
	"testing"
)

func TestPairEngagementsDedupe(t *testing.T) {
	a := testSoldier(TeamAttackers, 0, vec2{X: 0, Y: 0}, 0)
	b := testSoldier(TeamDefenders, 0, vec2{X: 100, Y: 0}, math.Pi)

	mutual := pairEngagements([]detectionResult{
		{observer: a, target: b},
		{observer: b, target: a},
	})
	if len(mutual) != 1 {
		t.Fatalf("mutual detections should collapse to one pair, got %d", len(mutual))
	}
	if !mutual[0].mutual {
		t.Fatal("pair with both directions should be marked mutual")
	}

	oneSided := pairEngagements([]detectionResult{{observer: a, target: b}})
	if len(oneSided) != 1 || oneSided[0].mutual {
		t.Fatalf("single-direction detection should be one non-mutual pair, got %+v", oneSided)
	}
	if oneSided[0].first != a {
		t.Fatal("the detector must be the firing party of a one-sided pair")
	}
}

func TestResolveCombatAmbushOnlyDetectorFires(t *testing.T) {
	rng := newDeterministicRNG("combat-test", "match")
	shooter := testSoldier(TeamAttackers, 0, vec2{X: 0, Y: 0}, 0)
	victim := testSoldier(TeamDefenders, 0, vec2{X: 100, Y: 0}, 0)
	units := []*soldierState{shooter, victim}

	shooter.detected[victim.ID] = struct{}{}
	var events []Event
	resolveCombat(1, []detectionResult{{observer: shooter, target: victim}}, units, rng, &events)

	if shooter.shotsFired != 1 {
		t.Fatalf("detector fired %d shots, want 1", shooter.shotsFired)
	}
	if victim.shotsFired != 0 {
		t.Fatalf("ambushed unit fired %d shots, want 0", victim.shotsFired)
	}
	if !shooter.InCombat {
		t.Fatal("detector should be in combat after firing")
	}
}

func TestResolveCombatMutualBothFire(t *testing.T) {
	rng := newDeterministicRNG("combat-test", "match")
	a := testSoldier(TeamAttackers, 0, vec2{X: 0, Y: 0}, 0)
	b := testSoldier(TeamDefenders, 0, vec2{X: 100, Y: 0}, math.Pi)
	units := []*soldierState{a, b}

	a.detected[b.ID] = struct{}{}
	b.detected[a.ID] = struct{}{}
	var events []Event
	resolveCombat(1, []detectionResult{
		{observer: a, target: b},
		{observer: b, target: a},
	}, units, rng, &events)

	if a.shotsFired != 1 || b.shotsFired != 1 {
		t.Fatalf("mutual pair fired %d/%d shots, want 1/1", a.shotsFired, b.shotsFired)
	}
}

func TestResolveCombatDropsOutWithoutContacts(t *testing.T) {
	rng := newDeterministicRNG("combat-test", "match")
	unit := testSoldier(TeamAttackers, 0, vec2{X: 0, Y: 0}, 0)
	unit.InCombat = true
	unit.shotsFired = 4
	unit.targetID = "defenders-0"

	var events []Event
	resolveCombat(1, nil, []*soldierState{unit}, rng, &events)

	if unit.InCombat {
		t.Fatal("unit with no contacts should leave combat")
	}
	if unit.shotsFired != 0 {
		t.Fatalf("spray counter should reset out of combat, got %d", unit.shotsFired)
	}
	if unit.targetID != "" {
		t.Fatalf("target should clear out of combat, got %q", unit.targetID)
	}
}

func TestFireShotEventuallyKills(t *testing.T) {
	rng := newDeterministicRNG("combat-test", "match")
	shooter := testSoldier(TeamAttackers, 0, vec2{X: 0, Y: 0}, 0)
	victim := testSoldier(TeamDefenders, 0, vec2{X: 100, Y: 0}, 0)
	units := []*soldierState{shooter, victim}

	var events []Event
	var kills []KillRecord
	shooter.detected[victim.ID] = struct{}{}
	for i := 0; i < 500 && victim.Alive; i++ {
		kills = append(kills, fireShot(uint64(i), shooter, victim, units, rng, &events)...)
	}

	if victim.Alive {
		t.Fatal("victim survived 500 close-range shots")
	}
	if len(kills) != 1 {
		t.Fatalf("expected exactly one kill record, got %d", len(kills))
	}
	kill := kills[0]
	if kill.KillerID != shooter.ID || kill.VictimID != victim.ID {
		t.Fatalf("kill record attributes %s -> %s", kill.KillerID, kill.VictimID)
	}
	if kill.Weapon != shooter.Weapon {
		t.Fatalf("kill weapon %q, want %q", kill.Weapon, shooter.Weapon)
	}
}

func TestFireShotRefusesDeadParties(t *testing.T) {
	rng := newDeterministicRNG("combat-test", "match")
	shooter := testSoldier(TeamAttackers, 0, vec2{X: 0, Y: 0}, 0)
	victim := testSoldier(TeamDefenders, 0, vec2{X: 100, Y: 0}, 0)
	victim.Alive = false

	var events []Event
	if kills := fireShot(1, shooter, victim, nil, rng, &events); kills != nil {
		t.Fatalf("shot at a dead target produced %d kills", len(kills))
	}
	if shooter.shotsFired != 0 {
		t.Fatal("refused shot should not consume a spray slot")
	}
}

func TestApplyDamageDeathIsAtomicAndFinal(t *testing.T) {
	unit := testSoldier(TeamAttackers, 0, vec2{X: 0, Y: 0}, 0)
	unit.waypoints = []vec2{{X: 50, Y: 50}}
	unit.planting = true
	unit.PlantProgress = 1.5
	unit.detected["defenders-0"] = struct{}{}
	unit.InCombat = true

	if died := unit.applyDamage(250); !died {
		t.Fatal("lethal damage should report a death")
	}
	if unit.Alive || unit.Health != 0 {
		t.Fatalf("dead unit has alive=%v health=%.1f", unit.Alive, unit.Health)
	}
	if len(unit.waypoints) != 0 || unit.planting || unit.PlantProgress != 0 {
		t.Fatal("death should clear movement and objective progress together")
	}
	if len(unit.detected) != 0 || unit.InCombat {
		t.Fatal("death should clear contacts and combat state")
	}

	// A second application of damage is a no-op, never a second death.
	if died := unit.applyDamage(50); died {
		t.Fatal("damage to a dead unit reported another death")
	}
}

func TestComputeDamageLocationRules(t *testing.T) {
	rifle := weaponSpec(WeaponRifle)
	sniper := weaponSpec(WeaponSniper)

	bareHead := computeDamage(rifle, HitHead, ArmorNone, false)
	if want := rifle.BaseDamage * headshotMultiplier; math.Abs(bareHead-want) > 1e-9 {
		t.Fatalf("bare headshot = %.1f, want %.1f", bareHead, want)
	}

	helmetHead := computeDamage(rifle, HitHead, ArmorNone, true)
	if want := bareHead * helmetReduction; math.Abs(helmetHead-want) > 1e-9 {
		t.Fatalf("helmet headshot = %.1f, want %.1f", helmetHead, want)
	}

	// The sniper class ignores helmets.
	sniperHead := computeDamage(sniper, HitHead, ArmorNone, true)
	if want := sniper.BaseDamage * headshotMultiplier; math.Abs(sniperHead-want) > 1e-9 {
		t.Fatalf("sniper helmet headshot = %.1f, want %.1f", sniperHead, want)
	}

	heavyBody := computeDamage(rifle, HitBody, ArmorHeavy, false)
	if want := rifle.BaseDamage * armorBodyReduction[ArmorHeavy]; math.Abs(heavyBody-want) > 1e-9 {
		t.Fatalf("heavy armor body shot = %.1f, want %.1f", heavyBody, want)
	}

	legs := computeDamage(rifle, HitLegs, ArmorLight, false)
	if want := rifle.BaseDamage * armorLegReduction[ArmorLight]; math.Abs(legs-want) > 1e-9 {
		t.Fatalf("light armor leg shot = %.1f, want %.1f", legs, want)
	}
}

func TestCountLivingAlliesAndProximity(t *testing.T) {
	unit := testSoldier(TeamAttackers, 0, vec2{X: 0, Y: 0}, 0)
	nearAlly := testSoldier(TeamAttackers, 1, vec2{X: 100, Y: 0}, 0)
	farAlly := testSoldier(TeamAttackers, 2, vec2{X: 1500, Y: 0}, 0)
	deadAlly := testSoldier(TeamAttackers, 3, vec2{X: 50, Y: 0}, 0)
	deadAlly.Alive = false
	enemy := testSoldier(TeamDefenders, 0, vec2{X: 60, Y: 0}, 0)
	units := []*soldierState{unit, nearAlly, farAlly, deadAlly, enemy}

	if got := countLivingAllies(unit, units); got != 2 {
		t.Fatalf("living allies = %d, want 2", got)
	}
	if !allyWithinRadius(unit, units, teamworkAllyRadius) {
		t.Fatal("near ally inside the teamwork radius not found")
	}
	if allyWithinRadius(farAlly, []*soldierState{unit, farAlly}, 100) {
		t.Fatal("distant ally reported inside a tight radius")
	}
}

func TestShotHitChanceStaysWithinBounds(t *testing.T) {
	// A maxed point-blank sniper as the last one standing overshoots 1.0
	// before the clamp, so the ceiling must report exactly.
	shooter := testSoldier(TeamAttackers, 0, vec2{X: 500, Y: 500}, 0)
	shooter.attributes = uniformBundle(100)
	shooter.Weapon = WeaponSniper
	shooter.shotsFired = 1
	target := testSoldier(TeamDefenders, 0, vec2{X: 500, Y: 500}, 0)

	if got := shotHitChance(shooter, target, []*soldierState{shooter, target}); got != hitChanceCeiling {
		t.Fatalf("maxed point-blank chance = %v, want the ceiling %v", got, hitChanceCeiling)
	}

	// Every hostile modifier at once: rock-bottom attributes, out of range,
	// moving, deep spray, near-dead, outnumbered, alone. The product has to
	// degrade hard but stay inside the bounds.
	worst := testSoldier(TeamAttackers, 1, vec2{X: 0, Y: 0}, 0)
	worst.attributes = uniformBundle(1)
	worst.Weapon = WeaponShotgun
	worst.shotsFired = 40
	worst.Health = 1
	worst.waypoints = []vec2{{X: 2000, Y: 2000}}
	worst.lastMoveDist = 1
	worst.detected = map[string]struct{}{"d-0": {}, "d-1": {}, "d-2": {}}
	far := testSoldier(TeamDefenders, 1, vec2{X: 1900, Y: 1900}, 0)

	got := shotHitChance(worst, far, []*soldierState{worst, far})
	if got < hitChanceFloor || got > hitChanceCeiling {
		t.Fatalf("worst-case chance %v outside [%v, %v]", got, hitChanceFloor, hitChanceCeiling)
	}
	if got >= 0.05 {
		t.Fatalf("worst-case chance %v did not degrade", got)
	}
}

func TestMutualPairDeadPartyDoesNotReturnFire(t *testing.T) {
	rng := newDeterministicRNG("combat-test", "match")
	for i := 0; i < 50; i++ {
		shooter := testSoldier(TeamAttackers, 0, vec2{X: 500, Y: 500}, 0)
		shooter.attributes = uniformBundle(100)
		shooter.Weapon = WeaponSniper
		victim := testSoldier(TeamDefenders, 0, vec2{X: 520, Y: 500}, math.Pi)
		victim.Health = 1
		units := []*soldierState{shooter, victim}

		var events []Event
		kills := resolveCombat(uint64(i), []detectionResult{
			{observer: shooter, target: victim},
			{observer: victim, target: shooter},
		}, units, rng, &events)
		if len(kills) == 0 {
			continue
		}

		if victim.Alive {
			t.Fatalf("iteration %d: kill recorded but victim still alive", i)
		}
		for _, ev := range events {
			if ev.Type == EventShotFired && ev.EntityID == victim.ID {
				t.Fatalf("iteration %d: dead party returned fire", i)
			}
		}
		return
	}
	t.Fatal("no lethal exchange in 50 attempts")
}
