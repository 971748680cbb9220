package server

// WeaponID identifies an entry in the weapon catalog.
type WeaponID string

const (
	WeaponPistol  WeaponID = "pistol"
	WeaponSMG     WeaponID = "smg"
	WeaponRifle   WeaponID = "rifle"
	WeaponShotgun WeaponID = "shotgun"
	WeaponSniper  WeaponID = "sniper"
)

// WeaponClass groups weapons for damage and bounty rules.
type WeaponClass string

const (
	WeaponClassSidearm WeaponClass = "sidearm"
	WeaponClassPrimary WeaponClass = "primary"
	WeaponClassSniper  WeaponClass = "sniper"
)

// WeaponSpec is one immutable catalog entry.
type WeaponSpec struct {
	ID         WeaponID    `json:"id"`
	Class      WeaponClass `json:"class"`
	BaseDamage float64     `json:"baseDamage"`
	Accuracy   float64     `json:"accuracy"` // multiplier applied to hit chance
	Range      float64     `json:"range"`    // falloff reference distance
	KillReward int         `json:"killReward"`
	Price      int         `json:"price"`
}

var weaponCatalog = map[WeaponID]WeaponSpec{
	WeaponPistol:  {ID: WeaponPistol, Class: WeaponClassSidearm, BaseDamage: 26, Accuracy: 0.90, Range: 450, KillReward: 300, Price: 0},
	WeaponSMG:     {ID: WeaponSMG, Class: WeaponClassPrimary, BaseDamage: 24, Accuracy: 0.95, Range: 500, KillReward: 600, Price: 1200},
	WeaponShotgun: {ID: WeaponShotgun, Class: WeaponClassPrimary, BaseDamage: 55, Accuracy: 0.80, Range: 250, KillReward: 900, Price: 1100},
	WeaponRifle:   {ID: WeaponRifle, Class: WeaponClassPrimary, BaseDamage: 33, Accuracy: 1.00, Range: 800, KillReward: 300, Price: 2700},
	WeaponSniper:  {ID: WeaponSniper, Class: WeaponClassSniper, BaseDamage: 90, Accuracy: 1.10, Range: 1500, KillReward: 100, Price: 4750},
}

func weaponSpec(id WeaponID) WeaponSpec {
	if spec, ok := weaponCatalog[id]; ok {
		return spec
	}
	return weaponCatalog[WeaponPistol]
}

// ArmorTier enumerates body protection levels.
type ArmorTier uint8

const (
	ArmorNone ArmorTier = iota
	ArmorLight
	ArmorHeavy
)

// armorBodyReduction and armorLegReduction are damage multipliers per tier.
var (
	armorBodyReduction = map[ArmorTier]float64{ArmorNone: 1.0, ArmorLight: 0.75, ArmorHeavy: 0.55}
	armorLegReduction  = map[ArmorTier]float64{ArmorNone: 1.0, ArmorLight: 0.9, ArmorHeavy: 0.8}
)

const (
	armorLightPrice = 650
	armorHeavyPrice = 1000
	helmetPrice     = 350
	defuseKitPrice  = 400
	helmetReduction = 0.5
)

// HitLocation identifies where a shot landed.
type HitLocation string

const (
	HitHead HitLocation = "head"
	HitBody HitLocation = "body"
	HitLegs HitLocation = "legs"
)

// computeDamage applies headshot multiplier, armor tier, and helmet rules to
// a weapon's base damage. The sniper class punches through helmets.
func computeDamage(weapon WeaponSpec, location HitLocation, armor ArmorTier, helmet bool) float64 {
	damage := weapon.BaseDamage
	switch location {
	case HitHead:
		damage *= headshotMultiplier
		if helmet && weapon.Class != WeaponClassSniper {
			damage *= helmetReduction
		}
	case HitBody:
		damage *= armorBodyReduction[armor]
	case HitLegs:
		damage *= armorLegReduction[armor]
	}
	return damage
}
