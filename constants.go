package server

import "time"

const (
	ProtocolVersion = 1

	writeWait = 10 * time.Second

	// tickRate is the fixed simulation frequency. One tick is 200ms.
	tickRate     = 5
	tickInterval = time.Second / tickRate

	teamSize = 5

	worldWidth  = 2000.0
	worldHeight = 2000.0

	// navCellSize is the resolution of the derived walkability grid.
	navCellSize = 25.0

	// Command intake.
	commandCooldown      = 500 * time.Millisecond
	commandDelayMin      = 0.3
	commandDelayMax      = 0.8
	commandDelayCombat   = 0.2
	commandQueueOtherCap = 4

	rushSpeedMultiplier   = 1.4
	combatSpeedMultiplier = 0.5

	// Detection.
	mainConeHalfAngleDeg       = 60.0
	peripheralConeHalfAngleDeg = 90.0
	detectionBaseChance        = 0.6
	detectionDistanceFalloff   = 0.4
	peripheralChanceFactor     = 0.5
	stickyRadiusFactor         = 1.2

	// Combat.
	hitChanceFloor      = 0.02
	hitChanceCeiling    = 0.98
	teamworkAllyRadius  = 300.0
	headshotBaseChance  = 0.18
	legShotChance       = 0.25
	headshotMultiplier  = 3.0
	sprayHeadshotFactor = 0.5

	// Bomb objective.
	plantDuration       = 3.0
	defuseDuration      = 5.0
	defuseKitDuration   = 3.0
	defuseRange         = 60.0
	bombTimerSeconds    = 40.0
	bombExplosionRadius = 350.0
	bombMaxDamage       = 150.0

	// Round flow.
	roundsToWin      = 13
	roundsBeforeSwap = 12
	maxRoundSeconds  = 100.0
	buyPhaseSeconds  = 10.0
	strategySeconds  = 5.0
	roundEndSeconds  = 5.0
	maxThrowRange    = 600.0

	defaultMatchSeed = "scrimmage"

	// Economy.
	maxMoney       = 9000
	roundWinReward = 3250
	plantBonus     = 800
	defuseBonus    = 300
	startingMoney  = 800
	overtimeMoney  = 10000

	heartbeatInterval = 2 * time.Second
	disconnectAfter   = 3 * heartbeatInterval
)

// lossStreakRewards indexes the loser's round payout by consecutive losses,
// capped at the last entry.
var lossStreakRewards = [...]int{1400, 1900, 2400, 2900, 3400}
