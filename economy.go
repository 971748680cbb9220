package server

import "fmt"

// TeamEconomy is one side's persistent money state across rounds.
type TeamEconomy struct {
	Money      int `json:"money"`
	LossStreak int `json:"lossStreak"`
	TotalKills int `json:"totalKills"`
}

func newTeamEconomy() TeamEconomy {
	return TeamEconomy{Money: startingMoney}
}

// EconomyUpdate is the one-shot round settlement for a single side. It is
// computed once per round end and must be applied exactly once.
type EconomyUpdate struct {
	Team           Team `json:"team"`
	Won            bool `json:"won"`
	RoundReward    int  `json:"roundReward"`
	KillReward     int  `json:"killReward"`
	ObjectiveBonus int  `json:"objectiveBonus"`
	NewBalance     int  `json:"newBalance"`
	NewLossStreak  int  `json:"newLossStreak"`

	applied bool
}

// Total is the sum of the three reward components.
func (u *EconomyUpdate) Total() int {
	return u.RoundReward + u.KillReward + u.ObjectiveBonus
}

// computeEconomyUpdate settles one side's round. The loser's reward escalates
// with its new consecutive-loss count, capped at the table's last entry;
// winners collect the flat reward and reset their streak. Attackers keep the
// plant bonus win or lose, defenders the defuse bonus.
func computeEconomyUpdate(team Team, winner Team, prior TeamEconomy, kills []KillRecord, planted, defused bool) EconomyUpdate {
	update := EconomyUpdate{Team: team, Won: team == winner}

	if update.Won {
		update.RoundReward = roundWinReward
		update.NewLossStreak = 0
	} else {
		update.NewLossStreak = prior.LossStreak + 1
		idx := update.NewLossStreak - 1
		if idx >= len(lossStreakRewards) {
			idx = len(lossStreakRewards) - 1
		}
		update.RoundReward = lossStreakRewards[idx]
	}

	for _, kill := range kills {
		if kill.KillerTeam == team && kill.VictimTeam != team {
			update.KillReward += weaponSpec(kill.Weapon).KillReward
		}
	}

	if team == TeamAttackers && planted {
		update.ObjectiveBonus += plantBonus
	}
	if team == TeamDefenders && defused {
		update.ObjectiveBonus += defuseBonus
	}

	balance := prior.Money + update.Total()
	if balance > maxMoney {
		balance = maxMoney
	}
	update.NewBalance = balance
	return update
}

// Apply commits the settlement to the team economy. Applying the same update
// twice is a caller bug and is rejected.
func (e *TeamEconomy) Apply(update *EconomyUpdate) error {
	if update.applied {
		return fmt.Errorf("economy update for %s already applied", update.Team)
	}
	update.applied = true
	e.Money = update.NewBalance
	e.LossStreak = update.NewLossStreak
	return nil
}

// Spend withdraws money for a buy-phase purchase, rejecting overdrafts.
func (e *TeamEconomy) Spend(amount int) bool {
	if amount < 0 || amount > e.Money {
		return false
	}
	e.Money -= amount
	return true
}

// resetForOvertime gives both sides the fixed overtime bankroll.
func (e *TeamEconomy) resetForOvertime() {
	e.Money = overtimeMoney
	e.LossStreak = 0
}

// resetForSwap restores the pistol-round economy after a side switch.
func (e *TeamEconomy) resetForSwap() {
	e.Money = startingMoney
	e.LossStreak = 0
}
