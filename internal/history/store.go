// Package history persists round and match results so summaries survive the
// process. Matches are independent rows; the simulation never reads from
// here on the hot path.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MatchRecord is one match header row.
type MatchRecord struct {
	ID            string `gorm:"primaryKey"`
	Seed          string
	MapName       string
	StartedAt     time.Time
	FinishedAt    *time.Time
	AttackerScore int
	DefenderScore int
	WinnerSide    string
}

// RoundRecord is one settled round belonging to a match.
type RoundRecord struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	MatchID      string `gorm:"index"`
	Round        int
	WinnerSide   string
	Reason       string
	BombPlanted  bool
	BombDefused  bool
	BombExploded bool
	DurationSec  float64
	KillsJSON    string
	EconomyJSON  string
	CreatedAt    time.Time
}

// Store wraps the gorm handle.
type Store struct {
	db *gorm.DB
}

// Open creates or migrates the sqlite database at path. Use ":memory:" in
// tests.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := db.AutoMigrate(&MatchRecord{}, &RoundRecord{}); err != nil {
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return &Store{db: db}, nil
}

// StartMatch inserts the match header row.
func (s *Store) StartMatch(id, seed, mapName string) error {
	if s == nil {
		return nil
	}
	record := MatchRecord{ID: id, Seed: seed, MapName: mapName, StartedAt: time.Now()}
	return s.db.Create(&record).Error
}

// RecordRound appends one settled round. kills and economy are stored as
// JSON blobs; history consumers render them, nothing queries inside them.
func (s *Store) RecordRound(matchID string, round int, winnerSide, reason string, planted, defused, exploded bool, durationSec float64, kills, economy any) error {
	if s == nil {
		return nil
	}
	killsJSON, err := json.Marshal(kills)
	if err != nil {
		return fmt.Errorf("marshal kills: %w", err)
	}
	economyJSON, err := json.Marshal(economy)
	if err != nil {
		return fmt.Errorf("marshal economy: %w", err)
	}
	record := RoundRecord{
		MatchID:      matchID,
		Round:        round,
		WinnerSide:   winnerSide,
		Reason:       reason,
		BombPlanted:  planted,
		BombDefused:  defused,
		BombExploded: exploded,
		DurationSec:  durationSec,
		KillsJSON:    string(killsJSON),
		EconomyJSON:  string(economyJSON),
		CreatedAt:    time.Now(),
	}
	return s.db.Create(&record).Error
}

// FinishMatch stamps the final score onto the header row.
func (s *Store) FinishMatch(matchID string, attackerScore, defenderScore int, winnerSide string) error {
	if s == nil {
		return nil
	}
	now := time.Now()
	return s.db.Model(&MatchRecord{}).Where("id = ?", matchID).Updates(map[string]any{
		"finished_at":    &now,
		"attacker_score": attackerScore,
		"defender_score": defenderScore,
		"winner_side":    winnerSide,
	}).Error
}

// Rounds returns the stored rounds for a match in play order.
func (s *Store) Rounds(matchID string) ([]RoundRecord, error) {
	if s == nil {
		return nil, nil
	}
	var rounds []RoundRecord
	err := s.db.Where("match_id = ?", matchID).Order("round asc").Find(&rounds).Error
	return rounds, err
}

// Match returns one match header row.
func (s *Store) Match(matchID string) (*MatchRecord, error) {
	if s == nil {
		return nil, nil
	}
	var record MatchRecord
	if err := s.db.First(&record, "id = ?", matchID).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
