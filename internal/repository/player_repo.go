package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/huddle-ai/huddle/internal/sleeper"
)

// SnapshotPlayer is one row of the player directory snapshot
type SnapshotPlayer struct {
	PlayerID   string    `json:"playerId"`
	GsisID     string    `json:"gsisId,omitempty"`
	FullName   string    `json:"fullName"`
	Position   string    `json:"position"`
	Team       string    `json:"team,omitempty"`
	Status     string    `json:"status"`
	Active     bool      `json:"active"`
	SearchRank *int      `json:"searchRank,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PlayerRepository handles player snapshot persistence
type PlayerRepository struct {
	db *DB
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// UpsertAll writes every player in one transaction
func (r *PlayerRepository) UpsertAll(players map[string]*sleeper.Player) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO players (player_id, gsis_id, full_name, position, team, status, active, search_rank, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			gsis_id = excluded.gsis_id,
			full_name = excluded.full_name,
			position = excluded.position,
			team = excluded.team,
			status = excluded.status,
			active = excluded.active,
			search_rank = excluded.search_rank,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	n := 0
	for id, p := range players {
		if p == nil {
			continue
		}
		_, err := stmt.Exec(id, nullable(p.GsisID), p.DisplayName(), p.Position,
			nullable(p.Team), p.Status, p.Active, p.SearchRank, now)
		if err != nil {
			return 0, fmt.Errorf("upsert player %s: %w", id, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

// Get retrieves a snapshot player by ID
func (r *PlayerRepository) Get(id string) (*SnapshotPlayer, error) {
	row := r.db.QueryRow(`
		SELECT player_id, gsis_id, full_name, position, team, status, active, search_rank, updated_at
		FROM players WHERE player_id = ?
	`, id)

	p, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// ListByPosition returns active players at a position, best search rank first.
// An empty position matches every position.
func (r *PlayerRepository) ListByPosition(position string, limit int) ([]*SnapshotPlayer, error) {
	rows, err := r.db.Query(`
		SELECT player_id, gsis_id, full_name, position, team, status, active, search_rank, updated_at
		FROM players WHERE (? = '' OR position = ?) AND active = 1
		ORDER BY COALESCE(search_rank, 9999999) ASC, player_id ASC
		LIMIT ?
	`, position, position, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []*SnapshotPlayer
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// Count returns the snapshot size
func (r *PlayerRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM players`).Scan(&n)
	return n, err
}

// LastUpdated returns the newest snapshot timestamp, or nil when empty
func (r *PlayerRepository) LastUpdated() (*time.Time, error) {
	var ts time.Time
	err := r.db.QueryRow(`SELECT updated_at FROM players ORDER BY updated_at DESC LIMIT 1`).Scan(&ts)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlayer(s scanner) (*SnapshotPlayer, error) {
	p := &SnapshotPlayer{}
	var gsisID, position, team, status sql.NullString
	var rank sql.NullInt64
	if err := s.Scan(&p.PlayerID, &gsisID, &p.FullName, &position, &team, &status,
		&p.Active, &rank, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.GsisID = gsisID.String
	p.Position = position.String
	p.Team = team.String
	p.Status = status.String
	if rank.Valid {
		v := int(rank.Int64)
		p.SearchRank = &v
	}
	return p, nil
}

func nullable(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
