package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/huddle-ai/huddle/internal/domain"
)

// AnalysisRepository handles the analysis log
type AnalysisRepository struct {
	db *DB
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Create appends an analysis
func (r *AnalysisRepository) Create(analysis *domain.Analysis) error {
	if analysis.ID == "" {
		analysis.ID = uuid.New().String()
	}
	analysis.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(`
		INSERT INTO analyses (id, kind, intent, league_id, user_id, message, response, recommendation_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, analysis.ID, analysis.Kind, string(analysis.Intent), analysis.LeagueID, analysis.UserID,
		analysis.Message, analysis.Response, analysis.RecommendationCount, analysis.CreatedAt)

	return err
}

// Get retrieves an analysis by ID
func (r *AnalysisRepository) Get(id string) (*domain.Analysis, error) {
	a := &domain.Analysis{}
	var intent string
	var leagueID, userID sql.NullString

	err := r.db.QueryRow(`
		SELECT id, kind, intent, league_id, user_id, message, response, recommendation_count, created_at
		FROM analyses WHERE id = ?
	`, id).Scan(&a.ID, &a.Kind, &intent, &leagueID, &userID, &a.Message, &a.Response,
		&a.RecommendationCount, &a.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	a.Intent = domain.Intent(intent)
	a.LeagueID = leagueID.String
	a.UserID = userID.String
	return a, nil
}

// Count returns the number of recorded analyses
func (r *AnalysisRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM analyses`).Scan(&n)
	return n, err
}

// CountByIntent groups recorded analyses by intent
func (r *AnalysisRepository) CountByIntent() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT intent, COUNT(*) FROM analyses GROUP BY intent`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var intent string
		var n int
		if err := rows.Scan(&intent, &n); err != nil {
			return nil, err
		}
		counts[intent] = n
	}
	return counts, rows.Err()
}
