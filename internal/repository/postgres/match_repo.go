package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/freeeve/relic-eclipse/internal/model"
)

// MatchRepo handles match and match_result database operations.
type MatchRepo struct {
	db *sql.DB
}

// NewMatchRepo creates a MatchRepo.
func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// Create archives a finished match with its per-seat results. An empty ID is
// filled with a fresh UUID.
func (r *MatchRepo) Create(ctx context.Context, m *model.Match) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.FinishedAt.IsZero() {
		m.FinishedAt = time.Now()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = m.FinishedAt
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var state any
	if len(m.FinalState) > 0 {
		state = []byte(m.FinalState)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO matches (id, source, seed, players, human_seat, ruleset, difficulty, rounds,
		                      winner_seat, winner, final_state, created_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		m.ID, m.Source, int64(m.Seed), m.Players, m.HumanSeat, m.Ruleset, m.Difficulty, m.Rounds,
		m.WinnerSeat, nullStr(m.Winner), state, m.CreatedAt, m.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO match_results (match_id, seat, faction, human, rank, vp, tiles, eliminated)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
	if err != nil {
		return fmt.Errorf("prepare insert result: %w", err)
	}
	defer stmt.Close()

	for i := range m.Results {
		res := &m.Results[i]
		res.MatchID = m.ID
		if _, err := stmt.ExecContext(ctx, m.ID, res.Seat, res.Faction, res.Human, res.Rank, res.VP, res.Tiles, res.Eliminated); err != nil {
			return fmt.Errorf("insert result: %w", err)
		}
	}
	return tx.Commit()
}

// FindByID returns a match with its results, or nil if it does not exist.
func (r *MatchRepo) FindByID(ctx context.Context, id string) (*model.Match, error) {
	var m model.Match
	var seed int64
	var winner sql.NullString
	var state []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT id, source, seed, players, human_seat, ruleset, difficulty, rounds,
		        winner_seat, winner, final_state, created_at, finished_at
		 FROM matches WHERE id = $1`, id,
	).Scan(&m.ID, &m.Source, &seed, &m.Players, &m.HumanSeat, &m.Ruleset, &m.Difficulty, &m.Rounds,
		&m.WinnerSeat, &winner, &state, &m.CreatedAt, &m.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find match: %w", err)
	}
	m.Seed = uint64(seed)
	m.Winner = winner.String
	m.FinalState = state

	results, err := r.listResults(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Results = results
	return &m, nil
}

// ListRecent returns the newest matches without their final state.
func (r *MatchRepo) ListRecent(ctx context.Context, limit int) ([]model.Match, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source, seed, players, human_seat, ruleset, difficulty, rounds,
		        winner_seat, winner, created_at, finished_at
		 FROM matches ORDER BY finished_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		var m model.Match
		var seed int64
		var winner sql.NullString
		if err := rows.Scan(&m.ID, &m.Source, &seed, &m.Players, &m.HumanSeat, &m.Ruleset, &m.Difficulty, &m.Rounds,
			&m.WinnerSeat, &winner, &m.CreatedAt, &m.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.Seed = uint64(seed)
		m.Winner = winner.String
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// FactionStats aggregates results per faction. An empty source covers every match.
func (r *MatchRepo) FactionStats(ctx context.Context, source string) ([]model.FactionStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT mr.faction, COUNT(*), COUNT(*) FILTER (WHERE mr.rank = 1),
		        COALESCE(AVG(mr.vp), 0), COUNT(*) FILTER (WHERE mr.eliminated)
		 FROM match_results mr JOIN matches m ON m.id = mr.match_id
		 WHERE $1 = '' OR m.source = $1
		 GROUP BY mr.faction ORDER BY mr.faction`, source)
	if err != nil {
		return nil, fmt.Errorf("faction stats: %w", err)
	}
	defer rows.Close()

	var stats []model.FactionStat
	for rows.Next() {
		var s model.FactionStat
		if err := rows.Scan(&s.Faction, &s.Games, &s.Wins, &s.AvgVP, &s.Eliminated); err != nil {
			return nil, fmt.Errorf("scan faction stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *MatchRepo) listResults(ctx context.Context, matchID string) ([]model.MatchResult, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT match_id, seat, faction, human, rank, vp, tiles, eliminated
		 FROM match_results WHERE match_id = $1 ORDER BY rank, seat`, matchID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []model.MatchResult
	for rows.Next() {
		var res model.MatchResult
		if err := rows.Scan(&res.MatchID, &res.Seat, &res.Faction, &res.Human, &res.Rank, &res.VP, &res.Tiles, &res.Eliminated); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
