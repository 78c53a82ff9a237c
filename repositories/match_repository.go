package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-engine/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchParticipantInvalid = errors.New("match participant conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	// CreateBracketGame inserts a bracket game unless the same
	// (stage, round, slot, game) already exists. It reports whether a row was written.
	CreateBracketGame(ctx context.Context, exec SQLExecutor, match *models.Match) (bool, error)
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByStage(ctx context.Context, exec SQLExecutor, stageID int) ([]*models.Match, error)
	// ListConfirmed returns confirmed games of every stage.
	ListConfirmed(ctx context.Context, exec SQLExecutor) ([]*models.Match, error)
	// ListByParticipants returns games where any of the participants plays, newest first.
	ListByParticipants(ctx context.Context, exec SQLExecutor, participantIDs []int) ([]*models.Match, error)
	Update(ctx context.Context, exec SQLExecutor, match *models.Match) error
	// CancelOpen cancels the given matches that are still open and returns how many changed.
	CancelOpen(ctx context.Context, exec SQLExecutor, ids []int) (int64, error)
	DeleteByStage(ctx context.Context, exec SQLExecutor, stageID int) error
	ExistsRound(ctx context.Context, exec SQLExecutor, stageID, round int, thirdPlace bool) (bool, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, stage_id, home_participant_id, away_participant_id, game_number, status,
	score_home, score_away, ot, so, bracket_round, bracket_slot, third_place, confirmed_at, meta,
	created_at, updated_at`

func scanMatch(s rowScanner) (*models.Match, error) {
	var (
		m           models.Match
		scoreHome   sql.NullInt64
		scoreAway   sql.NullInt64
		round       sql.NullInt64
		slot        sql.NullInt64
		confirmedAt sql.NullTime
	)
	err := s.Scan(
		&m.ID, &m.StageID, &m.HomeParticipantID, &m.AwayParticipantID, &m.GameNumber, &m.Status,
		&scoreHome, &scoreAway, &m.OT, &m.SO, &round, &slot, &m.ThirdPlace, &confirmedAt, &m.Meta,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	m.ScoreHome = intFromNull(scoreHome)
	m.ScoreAway = intFromNull(scoreAway)
	m.Round = intFromNull(round)
	m.Slot = intFromNull(slot)
	if confirmedAt.Valid {
		t := confirmedAt.Time
		m.ConfirmedAt = &t
	}
	return &m, nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if isForeignKeyViolation(err) {
		return ErrMatchParticipantInvalid
	}
	return err
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(stage_id, home_participant_id, away_participant_id, game_number, status,
			 score_home, score_away, ot, so, bracket_round, bracket_slot, third_place, meta)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		match.StageID, match.HomeParticipantID, match.AwayParticipantID, match.GameNumber, match.Status,
		nullableInt(match.ScoreHome), nullableInt(match.ScoreAway), match.OT, match.SO,
		nullableInt(match.Round), nullableInt(match.Slot), match.ThirdPlace, match.Meta,
	).Scan(&match.ID, &match.CreatedAt, &match.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", r.handleMatchError(err))
	}
	return nil
}

func (r *postgresMatchRepository) CreateBracketGame(ctx context.Context, exec SQLExecutor, match *models.Match) (bool, error) {
	query := `
		INSERT INTO matches
			(stage_id, home_participant_id, away_participant_id, game_number, status,
			 bracket_round, bracket_slot, third_place, meta)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (stage_id, bracket_round, bracket_slot, game_number) WHERE bracket_round IS NOT NULL
		DO NOTHING
		RETURNING id, created_at, updated_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		match.StageID, match.HomeParticipantID, match.AwayParticipantID, match.GameNumber, match.Status,
		nullableInt(match.Round), nullableInt(match.Slot), match.ThirdPlace, match.Meta,
	).Scan(&match.ID, &match.CreatedAt, &match.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create bracket game: %w", r.handleMatchError(err))
	}
	return true, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return scanMatch(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 FOR UPDATE`
	return scanMatch(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) queryMatches(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, errScan := scanMatch(rows)
		if errScan != nil {
			return nil, errScan
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) ListByStage(ctx context.Context, exec SQLExecutor, stageID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE stage_id = $1
		ORDER BY bracket_round ASC NULLS FIRST, bracket_slot ASC NULLS FIRST, game_number ASC, id ASC`
	matches, err := r.queryMatches(ctx, exec, query, stageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for stage %d: %w", stageID, err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) ListConfirmed(ctx context.Context, exec SQLExecutor) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE status = 'confirmed' ORDER BY id ASC`
	matches, err := r.queryMatches(ctx, exec, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed matches: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) ListByParticipants(ctx context.Context, exec SQLExecutor, participantIDs []int) ([]*models.Match, error) {
	if len(participantIDs) == 0 {
		return []*models.Match{}, nil
	}
	ids := make(pq.Int64Array, len(participantIDs))
	for i, id := range participantIDs {
		ids[i] = int64(id)
	}
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE home_participant_id = ANY($1) OR away_participant_id = ANY($1)
		ORDER BY created_at DESC, id DESC`
	matches, err := r.queryMatches(ctx, exec, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of participants: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		UPDATE matches SET
			status = $1, score_home = $2, score_away = $3, ot = $4, so = $5,
			confirmed_at = $6, meta = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`
	var confirmedAt sql.NullTime
	if match.ConfirmedAt != nil {
		confirmedAt = sql.NullTime{Time: *match.ConfirmedAt, Valid: true}
	}
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		match.Status, nullableInt(match.ScoreHome), nullableInt(match.ScoreAway), match.OT, match.SO,
		confirmedAt, match.Meta, match.ID,
	).Scan(&match.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to update match %d: %w", match.ID, err)
	}
	return nil
}

func (r *postgresMatchRepository) CancelOpen(ctx context.Context, exec SQLExecutor, ids []int) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	arr := make(pq.Int64Array, len(ids))
	for i, id := range ids {
		arr[i] = int64(id)
	}
	query := `
		UPDATE matches SET status = 'canceled', updated_at = NOW()
		WHERE id = ANY($1) AND status IN ('scheduled', 'reported', 'disputed')`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, arr)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel matches: %w", err)
	}
	return result.RowsAffected()
}

func (r *postgresMatchRepository) DeleteByStage(ctx context.Context, exec SQLExecutor, stageID int) error {
	// match_reports удаляются каскадно
	_, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM matches WHERE stage_id = $1`, stageID)
	if err != nil {
		return fmt.Errorf("failed to delete matches of stage %d: %w", stageID, err)
	}
	return nil
}

func (r *postgresMatchRepository) ExistsRound(ctx context.Context, exec SQLExecutor, stageID, round int, thirdPlace bool) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM matches WHERE stage_id = $1 AND bracket_round = $2 AND third_place = $3)`
	var exists bool
	if err := r.getExecutor(exec).QueryRowContext(ctx, query, stageID, round, thirdPlace).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check round %d of stage %d: %w", round, stageID, err)
	}
	return exists, nil
}
