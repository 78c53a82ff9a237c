package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-engine/models"
	"github.com/lib/pq"
)

var ErrStandingParticipantInvalid = errors.New("standing participant conflict or invalid")

type StandingRepository interface {
	// ReplaceForStage upserts the given rows and removes rows of participants not in the list.
	ReplaceForStage(ctx context.Context, exec SQLExecutor, stageID int, standings []*models.Standing) error
	// ListByStage returns rows ordered by points, goal diff, goals for and participant id.
	ListByStage(ctx context.Context, exec SQLExecutor, stageID int) ([]*models.Standing, error)
}

type postgresStandingRepository struct {
	db *sql.DB // Main DB connection, can be used if exec is nil
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresStandingRepository) ReplaceForStage(ctx context.Context, exec SQLExecutor, stageID int, standings []*models.Standing) error {
	executor := r.getExecutor(exec)
	upsert := `
		INSERT INTO standings
			(stage_id, participant_id, games_played, wins, ot_wins, so_wins, losses, ot_losses, so_losses,
			 goals_for, goals_against, goal_diff, points, tech_losses, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		ON CONFLICT ON CONSTRAINT uq_standings_stage_participant DO UPDATE SET
			games_played = EXCLUDED.games_played, wins = EXCLUDED.wins, ot_wins = EXCLUDED.ot_wins,
			so_wins = EXCLUDED.so_wins, losses = EXCLUDED.losses, ot_losses = EXCLUDED.ot_losses,
			so_losses = EXCLUDED.so_losses, goals_for = EXCLUDED.goals_for,
			goals_against = EXCLUDED.goals_against, goal_diff = EXCLUDED.goal_diff,
			points = EXCLUDED.points, tech_losses = EXCLUDED.tech_losses, updated_at = NOW()
		RETURNING id, updated_at`

	keep := make(pq.Int64Array, 0, len(standings))
	for _, s := range standings {
		err := executor.QueryRowContext(ctx, upsert,
			stageID, s.ParticipantID, s.GamesPlayed, s.Wins, s.OTWins, s.SOWins, s.Losses, s.OTLosses, s.SOLosses,
			s.GoalsFor, s.GoalsAgainst, s.GoalDiff, s.Points, s.TechLosses,
		).Scan(&s.ID, &s.UpdatedAt)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: participant %d", ErrStandingParticipantInvalid, s.ParticipantID)
			}
			return fmt.Errorf("failed to upsert standing for participant %d: %w", s.ParticipantID, err)
		}
		s.StageID = stageID
		keep = append(keep, int64(s.ParticipantID))
	}

	_, err := executor.ExecContext(ctx,
		`DELETE FROM standings WHERE stage_id = $1 AND NOT (participant_id = ANY($2))`, stageID, keep)
	if err != nil {
		return fmt.Errorf("failed to prune standings of stage %d: %w", stageID, err)
	}
	return nil
}

func (r *postgresStandingRepository) ListByStage(ctx context.Context, exec SQLExecutor, stageID int) ([]*models.Standing, error) {
	// порядок совпадает с idx_standings_ranking
	query := `
		SELECT id, stage_id, participant_id, games_played, wins, ot_wins, so_wins, losses, ot_losses, so_losses,
		       goals_for, goals_against, goal_diff, points, tech_losses, updated_at
		FROM standings
		WHERE stage_id = $1
		ORDER BY points DESC, goal_diff DESC, goals_for DESC, participant_id ASC`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, stageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings of stage %d: %w", stageID, err)
	}
	defer rows.Close()

	standings := make([]*models.Standing, 0)
	for rows.Next() {
		var s models.Standing
		if err := rows.Scan(
			&s.ID, &s.StageID, &s.ParticipantID, &s.GamesPlayed, &s.Wins, &s.OTWins, &s.SOWins, &s.Losses,
			&s.OTLosses, &s.SOLosses, &s.GoalsFor, &s.GoalsAgainst, &s.GoalDiff, &s.Points, &s.TechLosses,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		standings = append(standings, &s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return standings, nil
}
