package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-engine/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	UpdateOverallWinner(ctx context.Context, exec SQLExecutor, tournamentID int, winnerParticipantID *int) error
	// ListDecided returns tournaments that have an overall winner.
	ListDecided(ctx context.Context, exec SQLExecutor) ([]*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	query := `INSERT INTO tournaments (name) VALUES ($1) RETURNING id, created_at`
	if err := r.getExecutor(exec).QueryRowContext(ctx, query, t.Name).Scan(&t.ID, &t.CreatedAt); err != nil {
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	query := `SELECT id, name, winner_participant_id, created_at FROM tournaments WHERE id = $1`
	var (
		t      models.Tournament
		winner sql.NullInt64
	)
	err := r.getExecutor(exec).QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &winner, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	t.WinnerParticipantID = intFromNull(winner)
	return &t, nil
}

func (r *postgresTournamentRepository) UpdateOverallWinner(ctx context.Context, exec SQLExecutor, tournamentID int, winnerParticipantID *int) error {
	query := `UPDATE tournaments SET winner_participant_id = $1 WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, nullableInt(winnerParticipantID), tournamentID)
	if err != nil {
		return fmt.Errorf("failed to set winner of tournament %d: %w", tournamentID, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) ListDecided(ctx context.Context, exec SQLExecutor) ([]*models.Tournament, error) {
	query := `SELECT id, name, winner_participant_id, created_at FROM tournaments
		WHERE winner_participant_id IS NOT NULL
		ORDER BY id ASC`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list decided tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		var (
			t      models.Tournament
			winner sql.NullInt64
		)
		if err := rows.Scan(&t.ID, &t.Name, &winner, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.WinnerParticipantID = intFromNull(winner)
		tournaments = append(tournaments, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}
