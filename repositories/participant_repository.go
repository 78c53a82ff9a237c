package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-engine/models"
	"github.com/lib/pq"
)

var ErrParticipantNotFound = errors.New("participant not found")

type ParticipantRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Participant, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Participant, error)
	ListByUser(ctx context.Context, exec SQLExecutor, userID int) ([]*models.Participant, error)
	// ListLinked returns every participant backed by a user account.
	ListLinked(ctx context.Context, exec SQLExecutor) ([]*models.Participant, error)
	// FindByUserAmong returns the participant among ids backed by userID.
	FindByUserAmong(ctx context.Context, exec SQLExecutor, userID int, participantIDs []int) (*models.Participant, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const participantColumns = `id, tournament_id, user_id, team_id, display_name, is_active, created_at`

func scanParticipant(s rowScanner) (*models.Participant, error) {
	var (
		p      models.Participant
		userID sql.NullInt64
		teamID sql.NullInt64
	)
	err := s.Scan(&p.ID, &p.TournamentID, &userID, &teamID, &p.DisplayName, &p.IsActive, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	p.UserID = intFromNull(userID)
	p.TeamID = intFromNull(teamID)
	return &p, nil
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`
	p, err := scanParticipant(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, ErrParticipantNotFound) {
		return nil, fmt.Errorf("failed to get participant %d: %w", id, err)
	}
	return p, err
}

func (r *postgresParticipantRepository) queryParticipants(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Participant, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		p, errScan := scanParticipant(rows)
		if errScan != nil {
			return nil, errScan
		}
		participants = append(participants, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE tournament_id = $1 ORDER BY id ASC`
	participants, err := r.queryParticipants(ctx, exec, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for tournament %d: %w", tournamentID, err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) ListByUser(ctx context.Context, exec SQLExecutor, userID int) ([]*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE user_id = $1 ORDER BY id ASC`
	participants, err := r.queryParticipants(ctx, exec, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants of user %d: %w", userID, err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) ListLinked(ctx context.Context, exec SQLExecutor) ([]*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE user_id IS NOT NULL ORDER BY id ASC`
	participants, err := r.queryParticipants(ctx, exec, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list linked participants: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) FindByUserAmong(ctx context.Context, exec SQLExecutor, userID int, participantIDs []int) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants
		WHERE user_id = $1 AND id = ANY($2)
		ORDER BY id ASC
		LIMIT 1`
	ids := make(pq.Int64Array, len(participantIDs))
	for i, id := range participantIDs {
		ids[i] = int64(id)
	}
	p, err := scanParticipant(r.getExecutor(exec).QueryRowContext(ctx, query, userID, ids))
	if err != nil && !errors.Is(err, ErrParticipantNotFound) {
		return nil, fmt.Errorf("failed to find participant of user %d: %w", userID, err)
	}
	return p, err
}
