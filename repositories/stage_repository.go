package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-engine/models"
)

var (
	ErrStageNotFound          = errors.New("stage not found")
	ErrStageTournamentInvalid = errors.New("stage tournament conflict or invalid")
)

type StageRepository interface {
	Create(ctx context.Context, exec SQLExecutor, stage *models.Stage) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Stage, error)
	// GetByIDForUpdate locks the stage row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Stage, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Stage, error)
	ListAll(ctx context.Context, exec SQLExecutor) ([]*models.Stage, error)
	FindPlayoffByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (*models.Stage, error)
	UpdateSettings(ctx context.Context, exec SQLExecutor, stage *models.Stage) error
}

type postgresStageRepository struct {
	db *sql.DB
}

func NewPostgresStageRepository(db *sql.DB) StageRepository {
	return &postgresStageRepository{db: db}
}

func (r *postgresStageRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const stageColumns = `id, tournament_id, name, kind, stage_order, games_per_pair, settings, created_at`

func scanStage(s rowScanner) (*models.Stage, error) {
	var (
		st       models.Stage
		settings []byte
	)
	err := s.Scan(&st.ID, &st.TournamentID, &st.Name, &st.Kind, &st.Order, &st.GamesPerPair, &settings, &st.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}
	st.Settings = settings
	return &st, nil
}

func settingsOrEmpty(stage *models.Stage) []byte {
	if len(stage.Settings) == 0 {
		return []byte("{}")
	}
	return stage.Settings
}

func (r *postgresStageRepository) Create(ctx context.Context, exec SQLExecutor, stage *models.Stage) error {
	query := `
		INSERT INTO stages (tournament_id, name, kind, stage_order, games_per_pair, settings)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		stage.TournamentID, stage.Name, stage.Kind, stage.Order, stage.GamesPerPair, settingsOrEmpty(stage),
	).Scan(&stage.ID, &stage.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrStageTournamentInvalid
		}
		return fmt.Errorf("failed to create stage: %w", err)
	}
	return nil
}

func (r *postgresStageRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages WHERE id = $1`
	return scanStage(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresStageRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages WHERE id = $1 FOR UPDATE`
	return scanStage(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresStageRepository) queryStages(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Stage, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stages := make([]*models.Stage, 0)
	for rows.Next() {
		st, errScan := scanStage(rows)
		if errScan != nil {
			return nil, errScan
		}
		stages = append(stages, st)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return stages, nil
}

func (r *postgresStageRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages WHERE tournament_id = $1 ORDER BY stage_order ASC, id ASC`
	stages, err := r.queryStages(ctx, exec, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages for tournament %d: %w", tournamentID, err)
	}
	return stages, nil
}

func (r *postgresStageRepository) ListAll(ctx context.Context, exec SQLExecutor) ([]*models.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages ORDER BY tournament_id ASC, stage_order ASC, id ASC`
	stages, err := r.queryStages(ctx, exec, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}
	return stages, nil
}

func (r *postgresStageRepository) FindPlayoffByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (*models.Stage, error) {
	query := `SELECT ` + stageColumns + ` FROM stages
		WHERE tournament_id = $1 AND kind = 'playoff'
		ORDER BY stage_order ASC, id ASC
		LIMIT 1`
	return scanStage(r.getExecutor(exec).QueryRowContext(ctx, query, tournamentID))
}

func (r *postgresStageRepository) UpdateSettings(ctx context.Context, exec SQLExecutor, stage *models.Stage) error {
	query := `UPDATE stages SET settings = $1, games_per_pair = $2 WHERE id = $3`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, settingsOrEmpty(stage), stage.GamesPerPair, stage.ID)
	if err != nil {
		return fmt.Errorf("failed to update settings of stage %d: %w", stage.ID, err)
	}
	return checkAffectedRows(result, ErrStageNotFound)
}
