package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/league-engine/models"
	"github.com/lib/pq"
)

var (
	ErrReportNotFound          = errors.New("match report not found")
	ErrReportPendingConflict   = errors.New("match already has a pending report")
	ErrReportConfirmedConflict = errors.New("match already has a confirmed report")
	ErrReportMatchInvalid      = errors.New("match report match or participant conflict or invalid")
)

const (
	uqPendingReport   = "uq_match_reports_pending"
	uqConfirmedReport = "uq_match_reports_confirmed"
)

type MatchReportRepository interface {
	Create(ctx context.Context, exec SQLExecutor, report *models.MatchReport) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.MatchReport, error)
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.MatchReport, error)
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.MatchReport, error)
	Update(ctx context.Context, exec SQLExecutor, report *models.MatchReport) error
	// MarkObsolete moves reports of a match in the given statuses, except exceptID, to obsolete.
	MarkObsolete(ctx context.Context, exec SQLExecutor, matchID, exceptID int, statuses ...models.ReportStatus) (int64, error)
	// FindPrimary returns the latest pending or confirmed report of a match.
	FindPrimary(ctx context.Context, exec SQLExecutor, matchID int) (*models.MatchReport, error)
	// ListDueForAutoConfirm returns pending reports created at or before cutoff whose match is still reported.
	ListDueForAutoConfirm(ctx context.Context, exec SQLExecutor, cutoff time.Time, limit int) ([]*models.MatchReport, error)
	CountPending(ctx context.Context, exec SQLExecutor, matchID int) (int, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresMatchReportRepository struct {
	db *sql.DB
}

func NewPostgresMatchReportRepository(db *sql.DB) MatchReportRepository {
	return &postgresMatchReportRepository{db: db}
}

func (r *postgresMatchReportRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const reportColumns = `id, match_id, reporter_participant_id, score_home, score_away, ot, so, comment,
	attachments, status, confirmer_participant_id, created_at, updated_at`

func scanReport(s rowScanner) (*models.MatchReport, error) {
	var (
		rep         models.MatchReport
		comment     sql.NullString
		attachments pq.StringArray
		confirmer   sql.NullInt64
	)
	err := s.Scan(
		&rep.ID, &rep.MatchID, &rep.ReporterParticipantID, &rep.ScoreHome, &rep.ScoreAway, &rep.OT, &rep.SO,
		&comment, &attachments, &rep.Status, &confirmer, &rep.CreatedAt, &rep.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	if comment.Valid {
		rep.Comment = &comment.String
	}
	rep.Attachments = []string(attachments)
	if rep.Attachments == nil {
		rep.Attachments = []string{}
	}
	rep.ConfirmerParticipantID = intFromNull(confirmer)
	return &rep, nil
}

func (r *postgresMatchReportRepository) queryReports(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.MatchReport, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]*models.MatchReport, 0)
	for rows.Next() {
		rep, errScan := scanReport(rows)
		if errScan != nil {
			return nil, errScan
		}
		reports = append(reports, rep)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *postgresMatchReportRepository) Create(ctx context.Context, exec SQLExecutor, report *models.MatchReport) error {
	query := `
		INSERT INTO match_reports
			(match_id, reporter_participant_id, score_home, score_away, ot, so, comment, attachments, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	var comment sql.NullString
	if report.Comment != nil {
		comment = sql.NullString{String: *report.Comment, Valid: true}
	}
	if report.Attachments == nil {
		report.Attachments = []string{}
	}
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		report.MatchID, report.ReporterParticipantID, report.ScoreHome, report.ScoreAway, report.OT, report.SO,
		comment, pq.StringArray(report.Attachments), report.Status,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err, uqPendingReport):
			return ErrReportPendingConflict
		case isForeignKeyViolation(err):
			return ErrReportMatchInvalid
		}
		return fmt.Errorf("failed to create report for match %d: %w", report.MatchID, err)
	}
	return nil
}

func (r *postgresMatchReportRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.MatchReport, error) {
	query := `SELECT ` + reportColumns + ` FROM match_reports WHERE id = $1`
	return scanReport(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresMatchReportRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.MatchReport, error) {
	query := `SELECT ` + reportColumns + ` FROM match_reports WHERE id = $1 FOR UPDATE`
	return scanReport(r.getExecutor(exec).QueryRowContext(ctx, query, id))
}

func (r *postgresMatchReportRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.MatchReport, error) {
	query := `SELECT ` + reportColumns + ` FROM match_reports WHERE match_id = $1 ORDER BY created_at DESC, id DESC`
	reports, err := r.queryReports(ctx, exec, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports of match %d: %w", matchID, err)
	}
	return reports, nil
}

func (r *postgresMatchReportRepository) Update(ctx context.Context, exec SQLExecutor, report *models.MatchReport) error {
	query := `
		UPDATE match_reports SET
			score_home = $1, score_away = $2, ot = $3, so = $4, status = $5,
			confirmer_participant_id = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		report.ScoreHome, report.ScoreAway, report.OT, report.SO, report.Status,
		nullableInt(report.ConfirmerParticipantID), report.ID,
	).Scan(&report.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrReportNotFound
		case isUniqueViolation(err, uqPendingReport):
			return ErrReportPendingConflict
		case isUniqueViolation(err, uqConfirmedReport):
			return ErrReportConfirmedConflict
		}
		return fmt.Errorf("failed to update report %d: %w", report.ID, err)
	}
	return nil
}

func (r *postgresMatchReportRepository) MarkObsolete(ctx context.Context, exec SQLExecutor, matchID, exceptID int, statuses ...models.ReportStatus) (int64, error) {
	if len(statuses) == 0 {
		statuses = []models.ReportStatus{models.ReportStatusPending}
	}
	arr := make(pq.StringArray, len(statuses))
	for i, s := range statuses {
		arr[i] = string(s)
	}
	query := `
		UPDATE match_reports SET status = 'obsolete', updated_at = NOW()
		WHERE match_id = $1 AND id <> $2 AND status = ANY($3)`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, matchID, exceptID, arr)
	if err != nil {
		return 0, fmt.Errorf("failed to obsolete reports of match %d: %w", matchID, err)
	}
	return result.RowsAffected()
}

func (r *postgresMatchReportRepository) FindPrimary(ctx context.Context, exec SQLExecutor, matchID int) (*models.MatchReport, error) {
	query := `SELECT ` + reportColumns + ` FROM match_reports
		WHERE match_id = $1 AND status IN ('pending', 'confirmed')
		ORDER BY created_at DESC, id DESC
		LIMIT 1`
	return scanReport(r.getExecutor(exec).QueryRowContext(ctx, query, matchID))
}

func (r *postgresMatchReportRepository) ListDueForAutoConfirm(ctx context.Context, exec SQLExecutor, cutoff time.Time, limit int) ([]*models.MatchReport, error) {
	query := `
		SELECT r.id, r.match_id, r.reporter_participant_id, r.score_home, r.score_away, r.ot, r.so, r.comment,
		       r.attachments, r.status, r.confirmer_participant_id, r.created_at, r.updated_at
		FROM match_reports r
		JOIN matches m ON m.id = r.match_id
		WHERE r.status = 'pending' AND m.status = 'reported' AND r.created_at <= $1
		ORDER BY r.created_at ASC, r.id ASC
		LIMIT $2`
	reports, err := r.queryReports(ctx, exec, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports due for auto-confirm: %w", err)
	}
	return reports, nil
}

func (r *postgresMatchReportRepository) CountPending(ctx context.Context, exec SQLExecutor, matchID int) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM match_reports WHERE match_id = $1 AND status = 'pending'`
	if err := r.getExecutor(exec).QueryRowContext(ctx, query, matchID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pending reports of match %d: %w", matchID, err)
	}
	return n, nil
}

func (r *postgresMatchReportRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM match_reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrReportNotFound)
}
