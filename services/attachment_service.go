package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Dosada05/league-engine/repositories"
	"github.com/Dosada05/league-engine/storage"
	"github.com/google/uuid"
)

const MaxAttachmentSize = 5 << 20

var (
	ErrUnsupportedContentType = errors.New("unsupported attachment content type")
	ErrAttachmentTooLarge     = errors.New("attachment is too large")
	ErrUploadsDisabled        = errors.New("attachment uploads are not configured")
)

var attachmentExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// AttachmentService загружает скриншоты результатов в объектное хранилище.
type AttachmentService interface {
	UploadScreenshot(ctx context.Context, userID, matchID int, contentType string, size int64, body io.Reader) (*storage.UploadResult, error)
}

type attachmentService struct {
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	uploader        storage.FileUploader
	newID           func() string
	logger          *slog.Logger
}

func NewAttachmentService(
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) AttachmentService {
	return &attachmentService{
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		uploader:        uploader,
		newID:           func() string { return uuid.NewString() },
		logger:          logger.With(slog.String("service", "attachment")),
	}
}

func (s *attachmentService) UploadScreenshot(ctx context.Context, userID, matchID int, contentType string, size int64, body io.Reader) (*storage.UploadResult, error) {
	ext, ok := attachmentExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	if size > MaxAttachmentSize {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrAttachmentTooLarge, size, MaxAttachmentSize)
	}

	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, handleRepositoryError(err, "load match %d", matchID)
	}
	_, err = s.participantRepo.FindByUserAmong(ctx, nil, userID, []int{match.HomeParticipantID, match.AwayParticipantID})
	if errors.Is(err, repositories.ErrParticipantNotFound) {
		return nil, fmt.Errorf("%w: user %d, match %d", ErrNotMatchParticipant, userID, matchID)
	}
	if err != nil {
		return nil, err
	}
	if match.Status.IsClosed() {
		return nil, fmt.Errorf("%w: match %d is %s", ErrMatchClosed, matchID, match.Status)
	}

	key := AttachmentPrefix(matchID) + s.newID() + ext
	result, err := s.uploader.Upload(ctx, key, contentType, io.LimitReader(body, MaxAttachmentSize))
	if errors.Is(err, storage.ErrUploadsDisabled) {
		return nil, ErrUploadsDisabled
	}
	if err != nil {
		return nil, fmt.Errorf("upload screenshot for match %d: %w", matchID, err)
	}
	s.logger.Info("screenshot uploaded", slog.Int("match_id", matchID), slog.String("key", result.Key))
	return result, nil
}
