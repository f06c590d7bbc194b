package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/matchops/cup-console/models"
	"github.com/matchops/cup-console/repositories"
	"github.com/matchops/cup-console/storage"
)

type UploadPhotoInput struct {
	TournamentID string
	UploaderName string
	Caption      *string
	ContentType  string
	Body         io.Reader
}

type PhotoService interface {
	Upload(ctx context.Context, input UploadPhotoInput) (*models.Photo, error)
	List(ctx context.Context, tournamentID string) ([]models.Photo, error)
	Delete(ctx context.Context, id string) error
}

type photoService struct {
	photoRepo repositories.PhotoRepository
	uploader  storage.FileUploader
	logger    *slog.Logger
}

func NewPhotoService(photoRepo repositories.PhotoRepository, uploader storage.FileUploader, logger *slog.Logger) PhotoService {
	return &photoService{photoRepo: photoRepo, uploader: uploader, logger: logger}
}

// Upload stores the image in the bucket first, then records the entry. A
// failed insert leaves an orphan object rather than a dangling row; orphans
// are harmless and can be swept separately.
func (s *photoService) Upload(ctx context.Context, input UploadPhotoInput) (*models.Photo, error) {
	if !strings.HasPrefix(input.ContentType, "image/") {
		return nil, fmt.Errorf("%w: only image uploads are accepted", ErrValidationFailed)
	}
	uploader := strings.TrimSpace(input.UploaderName)
	if uploader == "" {
		return nil, fmt.Errorf("%w: uploader name is required", ErrValidationFailed)
	}

	id := uuid.NewString()
	key := fmt.Sprintf("photos/%s/%s", input.TournamentID, id)
	result, err := s.uploader.Upload(ctx, key, input.ContentType, input.Body)
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}

	photo := &models.Photo{
		ID:           id,
		TournamentID: input.TournamentID,
		UploaderName: uploader,
		Caption:      input.Caption,
		ObjectKey:    result.Key,
	}
	if err := s.photoRepo.Create(ctx, photo); err != nil {
		return nil, err
	}
	photo.URL = result.Location

	s.logger.Info("photo uploaded",
		slog.String("photo_id", photo.ID),
		slog.String("tournament_id", photo.TournamentID),
		slog.String("key", photo.ObjectKey))
	return photo, nil
}

func (s *photoService) List(ctx context.Context, tournamentID string) ([]models.Photo, error) {
	photos, err := s.photoRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if photos == nil {
		photos = []models.Photo{}
	}
	for i := range photos {
		photos[i].URL = s.uploader.GetPublicURL(photos[i].ObjectKey)
	}
	return photos, nil
}

func (s *photoService) Delete(ctx context.Context, id string) error {
	photo, err := s.photoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPhotoNotFound) {
			return fmt.Errorf("%w: photo %s", ErrNotFound, id)
		}
		return err
	}
	if err := s.photoRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.uploader.Delete(ctx, photo.ObjectKey); err != nil {
		// The row is gone; an undeleted object only wastes bucket space.
		s.logger.Error("failed to delete photo object",
			slog.String("key", photo.ObjectKey), slog.Any("error", err))
	}
	return nil
}
