package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matchops/cup-console/models"
	"github.com/matchops/cup-console/repositories"
)

type NewsPostInput struct {
	TournamentID string `json:"tournament_id"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	Publish      bool   `json:"publish"`
}

type NewsService interface {
	Create(ctx context.Context, input NewsPostInput) (*models.NewsPost, error)
	Update(ctx context.Context, id string, input NewsPostInput) (*models.NewsPost, error)
	List(ctx context.Context, tournamentID string, publishedOnly bool) ([]models.NewsPost, error)
	Delete(ctx context.Context, id string) error
}

type newsService struct {
	newsRepo repositories.NewsRepository
	logger   *slog.Logger
}

func NewNewsService(newsRepo repositories.NewsRepository, logger *slog.Logger) NewsService {
	return &newsService{newsRepo: newsRepo, logger: logger}
}

func validateNewsInput(input NewsPostInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidationFailed)
	}
	if strings.TrimSpace(input.Body) == "" {
		return fmt.Errorf("%w: body is required", ErrValidationFailed)
	}
	return nil
}

func (s *newsService) Create(ctx context.Context, input NewsPostInput) (*models.NewsPost, error) {
	if err := validateNewsInput(input); err != nil {
		return nil, err
	}

	post := &models.NewsPost{
		ID:           uuid.NewString(),
		TournamentID: input.TournamentID,
		Title:        strings.TrimSpace(input.Title),
		Body:         input.Body,
	}
	if input.Publish {
		now := time.Now()
		post.PublishedAt = &now
	}
	if err := s.newsRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("news post created",
		slog.String("post_id", post.ID),
		slog.Bool("published", post.PublishedAt != nil))
	return post, nil
}

func (s *newsService) Update(ctx context.Context, id string, input NewsPostInput) (*models.NewsPost, error) {
	if err := validateNewsInput(input); err != nil {
		return nil, err
	}

	post, err := s.newsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return nil, fmt.Errorf("%w: news post %s", ErrNotFound, id)
		}
		return nil, err
	}

	post.Title = strings.TrimSpace(input.Title)
	post.Body = input.Body
	if input.Publish && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}
	if !input.Publish {
		post.PublishedAt = nil
	}
	if err := s.newsRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *newsService) List(ctx context.Context, tournamentID string, publishedOnly bool) ([]models.NewsPost, error) {
	posts, err := s.newsRepo.ListByTournament(ctx, tournamentID, publishedOnly)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.NewsPost{}
	}
	return posts, nil
}

func (s *newsService) Delete(ctx context.Context, id string) error {
	if err := s.newsRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNewsNotFound) {
			return fmt.Errorf("%w: news post %s", ErrNotFound, id)
		}
		return err
	}
	s.logger.Info("news post deleted", slog.String("post_id", id))
	return nil
}
