package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matchops/cup-console/models"
)

var ErrNewsNotFound = errors.New("news post not found")

type NewsRepository interface {
	Create(ctx context.Context, post *models.NewsPost) error
	GetByID(ctx context.Context, id string) (*models.NewsPost, error)
	Update(ctx context.Context, post *models.NewsPost) error
	ListByTournament(ctx context.Context, tournamentID string, publishedOnly bool) ([]models.NewsPost, error)
	Delete(ctx context.Context, id string) error
}

type postgresNewsRepository struct {
	db *sql.DB
}

func NewPostgresNewsRepository(db *sql.DB) NewsRepository {
	return &postgresNewsRepository{db: db}
}

const newsColumns = `id, tournament_id, title, body, published_at, created_at`

func (r *postgresNewsRepository) Create(ctx context.Context, post *models.NewsPost) error {
	query := `
		INSERT INTO news_posts (id, tournament_id, title, body, published_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		post.ID, post.TournamentID, post.Title, post.Body, post.PublishedAt,
	).Scan(&post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create news post: %w", err)
	}
	return nil
}

func (r *postgresNewsRepository) GetByID(ctx context.Context, id string) (*models.NewsPost, error) {
	query := `SELECT ` + newsColumns + ` FROM news_posts WHERE id = $1`

	var post models.NewsPost
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.TournamentID, &post.Title, &post.Body, &post.PublishedAt, &post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNewsNotFound
		}
		return nil, fmt.Errorf("failed to scan news post by id %s: %w", id, err)
	}
	return &post, nil
}

func (r *postgresNewsRepository) Update(ctx context.Context, post *models.NewsPost) error {
	query := `UPDATE news_posts SET title = $1, body = $2, published_at = $3 WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, post.Title, post.Body, post.PublishedAt, post.ID)
	if err != nil {
		return fmt.Errorf("failed to update news post %s: %w", post.ID, err)
	}
	return checkAffectedRows(result, ErrNewsNotFound)
}

func (r *postgresNewsRepository) ListByTournament(ctx context.Context, tournamentID string, publishedOnly bool) ([]models.NewsPost, error) {
	query := `SELECT ` + newsColumns + ` FROM news_posts WHERE tournament_id = $1`
	if publishedOnly {
		query += ` AND published_at IS NOT NULL`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list news for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	var posts []models.NewsPost
	for rows.Next() {
		var post models.NewsPost
		if err := rows.Scan(&post.ID, &post.TournamentID, &post.Title, &post.Body, &post.PublishedAt, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan news row: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating news rows: %w", err)
	}
	return posts, nil
}

func (r *postgresNewsRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM news_posts WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete news post %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrNewsNotFound)
}
