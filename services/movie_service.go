package services

import (
	"context"
	"errors"

	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"go.uber.org/zap"
)

// MovieService handles movie use cases
type MovieService struct {
	movies repositories.MovieRepository
	txMgr  repositories.TransactionManager
	logger *zap.Logger
}

// NewMovieService creates a new MovieService instance
func NewMovieService(movies repositories.MovieRepository, txMgr repositories.TransactionManager, logger *zap.Logger) *MovieService {
	return &MovieService{
		movies: movies,
		txMgr:  txMgr,
		logger: logger,
	}
}

// List returns every movie
func (s *MovieService) List(ctx context.Context) ([]*models.Movie, error) {
	movies, err := s.movies.List(ctx)
	if err != nil {
		return nil, WrapInternal("failed to list movies", err)
	}
	return movies, nil
}

// Create validates and persists a new movie
func (s *MovieService) Create(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	if err := validate(movie); err != nil {
		return nil, err
	}

	if err := s.movies.Create(ctx, movie); err != nil {
		s.logger.Error("failed to create movie", zap.Error(err))
		return nil, WrapInternal("failed to create movie", err)
	}

	s.logger.Info("movie created", zap.Int64("movie_id", movie.ID))
	return movie, nil
}

// Update applies the supplied fields of patch to the movie identified by id.
// An empty patch returns the stored movie unchanged.
func (s *MovieService) Update(ctx context.Context, id int64, patch models.MoviePatch) (*models.Movie, error) {
	var movie *models.Movie
	err := s.txMgr.InTransaction(ctx, func(ctx context.Context, _ repositories.Transaction) error {
		current, err := s.movies.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrMovieNotFound
			}
			return WrapInternal("failed to load movie", err)
		}

		if !patch.Empty() {
			patch.Apply(current)
			if err := validate(current); err != nil {
				return err
			}
			if err := s.movies.Update(ctx, current); err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return ErrMovieNotFound
				}
				return WrapInternal("failed to update movie", err)
			}
		}

		movie = current
		return nil
	})
	if err != nil {
		var domainErr *DomainError
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		return nil, WrapInternal("failed to update movie", err)
	}

	s.logger.Info("movie updated", zap.Int64("movie_id", id))
	return movie, nil
}

// Delete removes the movie identified by id. Deleting an unknown movie is
// unprocessable rather than not found.
func (s *MovieService) Delete(ctx context.Context, id int64) error {
	if err := s.movies.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMovieNotDeletable
		}
		return WrapInternal("failed to delete movie", err)
	}

	s.logger.Info("movie deleted", zap.Int64("movie_id", id))
	return nil
}
