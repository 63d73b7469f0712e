package services

import (
	"context"
	"errors"

	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// ActorService handles actor use cases
type ActorService struct {
	actors repositories.ActorRepository
	txMgr  repositories.TransactionManager
	logger *zap.Logger
}

// NewActorService creates a new ActorService instance
func NewActorService(actors repositories.ActorRepository, txMgr repositories.TransactionManager, logger *zap.Logger) *ActorService {
	return &ActorService{
		actors: actors,
		txMgr:  txMgr,
		logger: logger,
	}
}

// List returns every actor
func (s *ActorService) List(ctx context.Context) ([]*models.Actor, error) {
	actors, err := s.actors.List(ctx)
	if err != nil {
		return nil, WrapInternal("failed to list actors", err)
	}
	return actors, nil
}

// Create validates and persists a new actor
func (s *ActorService) Create(ctx context.Context, actor *models.Actor) (*models.Actor, error) {
	if err := validate(actor); err != nil {
		return nil, err
	}

	if err := s.actors.Create(ctx, actor); err != nil {
		s.logger.Error("failed to create actor", zap.Error(err))
		return nil, WrapInternal("failed to create actor", err)
	}

	s.logger.Info("actor created", zap.Int64("actor_id", actor.ID))
	return actor, nil
}

// Update applies the supplied fields of patch to the actor identified by id.
// An empty patch returns the stored actor unchanged.
func (s *ActorService) Update(ctx context.Context, id int64, patch models.ActorPatch) (*models.Actor, error) {
	var actor *models.Actor
	err := s.txMgr.InTransaction(ctx, func(ctx context.Context, _ repositories.Transaction) error {
		current, err := s.actors.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrActorNotFound
			}
			return WrapInternal("failed to load actor", err)
		}

		if !patch.Empty() {
			patch.Apply(current)
			if err := validate(current); err != nil {
				return err
			}
			if err := s.actors.Update(ctx, current); err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return ErrActorNotFound
				}
				return WrapInternal("failed to update actor", err)
			}
		}

		actor = current
		return nil
	})
	if err != nil {
		var domainErr *DomainError
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		return nil, WrapInternal("failed to update actor", err)
	}

	s.logger.Info("actor updated", zap.Int64("actor_id", id))
	return actor, nil
}

// Delete removes the actor identified by id. Deleting an unknown actor is
// unprocessable rather than not found.
func (s *ActorService) Delete(ctx context.Context, id int64) error {
	if err := s.actors.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrActorNotDeletable
		}
		return WrapInternal("failed to delete actor", err)
	}

	s.logger.Info("actor deleted", zap.Int64("actor_id", id))
	return nil
}

// validate runs struct validation and maps failures onto a validation DomainError
func validate(v interface{}) error {
	err := utils.ValidateStruct(v)
	if err == nil {
		return nil
	}

	domainErr := NewDomainError(ErrorTypeValidation, "invalid input", err)
	for field, msg := range utils.GetValidationFields(err) {
		domainErr.WithDetail(field, msg)
	}
	return domainErr
}
