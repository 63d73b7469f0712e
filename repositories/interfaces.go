package repositories

import (
	"context"
	"errors"

	"github.com/upb/casting-agency/models"
)

// ErrNotFound is returned when no row matches the requested id
var ErrNotFound = errors.New("record not found")

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// ActorRepository handles actor data operations
type ActorRepository interface {
	// List returns every actor ordered by id
	List(ctx context.Context) ([]*models.Actor, error)

	// GetByID retrieves an actor by ID
	GetByID(ctx context.Context, id int64) (*models.Actor, error)

	// Create inserts the actor and sets its ID
	Create(ctx context.Context, actor *models.Actor) error

	// Update overwrites all mutable columns of the actor
	Update(ctx context.Context, actor *models.Actor) error

	// Delete deletes an actor
	Delete(ctx context.Context, id int64) error
}

// MovieRepository handles movie data operations
type MovieRepository interface {
	// List returns every movie ordered by id
	List(ctx context.Context) ([]*models.Movie, error)

	// GetByID retrieves a movie by ID
	GetByID(ctx context.Context, id int64) (*models.Movie, error)

	// Create inserts the movie and sets its ID
	Create(ctx context.Context, movie *models.Movie) error

	// Update overwrites all mutable columns of the movie
	Update(ctx context.Context, movie *models.Movie) error

	// Delete deletes a movie
	Delete(ctx context.Context, id int64) error
}

// Repositories bundles every repository built by a factory
type Repositories struct {
	Actors ActorRepository
	Movies MovieRepository
}
