package services

import (
	"context"

	"github.com/desertthunder/rutinas/internal/models"
)

// RoutineGateway is a typed wrapper around the routines REST operations.
//
// Each call is exactly one round trip: no retries, no caching, no state.
// Failures are [*shared.TransportError], [*shared.ValidationError] or [*shared.NotFoundError].
type RoutineGateway interface {
	// List returns one page of routines matching the query filters.
	List(ctx context.Context, q models.ListQuery) (*models.RoutinePage, error)

	// Search returns every routine whose name contains name, optionally restricted to a day.
	Search(ctx context.Context, name string, day models.Weekday) ([]models.Routine, error)

	// Get retrieves one routine with its exercises.
	Get(ctx context.Context, id int) (*models.Routine, error)

	// Create persists a new routine and returns it with server-assigned ids.
	Create(ctx context.Context, payload models.RoutinePayload) (*models.Routine, error)

	// Update replaces the routine's fields and exercise set.
	Update(ctx context.Context, id int, payload models.RoutinePayload) (*models.Routine, error)

	// Delete removes a routine and its exercises.
	Delete(ctx context.Context, id int) error

	// Duplicate asks the backend to copy a routine and returns the new entity.
	Duplicate(ctx context.Context, id int) (*models.Routine, error)

	// Export downloads every routine rendered in the given format.
	Export(ctx context.Context, format models.ExportFormat) (*models.ExportFile, error)

	// Stats returns the server-computed aggregate statistics.
	Stats(ctx context.Context) (*models.Stats, error)
}
