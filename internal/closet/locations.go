package closet

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/store"
)

// CreateLocation creates a named location for the user.
func (s *Service) CreateLocation(ctx context.Context, userID, name string) (loc *model.Location, err error) {
	defer observe("create_location", &err)
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "name is required")
	}

	loc, err = store.CreateLocation(ctx, s.DB, userID, name, s.now())
	if err != nil {
		return nil, fmt.Errorf("creating location: %w", err)
	}

	slog.Info("location created", "user", userID, "location", loc.ID, "name", name)
	return loc, nil
}

// ListLocations returns the user's locations ordered by name.
func (s *Service) ListLocations(ctx context.Context, userID string) ([]model.Location, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	locations, err := store.ListLocations(ctx, s.DB, userID)
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	return locations, nil
}
