package audit

import "context"

type Repository interface {
	// Append stores a single event. Events are never updated or deleted.
	Append(ctx context.Context, event Event) error
}
