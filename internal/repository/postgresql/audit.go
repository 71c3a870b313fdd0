package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type auditRepositoryImpl struct {
	db database.Pool
}

func NewAuditRepository(db database.Pool) audit.Repository {
	return &auditRepositoryImpl{db: db}
}

// Append implements audit.Repository.
func (r *auditRepositoryImpl) Append(ctx context.Context, event audit.Event) error {
	q := GetQuerier(ctx, r.db)

	if event.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate audit id: %w", err)
		}
		event.ID = id.String()
	}

	var actorID any
	if event.ActorID != "" {
		actorID = event.ActorID
	}

	query := `
		INSERT INTO audit_logs (id, actor_id, action, detail, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := q.Exec(ctx, query,
		event.ID,
		actorID,
		string(event.Action),
		event.Detail,
		nullableText(event.IPAddress),
		event.Timestamp,
	)
	if err != nil {
		return database.Wrap("append audit event", err)
	}

	return nil
}
