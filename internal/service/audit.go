package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"bookly/internal/models"
)

// Audit records authentication events. Recording is best-effort: a write
// failure is logged, never surfaced to the request that triggered it.
type Audit struct {
	db *gorm.DB
}

func NewAudit(db *gorm.DB) *Audit {
	return &Audit{db: db}
}

func (s *Audit) Record(ctx context.Context, actorID *uuid.UUID, action, targetType string, targetID *string, metadata map[string]any) {
	entry := models.AuditLog{
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
	}
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err == nil {
			entry.Metadata = datatypes.JSON(raw)
		}
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		log.Error().Err(err).Str("action", action).Msg("audit write failed")
	}
}
