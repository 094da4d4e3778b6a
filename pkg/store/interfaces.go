// Package store defines the persistence interfaces for character-name
// mappings and saved group templates. Implementations are best-effort
// local stores; callers treat failures as non-fatal.
package store

import (
	"context"

	"github.com/veskos/raidbridge/pkg/core/model"
)

// MappingStore persists discordId -> in-game name mappings.
type MappingStore interface {
	LoadMappings(ctx context.Context) (map[string]string, error)
	SaveMapping(ctx context.Context, discordID, wowName string) error
	DeleteMapping(ctx context.Context, discordID string) error
}

// TemplateStore persists group templates keyed by name. SaveTemplate
// overwrites an existing template with the same name.
type TemplateStore interface {
	LoadTemplates(ctx context.Context) ([]model.StoredGroupTemplate, error)
	GetTemplate(ctx context.Context, name string) (*model.StoredGroupTemplate, error)
	SaveTemplate(ctx context.Context, template model.StoredGroupTemplate) error
	DeleteTemplate(ctx context.Context, name string) error
}

// Store combines both persistence concerns; the sqlite implementation
// backs both with one file.
type Store interface {
	MappingStore
	TemplateStore
}
