// Package sqlite provides the SQLite-backed store for character
// mappings and saved group templates.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/veskos/raidbridge/pkg/core/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS character_mappings (
	discord_id TEXT PRIMARY KEY,
	wow_name   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS group_templates (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	groups_json TEXT NOT NULL
);
`

// Store persists bridge state in a single SQLite file.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (creating if needed) the store at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("store path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// LoadMappings returns every stored discordId -> name pair.
func (s *Store) LoadMappings(ctx context.Context) (map[string]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT discord_id, wow_name FROM character_mappings`)
	if err != nil {
		return nil, fmt.Errorf("query mappings: %w", err)
	}
	defer rows.Close()

	mappings := make(map[string]string)
	for rows.Next() {
		var discordID, wowName string
		if err := rows.Scan(&discordID, &wowName); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		mappings[discordID] = wowName
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mappings: %w", err)
	}
	return mappings, nil
}

// SaveMapping inserts or replaces one mapping.
func (s *Store) SaveMapping(ctx context.Context, discordID, wowName string) error {
	_, err := s.sqlDB.ExecContext(ctx, `
		INSERT INTO character_mappings (discord_id, wow_name) VALUES (?, ?)
		ON CONFLICT(discord_id) DO UPDATE SET wow_name = excluded.wow_name
	`, discordID, wowName)
	if err != nil {
		return fmt.Errorf("save mapping: %w", err)
	}
	return nil
}

// DeleteMapping removes one mapping; deleting a missing id is a no-op.
func (s *Store) DeleteMapping(ctx context.Context, discordID string) error {
	_, err := s.sqlDB.ExecContext(ctx, `DELETE FROM character_mappings WHERE discord_id = ?`, discordID)
	if err != nil {
		return fmt.Errorf("delete mapping: %w", err)
	}
	return nil
}

// LoadTemplates returns all stored templates ordered by name.
func (s *Store) LoadTemplates(ctx context.Context) ([]model.StoredGroupTemplate, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT name, groups_json FROM group_templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer rows.Close()

	var templates []model.StoredGroupTemplate
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return templates, nil
}

// GetTemplate returns the named template, or nil when absent.
func (s *Store) GetTemplate(ctx context.Context, name string) (*model.StoredGroupTemplate, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT name, groups_json FROM group_templates WHERE name = ?`, name)
	template, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// SaveTemplate inserts or overwrites the template with the same name.
func (s *Store) SaveTemplate(ctx context.Context, template model.StoredGroupTemplate) error {
	groupsJSON, err := json.Marshal(template.Groups)
	if err != nil {
		return fmt.Errorf("marshal template groups: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx, `
		INSERT INTO group_templates (id, name, groups_json) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET groups_json = excluded.groups_json
	`, uuid.New().String(), template.Name, string(groupsJSON))
	if err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}

// DeleteTemplate removes the named template; missing names are a no-op.
func (s *Store) DeleteTemplate(ctx context.Context, name string) error {
	_, err := s.sqlDB.ExecContext(ctx, `DELETE FROM group_templates WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (model.StoredGroupTemplate, error) {
	var template model.StoredGroupTemplate
	var groupsJSON string
	if err := row.Scan(&template.Name, &groupsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return template, err
		}
		return template, fmt.Errorf("scan template: %w", err)
	}
	if err := json.Unmarshal([]byte(groupsJSON), &template.Groups); err != nil {
		return template, fmt.Errorf("unmarshal template groups: %w", err)
	}
	return template, nil
}
