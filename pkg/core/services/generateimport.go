// Package services orchestrates the bridge flow: fetch an event, apply
// persisted name mappings, auto-resolve assignments, and encode the
// import string. Store failures are logged and swallowed so a broken
// local store never blocks a raid export.
package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/veskos/raidbridge/pkg/clients/raidhelper"
	"github.com/veskos/raidbridge/pkg/core/ccresolver"
	"github.com/veskos/raidbridge/pkg/core/codec"
	"github.com/veskos/raidbridge/pkg/core/groupsolver"
	"github.com/veskos/raidbridge/pkg/core/model"
	"github.com/veskos/raidbridge/pkg/store"
)

// EventFetcher fetches one normalized event.
type EventFetcher interface {
	FetchEvent(ctx context.Context, eventID string) (*model.RaidEvent, error)
}

var _ EventFetcher = (*raidhelper.Client)(nil)

// ImportOptions tunes import generation.
type ImportOptions struct {
	// SkipCC leaves CC assignments out of the payload.
	SkipCC bool
	// Templates drives the group solver's template mode. Ignored when
	// any signup carries a position or raidplan hint.
	Templates []model.GroupTemplate
	// StoredTemplateName applies a saved group layout instead of
	// auto-assignment. Unknown names fall back to auto-assignment.
	StoredTemplateName string
	// ShareBaseURL, when set, also produces a share link for the
	// resolved groups.
	ShareBaseURL string
}

// ImportResult is everything the CLI renders after generation.
type ImportResult struct {
	Event        *model.RaidEvent
	Payload      model.ImportPayload
	ImportString string
	Summary      string
	ShareURL     string
}

// GenerateImport runs the full pipeline for one event.
func GenerateImport(
	ctx context.Context,
	fetcher EventFetcher,
	st store.Store,
	logger *zap.Logger,
	eventID string,
	opts ImportOptions,
) (*ImportResult, error) {
	logger.Info("generating import", zap.String("event_id", eventID))

	event, err := fetcher.FetchEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("fetch event: %w", err)
	}

	ApplyMappings(ctx, st, logger, event)

	var ccAssignments []model.CCAssignment
	if !opts.SkipCC {
		ccAssignments = ccresolver.AutoResolveCC(event.Signups)
		logger.Debug("cc resolved", zap.Int("markers", len(ccAssignments)))
	}

	var groups []model.GroupAssignment
	if opts.StoredTemplateName != "" {
		groups, _ = ApplyTemplate(ctx, st, logger, opts.StoredTemplateName, event.Signups)
	}
	if groups == nil {
		groups = groupsolver.AutoAssignGroups(event.Signups, opts.Templates)
	}
	logger.Debug("groups assigned", zap.Int("groups", len(groups)))

	payload := codec.BuildImportPayload(*event, nil, nil, ccAssignments, groups)
	importString, err := codec.GenerateImportString(payload)
	if err != nil {
		return nil, fmt.Errorf("generate import string: %w", err)
	}

	result := &ImportResult{
		Event:        event,
		Payload:      payload,
		ImportString: importString,
		Summary:      codec.GenerateImportSummary(payload),
	}

	if opts.ShareBaseURL != "" {
		shareURL, err := codec.EncodeShareURL(opts.ShareBaseURL, event.EventID, groups, nil)
		if err != nil {
			return nil, fmt.Errorf("encode share url: %w", err)
		}
		result.ShareURL = shareURL
	}

	logger.Info("import generated",
		zap.String("event_id", event.EventID),
		zap.Int("players", len(payload.Players)),
		zap.Int("import_length", len(importString)))

	return result, nil
}
