package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/veskos/raidbridge/pkg/core/model"
	"github.com/veskos/raidbridge/pkg/store"
)

// SaveMapping stores a discordId -> in-game name mapping. An empty or
// whitespace-only name deletes the mapping instead of storing an empty
// string. Store failures are logged and swallowed.
func SaveMapping(ctx context.Context, st store.MappingStore, logger *zap.Logger, discordID, wowName string) {
	if st == nil {
		return
	}

	trimmed := strings.TrimSpace(wowName)
	if trimmed == "" {
		if err := st.DeleteMapping(ctx, discordID); err != nil {
			logger.Warn("delete mapping failed", zap.String("discord_id", discordID), zap.Error(err))
		}
		return
	}
	if err := st.SaveMapping(ctx, discordID, trimmed); err != nil {
		logger.Warn("save mapping failed", zap.String("discord_id", discordID), zap.Error(err))
	}
}

// ListMappings loads all persisted mappings, returning an empty map on
// any store failure.
func ListMappings(ctx context.Context, st store.MappingStore, logger *zap.Logger) map[string]string {
	if st == nil {
		return map[string]string{}
	}
	mappings, err := st.LoadMappings(ctx)
	if err != nil {
		logger.Warn("load mappings failed", zap.Error(err))
		return map[string]string{}
	}
	return mappings
}

// ApplyMappings fills each signup's in-game character name from the
// persisted mapping table. Signups without a mapping keep their
// Discord display name as the fallback.
func ApplyMappings(ctx context.Context, st store.MappingStore, logger *zap.Logger, event *model.RaidEvent) {
	if st == nil || event == nil {
		return
	}
	mappings, err := st.LoadMappings(ctx)
	if err != nil {
		logger.Warn("load mappings failed", zap.Error(err))
		return
	}
	if len(mappings) == 0 {
		return
	}

	for i := range event.Signups {
		if name, ok := mappings[event.Signups[i].DiscordID]; ok && name != "" {
			event.Signups[i].WowCharacter = name
		}
	}
}
