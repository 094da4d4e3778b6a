package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/veskos/raidbridge/pkg/core/groupsolver"
	"github.com/veskos/raidbridge/pkg/core/model"
	"github.com/veskos/raidbridge/pkg/store"
)

// SaveTemplateFromGroups persists the given group layout under name,
// overwriting any existing template with that name. Failures are
// logged and swallowed.
func SaveTemplateFromGroups(ctx context.Context, st store.TemplateStore, logger *zap.Logger, name string, groups []model.GroupAssignment) {
	if st == nil {
		return
	}

	template := model.StoredGroupTemplate{Name: name}
	for _, group := range groups {
		template.Groups = append(template.Groups, model.StoredGroup{
			Label:   group.Label,
			Players: append([]string(nil), group.Players...),
		})
	}

	if err := st.SaveTemplate(ctx, template); err != nil {
		logger.Warn("save template failed", zap.String("name", name), zap.Error(err))
		return
	}
	logger.Info("template saved", zap.String("name", name), zap.Int("groups", len(template.Groups)))
}

// DeleteTemplate removes the named template. Failures are logged and
// swallowed; deleting a missing template is a no-op.
func DeleteTemplate(ctx context.Context, st store.TemplateStore, logger *zap.Logger, name string) {
	if st == nil {
		return
	}
	if err := st.DeleteTemplate(ctx, name); err != nil {
		logger.Warn("delete template failed", zap.String("name", name), zap.Error(err))
	}
}

// ListTemplates loads all stored templates, returning nil on failure.
func ListTemplates(ctx context.Context, st store.TemplateStore, logger *zap.Logger) []model.StoredGroupTemplate {
	if st == nil {
		return nil
	}
	templates, err := st.LoadTemplates(ctx)
	if err != nil {
		logger.Warn("load templates failed", zap.Error(err))
		return nil
	}
	return templates
}

// ApplyTemplate materializes a saved layout against the roster. The
// second return is false when the template is missing or the store
// fails; callers then fall back to auto-assignment.
func ApplyTemplate(ctx context.Context, st store.TemplateStore, logger *zap.Logger, name string, roster []model.RaidSignup) ([]model.GroupAssignment, bool) {
	if st == nil {
		return nil, false
	}
	template, err := st.GetTemplate(ctx, name)
	if err != nil {
		logger.Warn("load template failed", zap.String("name", name), zap.Error(err))
		return nil, false
	}
	if template == nil {
		logger.Warn("template not found", zap.String("name", name))
		return nil, false
	}
	return groupsolver.ApplyStoredTemplate(*template, roster), true
}
