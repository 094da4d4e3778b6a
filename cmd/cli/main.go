package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/veskos/raidbridge/internal/config"
	"github.com/veskos/raidbridge/pkg/clients/raidhelper"
	"github.com/veskos/raidbridge/pkg/core/ccresolver"
	"github.com/veskos/raidbridge/pkg/core/codec"
	"github.com/veskos/raidbridge/pkg/core/groupbuffs"
	"github.com/veskos/raidbridge/pkg/core/groupsolver"
	"github.com/veskos/raidbridge/pkg/core/model"
	"github.com/veskos/raidbridge/pkg/core/services"
	"github.com/veskos/raidbridge/pkg/server"
	"github.com/veskos/raidbridge/pkg/store"
	"github.com/veskos/raidbridge/pkg/store/sqlite"
	"github.com/veskos/raidbridge/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg    *config.Config
	client *raidhelper.Client
	store  store.Store
	logger *zap.Logger
	ctx    context.Context
}

var (
	configPath string
	verbose    bool
	app        *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "raidbridge",
		Short: "Bridge Raid-Helper events to WoW addon import strings",
		Long: `A CLI tool that fetches Raid-Helper signups, auto-assigns CC duties
and raid groups, and encodes the result as an addon import string.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if closer, ok := app.store.(*sqlite.Store); ok {
					closer.Close()
				}
				if app.logger != nil {
					app.logger.Sync()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: raidbridge.yaml in cwd or home)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose console logging")

	rootCmd.AddCommand(fetchEventCmd())
	rootCmd.AddCommand(generateImportCmd())
	rootCmd.AddCommand(groupBuffsCmd())
	rootCmd.AddCommand(parseImportCmd())
	rootCmd.AddCommand(decodeShareCmd())
	rootCmd.AddCommand(saveMappingCmd())
	rootCmd.AddCommand(listMappingsCmd())
	rootCmd.AddCommand(saveTemplateCmd())
	rootCmd.AddCommand(listTemplatesCmd())
	rootCmd.AddCommand(deleteTemplateCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, the API client, and the local store
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	app.logger, err = logging.InitLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if configPath != "" {
		app.cfg, err = config.LoadFromPath(configPath)
	} else {
		app.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("configuration loaded", zap.String("api_base_url", app.cfg.APIBaseURL))

	app.client = raidhelper.NewClient(app.cfg.APIBaseURL, app.logger)

	// The store is best-effort: a broken local file must not block
	// event fetching or import generation.
	st, err := sqlite.Open(app.cfg.StorePath)
	if err != nil {
		app.logger.Warn("local store unavailable, persistence disabled",
			zap.String("path", app.cfg.StorePath), zap.Error(err))
	} else {
		app.store = st
	}

	return nil
}

// Command definitions

func fetchEventCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetchEvent <event_id>",
		Short: "Fetch an event and print its normalized roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			event, err := app.client.FetchEvent(app.ctx, args[0])
			if err != nil {
				return err
			}
			services.ApplyMappings(app.ctx, app.store, app.logger, event)

			fmt.Printf("\n%s (%s)\n", event.Title, event.StartTime.Format("2006-01-02 15:04 MST"))
			fmt.Printf("%d signups:\n\n", len(event.Signups))
			for _, signup := range event.Signups {
				spec := signup.Spec
				if spec == "" {
					spec = "-"
				}
				fmt.Printf("  %-20s %-8s %-7s %s\n", signup.PlayerName(), signup.Class, signup.Role, spec)
			}

			ccTypes := ccresolver.AvailableCCTypes(event.Signups)
			if len(ccTypes) > 0 {
				labels := make([]string, 0, len(ccTypes))
				for _, cc := range ccTypes {
					labels = append(labels, ccresolver.Labels[cc])
				}
				fmt.Printf("\nAvailable CC: %s\n", strings.Join(labels, ", "))
			}

			return nil
		},
	}
}

func generateImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generateImport <event_id>",
		Short: "Generate the addon import string for an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skipCC, _ := cmd.Flags().GetBool("skip-cc")
			preset, _ := cmd.Flags().GetString("preset")
			templateName, _ := cmd.Flags().GetString("template")
			share, _ := cmd.Flags().GetBool("share")

			opts := services.ImportOptions{
				SkipCC:             skipCC,
				StoredTemplateName: templateName,
			}
			if preset != "" {
				templates := groupsolver.PresetByName(preset)
				if templates == nil {
					return fmt.Errorf("unknown preset %q", preset)
				}
				opts.Templates = templates
			}
			if share {
				opts.ShareBaseURL = app.cfg.ShareBaseURL
			}

			result, err := services.GenerateImport(app.ctx, app.client, app.store, app.logger, args[0], opts)
			if err != nil {
				return err
			}

			fmt.Printf("\n%s\n\n", result.Summary)
			fmt.Printf("Import string (%d chars):\n%s\n", len(result.ImportString), result.ImportString)
			if result.ShareURL != "" {
				fmt.Printf("\nShare URL:\n%s\n", result.ShareURL)
			}

			return nil
		},
	}

	cmd.Flags().Bool("skip-cc", false, "Leave CC assignments out of the payload")
	cmd.Flags().String("preset", "", `Built-in group preset ("10-player" or "25-player")`)
	cmd.Flags().String("template", "", "Apply a saved group template by name")
	cmd.Flags().Bool("share", false, "Also print a share URL for the group layout")

	return cmd
}

func groupBuffsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groupBuffs <event_id>",
		Short: "Show per-group buff coverage for an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preset, _ := cmd.Flags().GetString("preset")

			event, err := app.client.FetchEvent(app.ctx, args[0])
			if err != nil {
				return err
			}
			services.ApplyMappings(app.ctx, app.store, app.logger, event)

			var templates []model.GroupTemplate
			if preset != "" {
				if templates = groupsolver.PresetByName(preset); templates == nil {
					return fmt.Errorf("unknown preset %q", preset)
				}
			}
			groups := groupsolver.AutoAssignGroups(event.Signups, templates)

			for _, group := range groups {
				fmt.Printf("\nGroup %d (%s): %s\n", group.GroupNumber, group.Label, strings.Join(group.Players, ", "))
				missing := 0
				for _, status := range groupbuffs.Resolve(group.Players, event.Signups, nil) {
					if !status.Active {
						missing++
						continue
					}
					fmt.Printf("  [x] %-22s %s\n", status.Buff.Name, status.Provider)
				}
				fmt.Printf("  %d buffs uncovered\n", missing)
			}
			return nil
		},
	}

	cmd.Flags().String("preset", "", `Built-in group preset ("10-player" or "25-player")`)
	return cmd
}

func parseImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parseImport <import_string>",
		Short: "Decode an import string and print its summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := codec.ParseImportString(args[0])
			if err != nil {
				return fmt.Errorf("invalid import string: %w", err)
			}
			fmt.Printf("\n%s\n", codec.GenerateImportSummary(*payload))
			return nil
		},
	}
}

func decodeShareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decodeShare <url_or_fragment>",
		Short: "Decode a share URL fragment and print its groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if idx := strings.Index(input, "#"); idx > 0 {
				input = input[idx:]
			}
			payload, err := codec.DecodeShareHash(input)
			if err != nil {
				return fmt.Errorf("invalid share link: %w", err)
			}

			fmt.Printf("\nEvent %s, %d groups:\n\n", payload.EventID, len(payload.Groups))
			for i, group := range payload.Groups {
				players := "(empty)"
				if len(group.Players) > 0 {
					players = strings.Join(group.Players, ", ")
				}
				fmt.Printf("  Group %d (%s): %s\n", i+1, group.Label, players)
			}
			if len(payload.BuffOverrides) > 0 {
				fmt.Printf("\n%d buff overrides\n", len(payload.BuffOverrides))
			}
			return nil
		},
	}
}

func saveMappingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "saveMapping <discord_id> [wow_name]",
		Short: "Map a Discord user to an in-game name (omit name to delete)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 1 {
				name = args[1]
			}
			services.SaveMapping(app.ctx, app.store, app.logger, args[0], name)
			return nil
		},
	}
}

func listMappingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listMappings",
		Short: "List stored Discord-to-character mappings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mappings := services.ListMappings(app.ctx, app.store, app.logger)
			if len(mappings) == 0 {
				fmt.Println("No mappings stored.")
				return nil
			}

			ids := make([]string, 0, len(mappings))
			for id := range mappings {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			fmt.Printf("\n%d mappings:\n\n", len(mappings))
			for _, id := range ids {
				fmt.Printf("  %-24s -> %s\n", id, mappings[id])
			}
			return nil
		},
	}
}

func saveTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "saveTemplate <name> <event_id>",
		Short: "Save the event's auto-assigned groups as a named template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			event, err := app.client.FetchEvent(app.ctx, args[1])
			if err != nil {
				return err
			}
			services.ApplyMappings(app.ctx, app.store, app.logger, event)
			groups := groupsolver.AutoAssignGroups(event.Signups, nil)
			services.SaveTemplateFromGroups(app.ctx, app.store, app.logger, args[0], groups)
			return nil
		},
	}
}

func listTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listTemplates",
		Short: "List saved group templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			templates := services.ListTemplates(app.ctx, app.store, app.logger)
			if len(templates) == 0 {
				fmt.Println("No templates stored.")
				return nil
			}
			for _, template := range templates {
				fmt.Printf("  %s (%d groups)\n", template.Name, len(template.Groups))
			}
			return nil
		},
	}
}

func deleteTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deleteTemplate <name>",
		Short: "Delete a saved group template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services.DeleteTemplate(app.ctx, app.store, app.logger, args[0])
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the rate-limited event proxy server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limiter := server.NewRateLimiter(
				time.Duration(app.cfg.RateLimitWindowSeconds)*time.Second,
				app.cfg.RateLimitMax,
			)
			srv := server.New(app.client, limiter, app.logger)

			app.logger.Info("proxy listening", zap.String("addr", app.cfg.ListenAddr))
			return http.ListenAndServe(app.cfg.ListenAddr, srv.Handler())
		},
	}
}
