package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"contagio/internal/app"
	"contagio/internal/config"
	"contagio/internal/db"
	"contagio/internal/domain"
	"contagio/internal/events"
	"contagio/internal/flavor"
	"contagio/internal/migrate"
	"contagio/internal/repo"
	"contagio/internal/savefile"
	"contagio/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "contagio",
	Short: "Contagio Cero campaign tracker",
	Long: `Contagio Cero tracks a zombie-apocalypse board game campaign: missions on a
map of the former United States, the dependency graph that gates them, and
the heroes working through it.
- Missions belong to one of two boards (HEROES or ZOMBIES) and are LOCKED,
  AVAILABLE or COMPLETED.
- Completing a mission unlocks every mission waiting only on completed work,
  transitively. Regressing one re-locks everything downstream.
- Locked missions are hidden from the board entirely (fog of war).
- State persists in the .contagio workspace database; 'save export' and
  'save import' move it through portable JSON files.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("CONTAGIO")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("actor-id", "local", "actor identifier (owns save slots)")
	rootCmd.PersistentFlags().String("save", "", "load state from a save file instead of the workspace database")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("actor-id", rootCmd.PersistentFlags().Lookup("actor-id"))
	_ = viper.BindPFlag("save", rootCmd.PersistentFlags().Lookup("save"))
}

func registerCommands() {
	rootCmd.AddCommand(missionCmd())
	rootCmd.AddCommand(heroCmd())
	rootCmd.AddCommand(modeCmd())
	rootCmd.AddCommand(saveCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(serveCmd())
}

func missionCmd() *cobra.Command {
	m := &cobra.Command{Use: "mission", Short: "Manage missions"}
	m.AddCommand(missionListCmd())
	m.AddCommand(missionShowCmd())
	m.AddCommand(missionAddCmd())
	m.AddCommand(missionGenerateCmd())
	m.AddCommand(missionSetStatusCmd())
	m.AddCommand(missionLinkCmd())
	m.AddCommand(missionMoveCmd())
	m.AddCommand(missionDeleteCmd())
	return m
}

func missionListCmd() *cobra.Command {
	var view string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List missions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, s *app.Session) error {
				var missions []domain.Mission
				s.Do(func() {
					switch view {
					case "visible":
						missions = s.Visible()
					case "assignable":
						missions = s.Assignable()
					default:
						missions = s.Store.Missions()
					}
				})
				if viper.GetBool("json") {
					return printJSON(missions)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Title", "Status", "Mode", "Zone", "Deps"})
				for _, m := range missions {
					tw.AppendRow(table.Row{m.ID, m.Title, m.Status, m.GameMode, m.ZoneID, strings.Join(m.Dependencies, ",")})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&view, "view", "all", "all, visible or assignable")
	return cmd
}

func missionShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <mission-id>",
		Short: "Show a mission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, s *app.Session) error {
				var m domain.Mission
				var ok bool
				s.Do(func() { m, ok = s.Store.Mission(args[0]) })
				if !ok {
					return fmt.Errorf("mission %s not found", args[0])
				}
				return printJSONOrTable(m)
			})
		},
	}
	return cmd
}

func missionAddCmd() *cobra.Command {
	var title, desc, state, mode string
	var zone int
	var deps []string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a mission",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return fmt.Errorf("--title required")
			}
			return withSession(cmd.Context(), func(ctx context.Context, s *app.Session) error {
				m := domain.Mission{
					Title:         title,
					Description:   desc,
					ZoneID:        zone,
					Dependencies:  deps,
					LocationState: state,
					GameMode:      domain.GameMode(mode),
				}
				var err error
				s.Do(func() { m, err = s.Engine.AddMission(ctx, m, viper.GetString("actor-id")) })
				if err != nil {
					return err
				}
				return printJSONOrTable(m)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "mission title")
	cmd.Flags().StringVar(&desc, "description", "", "mission description")
	cmd.Flags().IntVar(&zone, "zone", 0, "boss zone id")
	cmd.Flags().StringSliceVar(&deps, "depends-on", nil, "parent mission ids")
	cmd.Flags().StringVar(&state, "state", "", "US state the mission sits in")
	cmd.Flags().StringVar(&mode, "mode", "HEROES", "game mode (HEROES or ZOMBIES)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func missionGenerateCmd() *cobra.Command {
	var zone int
	var mode string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Add a mission with a generated briefing",
		Long:  "Builds the title, description and starter objectives with the briefing generator (Gemini when CONTAGIO_GEMINI_API_KEY is set, stock text otherwise).",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, s *app.Session) error {
				z, ok := s.Campaign.Zone(zone)
				if !ok {
					return fmt.Errorf("unknown zone %d", zone)
				}
				var existing int
				s.Do(func() {
					for _, m := range s.Store.Missions() {
						if m.ZoneID == z.ID {
							existing++
						}
					}
				})
				gen := flavor.New(os.Getenv("CONTAGIO_GEMINI_API_KEY"), viper.GetString("gemini-model"), nil)
				details := gen.Generate(ctx, z, existing)
				m := domain.Mission{
					Title:       details.Title,
					Description: details.Description,
					ZoneID:      z.ID,
					GameMode:    domain.GameMode(mode),
				}
				for _, text := range details.Objectives {
					m.Objectives = append(m.Objectives, domain.Objective{Text: text})
				}
				var err error
				s.Do(func() { m, err = s.Engine.AddMission(ctx, m, viper.GetString("actor-id")) })
				if err != nil {
					return err
				}
				return printJSONOrTable(m)
			})
		},
	}
	cmd.Flags().IntVar(&zone, "zone", 0, "boss zone id")
	cmd.Flags().StringVar(&mode, "mode", "HEROES", "game mode (HEROES or ZOMBIES)")
	return cmd
}

func missionSetStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-status <mission-id> <LOCKED|AVAILABLE|COMPLETED>",
		Short: "Set mission status and run the cascade",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, s *app.Session) error {
				var m domain.Mission
				var err error
				s.Do(func() {
					m, err = s.Engine.SetStatus(ctx, args[0], domain.MissionStatus(args[1]), viper.GetString("actor-id"))
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(m)
			})
		},
	}
	return cmd
}

func missionLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link <child-id> <parent-id>",
		Short: "Add a dependency edge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, s *app.Session) error {
				var m domain.Mission
				var err error
				s.Do(func() {
					m, err = s.Engine.AddDependency(ctx, args[0], args[1], viper.GetString("actor-id"))
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(m)
			})
		},
	}
	return cmd
}

func missionMoveCmd() *cobra.Command {
	var x, y float64
	cmd := &cobra.Command{
		Use:   "move <mission-id>",
		Short: "Move a mission marker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, s *app.Session) error {
				var m domain.Mission
				var err error
				s.Do(func() {
					m, err = s.Engine.MoveMission(ctx, args[0], domain.Coordinates{X: x, Y: y}, viper.GetString("actor-id"))
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(m)
			})
		},
	}
	cmd.Flags().Float64Var(&x, "x", 0, "x coordinate")
	cmd.Flags().Float64Var(&y, "y", 0, "y coordinate")
	return cmd
}

func missionDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <mission-id>",
		Short: "Delete a mission and clean up references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, s *app.Session) error {
				var err error
				s.Do(func() { err = s.Engine.DeleteMission(ctx, args[0], viper.GetString("actor-id")) })
				return err
			})
		},
	}
	return cmd
}

func heroCmd() *cobra.Command {
	h := &cobra.Command{Use: "hero", Short: "Manage heroes"}
	h.AddCommand(heroListCmd())
	h.AddCommand(heroAddCmd())
	h.AddCommand(heroAssignCmd())
	h.AddCommand(heroDeleteCmd())
	return h
}

func heroListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List heroes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, s *app.Session) error {
				var heroes []domain.Hero
				s.Do(func() { heroes = s.Store.Heroes() })
				if viper.GetBool("json") {
					return printJSON(heroes)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Assigned Mission", "Objectives"})
				for _, h := range heroes {
					assigned := ""
					if h.AssignedMissionID != nil {
						assigned = *h.AssignedMissionID
					}
					tw.AppendRow(table.Row{h.ID, h.Name, assigned, len(h.PersonalObjectives)})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func heroAddCmd() *cobra.Command {
	var name, photo, bio string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a hero",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name required")
			}
			return withSession(cmd.Context(), func(ctx context.Context, s *app.Session) error {
				h := domain.Hero{Name: name, PhotoURL: photo, Bio: bio}
				var err error
				s.Do(func() { h, err = s.Engine.AddHero(ctx, h, viper.GetString("actor-id")) })
				if err != nil {
					return err
				}
				return printJSONOrTable(h)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "hero name")
	cmd.Flags().StringVar(&photo, "photo-url", "", "portrait URL")
	cmd.Flags().StringVar(&bio, "bio", "", "hero bio")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func heroAssignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign <hero-id> [mission-id]",
		Short: "Assign a hero to a mission (omit mission to clear)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, s *app.Session) error {
				var missionID *string
				if len(args) == 2 {
					missionID = &args[1]
				}
				var h domain.Hero
				var err error
				s.Do(func() {
					h, err = s.Engine.AssignHero(ctx, args[0], missionID, viper.GetString("actor-id"))
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(h)
			})
		},
	}
	return cmd
}

func heroDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <hero-id>",
		Short: "Delete a hero",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, s *app.Session) error {
				var err error
				s.Do(func() { err = s.Engine.DeleteHero(ctx, args[0], viper.GetString("actor-id")) })
				return err
			})
		},
	}
	return cmd
}

func modeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mode [HEROES|ZOMBIES]",
		Short: "Show or switch the active game mode",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, s *app.Session) error {
				var err error
				var mode domain.GameMode
				s.Do(func() {
					if len(args) == 1 {
						if err = s.SetMode(domain.GameMode(args[0])); err != nil {
							return
						}
						// Mode lives outside the store, so the autosave hook
						// never fires for it.
						s.Persist(ctx)
					}
					mode = s.Mode()
				})
				if err != nil {
					return err
				}
				fmt.Println(mode)
				return nil
			})
		},
	}
	return cmd
}

func saveCmd() *cobra.Command {
	s := &cobra.Command{Use: "save", Short: "Export, import and slot storage"}
	s.AddCommand(saveExportCmd())
	s.AddCommand(saveImportCmd())
	s.AddCommand(saveSlotsCmd())
	return s
}

func saveExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Export the campaign to a JSON save file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, s *app.Session) error {
				path := out
				if len(args) == 1 {
					path = args[0]
				}
				if path == "" {
					path = savefile.Filename(time.Now())
				}
				var rec savefile.Record
				s.Do(func() { rec = s.Snapshot() })
				if err := rec.WriteFile(path); err != nil {
					return err
				}
				fmt.Println("wrote", path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output path")
	return cmd
}

func saveImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Replace the campaign from a JSON save file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, s *app.Session) error {
				rec, err := savefile.ReadFile(args[0])
				if err != nil {
					return err
				}
				s.Do(func() { s.Load(rec) })
				fmt.Printf("imported %d missions, %d heroes (%s)\n", len(rec.Missions), len(rec.Heroes), rec.GameMode)
				return nil
			})
		},
	}
	return cmd
}

func saveSlotsCmd() *cobra.Command {
	slots := &cobra.Command{Use: "slots", Short: "Named save slots in the workspace database"}

	slots.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List save slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				items, err := r.ListSlots(ctx, viper.GetString("actor-id"))
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Slot", "Mode", "Version", "Updated"})
				for _, s := range items {
					tw.AppendRow(table.Row{s.Name, s.GameMode, s.Version, s.UpdatedAt})
				}
				tw.Render()
				return nil
			})
		},
	})

	slots.AddCommand(&cobra.Command{
		Use:   "store <slot>",
		Short: "Store the campaign in a slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSessionRepo(cmd.Context(), func(ctx context.Context, s *app.Session, r *repo.Repo) error {
				var rec savefile.Record
				s.Do(func() { rec = s.Snapshot() })
				return r.PutSlot(ctx, viper.GetString("actor-id"), args[0], rec)
			})
		},
	})

	slots.AddCommand(&cobra.Command{
		Use:   "load <slot>",
		Short: "Load a slot into the campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSessionRepo(cmd.Context(), func(ctx context.Context, s *app.Session, r *repo.Repo) error {
				rec, err := r.GetSlot(ctx, viper.GetString("actor-id"), args[0])
				if err != nil {
					return err
				}
				s.Do(func() { s.Load(rec) })
				return nil
			})
		},
	})

	slots.AddCommand(&cobra.Command{
		Use:   "delete <slot>",
		Short: "Delete a save slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				return r.DeleteSlot(ctx, viper.GetString("actor-id"), args[0])
			})
		},
	})

	return slots
}

func seedCmd() *cobra.Command {
	var writeConfig bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Reset the campaign to the seed state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if writeConfig {
				path := config.Path(viper.GetString("workspace"))
				if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
					return err
				}
				fmt.Println("wrote", path)
			}
			return withSession(cmd.Context(), func(ctx context.Context, s *app.Session) error {
				s.Do(s.Reset)
				fmt.Println("campaign reset to seed state")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&writeConfig, "write-config", false, "write the built-in campaign.yml to the workspace")
	return cmd
}

func logCmd() *cobra.Command {
	l := &cobra.Command{Use: "log", Short: "Mutation journal"}
	var n int
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Tail recent mutations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepo(cmd.Context(), func(ctx context.Context, r repo.Repo) error {
				items, err := r.ListEvents(ctx, n)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"TS", "Type", "Entity", "Actor", "Payload"})
				for _, e := range items {
					tw.AppendRow(table.Row{e.TS, e.Type, e.EntityID, e.ActorID, e.Payload})
				}
				tw.Render()
				return nil
			})
		},
	}
	tail.Flags().IntVar(&n, "n", 20, "number of events")
	l.AddCommand(tail)
	return l
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("CONTAGIO_JWT_SECRET")
			if secret == "" {
				fmt.Println("warning: CONTAGIO_JWT_SECRET not set; save-slot endpoints will reject all callers")
			}
			return withSessionRepo(cmd.Context(), func(ctx context.Context, s *app.Session, r *repo.Repo) error {
				gen := flavor.New(os.Getenv("CONTAGIO_GEMINI_API_KEY"), viper.GetString("gemini-model"), nil)
				handler, err := server.New(server.Config{
					Session:  s,
					Repo:     r,
					Flavor:   gen,
					Campaign: s.Campaign,
					BasePath: basePath,
					Auth:     server.AuthConfig{JWTSecret: secret},
				})
				if err != nil {
					return err
				}
				srv := &http.Server{Addr: addr, Handler: handler}
				go func() {
					<-ctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					srv.Shutdown(shutdownCtx)
				}()
				fmt.Printf("Serving Contagio Cero API on http://%s%s (OpenAPI at %s/openapi.json, Swagger UI at /docs)\n", addr, basePath, basePath)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/v0", "API base path")
	return cmd
}

// --- helpers ---

func withSession(ctx context.Context, fn func(context.Context, *app.Session) error) error {
	return withSessionRepo(ctx, func(ctx context.Context, s *app.Session, _ *repo.Repo) error {
		return fn(ctx, s)
	})
}

func withSessionRepo(ctx context.Context, fn func(context.Context, *app.Session, *repo.Repo) error) error {
	workspace := viper.GetString("workspace")
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	campaign, err := config.LoadOptional(workspace)
	if err != nil {
		return err
	}
	r := &repo.Repo{DB: conn}
	s, err := app.Bootstrap(ctx, app.Options{
		Campaign: campaign,
		SaveFile: viper.GetString("save"),
		Repo:     r,
		OwnerID:  viper.GetString("actor-id"),
		Events:   &events.Writer{DB: conn},
	})
	if err != nil {
		return err
	}
	return fn(ctx, s, r)
}

func withRepo(ctx context.Context, fn func(context.Context, repo.Repo) error) error {
	workspace := viper.GetString("workspace")
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	return fn(ctx, repo.Repo{DB: conn})
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
