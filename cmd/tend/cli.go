package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tendhq/tend/internal/errors"
	"github.com/tendhq/tend/internal/extract"
	"github.com/tendhq/tend/internal/ops"
	"github.com/tendhq/tend/internal/reconcile"
	"github.com/tendhq/tend/internal/review"
	"github.com/tendhq/tend/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, env *appEnv) *cli.App {
	app := &cli.App{
		Name:    "tend",
		Usage:   "Personal life-management companion",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(db, env),
			extractCmd(db, env),
			taskCmd(db),
			goalCmd(db),
			activityCmd(db),
			areaCmd(db),
			journalCmd(db),
			recallCmd(db, env),
			reviewCmd(db, env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8787, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(web.ServerDeps{
				DB:         db,
				Cfg:        env.cfg,
				Pipeline:   env.pipeline,
				Embedder:   env.embedder,
				Generator:  env.generator,
				ReportsDir: env.reportsDir,
			}, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// extractCmd creates the extract command.
func extractCmd(db *sql.DB, env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "Extract activities, tasks, and goals from a note (reads the note from stdin)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "save", Aliases: []string{"s"}, Usage: "Also store the note as a journal entry"},
			&cli.StringFlag{Name: "mood", Aliases: []string{"m"}, Usage: "One-word mood for the saved entry"},
			&cli.BoolFlag{Name: "commit", Usage: "Persist every extracted item as a record"},
			&cli.BoolFlag{Name: "heuristic", Usage: "Skip the remote model and use the heuristic extractor"},
		},
		Action: func(c *cli.Context) error {
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("note must be piped via stdin"))
			}
			note, err := readStdin()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			if note == "" {
				return outputError(errors.NewInvalidRequest("note is required"))
			}

			input := ops.ExtractNoteInput{
				Note:      note,
				SaveEntry: c.Bool("save"),
			}
			if mood := c.String("mood"); mood != "" {
				input.Mood = &mood
			}

			pipeline := env.pipeline
			if c.Bool("heuristic") {
				pipeline = extract.NewPipeline(nil, env.cfg.MaxExtractItems)
			}

			output, err := ops.ExtractNote(c.Context, db, pipeline, input)
			if err != nil {
				return outputError(err)
			}

			if !c.Bool("commit") {
				return outputJSON(output)
			}

			committed, err := commitAll(c, db, output)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(struct {
				Result       any      `json:"result"`
				EntryID      *string  `json:"entry_id,omitempty"`
				CommittedIDs []string `json:"committed_ids"`
			}{output.Result, output.EntryID, committed})
		},
	}
}

// commitAll runs a reconciliation session accepting every candidate as-is.
func commitAll(c *cli.Context, db *sql.DB, output *ops.ExtractNoteOutput) ([]string, error) {
	session := reconcile.NewSession(&ops.RecordCommitter{DB: db}, output.EntryID)
	if err := session.Submit(output.Result); err != nil {
		if err == reconcile.ErrNothingExtracted {
			return []string{}, nil
		}
		return nil, err
	}
	if err := session.Continue(); err != nil {
		return nil, err
	}
	for session.State() != reconcile.StateDone {
		if err := session.Commit(c.Context); err != nil {
			return nil, err
		}
	}
	return session.CommittedIDs(), nil
}

// taskCmd creates the task command group.
func taskCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "task",
		Usage: "Manage tasks",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Store a new task",
				ArgsUsage: "<title>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Task description"},
					&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Value: "backlog", Usage: "Task status: backlog|scheduled|today|inprogress|blocked|done"},
					&cli.StringFlag{Name: "area", Usage: "Life-area ID"},
				},
				Action: func(c *cli.Context) error {
					input := ops.StoreTaskInput{
						Title:       strings.Join(c.Args().Slice(), " "),
						Description: optString(c.String("description")),
						Status:      c.String("status"),
						AreaID:      optString(c.String("area")),
					}
					output, err := ops.StoreTask(c.Context, db, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List tasks",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "Filter by status"},
					&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
					&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.ListTasks(c.Context, db, ops.ListTasksInput{
						Status: optString(c.String("status")),
						Limit:  c.Int("limit"),
						Offset: c.Int("offset"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "status",
				Usage:     "Move a task to a new status",
				ArgsUsage: "<id> <status>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						return outputError(errors.NewInvalidRequest("usage: task status <id> <status>"))
					}
					output, err := ops.UpdateTaskStatus(c.Context, db, ops.UpdateTaskStatusInput{
						ID:     c.Args().Get(0),
						Status: c.Args().Get(1),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "done",
				Usage:     "Mark a task as done",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return outputError(errors.NewInvalidRequest("usage: task done <id>"))
					}
					output, err := ops.UpdateTaskStatus(c.Context, db, ops.UpdateTaskStatusInput{
						ID:     c.Args().First(),
						Status: "done",
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a task permanently",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return outputError(errors.NewInvalidRequest("usage: task delete <id>"))
					}
					id := c.Args().First()
					if err := ops.DeleteTask(c.Context, db, ops.DeleteTaskInput{ID: id}); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"deleted": true, "id": id})
				},
			},
		},
	}
}

// goalCmd creates the goal command group.
func goalCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "goal",
		Usage: "Manage goals",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Store a new goal",
				ArgsUsage: "<title>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Goal description"},
					&cli.StringFlag{Name: "area", Usage: "Life-area ID"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.StoreGoal(c.Context, db, ops.StoreGoalInput{
						Title:       strings.Join(c.Args().Slice(), " "),
						Description: optString(c.String("description")),
						AreaID:      optString(c.String("area")),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List goals",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "Include inactive goals"},
					&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
					&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.ListGoals(c.Context, db, ops.ListGoalsInput{
						ActiveOnly: !c.Bool("all"),
						Limit:      c.Int("limit"),
						Offset:     c.Int("offset"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// activityCmd creates the activity command group.
func activityCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "activity",
		Usage: "Track activities",
		Subcommands: []*cli.Command{
			{
				Name:      "log",
				Usage:     "Log an activity",
				ArgsUsage: "<title>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "minutes", Aliases: []string{"m"}, Usage: "Duration in minutes"},
					&cli.StringFlag{Name: "notes", Aliases: []string{"n"}, Usage: "Freeform notes"},
					&cli.StringFlag{Name: "energy", Aliases: []string{"e"}, Usage: "Energy hint: high|medium|low"},
					&cli.StringFlag{Name: "area", Usage: "Life-area ID"},
				},
				Action: func(c *cli.Context) error {
					input := ops.LogActivityInput{
						Title:  strings.Join(c.Args().Slice(), " "),
						Notes:  optString(c.String("notes")),
						Energy: optString(c.String("energy")),
						AreaID: optString(c.String("area")),
					}
					if c.IsSet("minutes") {
						minutes := c.Int("minutes")
						input.DurationMinutes = &minutes
					}
					output, err := ops.LogActivity(c.Context, db, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List activities",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "since-days", Usage: "Only activities from the last N days"},
					&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
					&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
				},
				Action: func(c *cli.Context) error {
					input := ops.ListActivitiesInput{
						Limit:  c.Int("limit"),
						Offset: c.Int("offset"),
					}
					if days := c.Int("since-days"); days > 0 {
						since := time.Now().AddDate(0, 0, -days).Unix()
						input.Since = &since
					}
					output, err := ops.ListActivities(c.Context, db, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// areaCmd creates the area command group.
func areaCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "area",
		Usage: "Manage life areas",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Create a life area",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					output, err := ops.StoreArea(c.Context, db, ops.StoreAreaInput{
						Name: strings.Join(c.Args().Slice(), " "),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List life areas",
				Action: func(c *cli.Context) error {
					output, err := ops.ListAreas(c.Context, db)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// journalCmd creates the journal command group.
func journalCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "journal",
		Usage: "Manage journal entries",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Store a journal entry (reads the text from stdin)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mood", Aliases: []string{"m"}, Usage: "One-word mood"},
				},
				Action: func(c *cli.Context) error {
					if !stdinHasData() {
						return outputError(errors.NewInvalidRequest("entry text must be piped via stdin"))
					}
					text, err := readStdin()
					if err != nil {
						return outputError(errors.NewInternal(err))
					}
					output, err := ops.AddEntry(c.Context, db, ops.AddEntryInput{
						Text: text,
						Mood: optString(c.String("mood")),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List journal entries",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
					&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.ListEntries(c.Context, db, ops.ListEntriesInput{
						Limit:  c.Int("limit"),
						Offset: c.Int("offset"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// recallCmd creates the recall command.
func recallCmd(db *sql.DB, env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "recall",
		Usage:     "Recall stored memories most similar to a query",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "top", Aliases: []string{"k"}, Usage: "Number of matches to return"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.RecallMemories(c.Context, db, env.embedder, ops.RecallMemoriesInput{
				Query: strings.Join(c.Args().Slice(), " "),
				TopK:  c.Int("top"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// reviewCmd creates the review command.
func reviewCmd(db *sql.DB, env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "review",
		Usage: "Build a periodic review report",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "days", Aliases: []string{"d"}, Usage: "Review window in days"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "markdown", Usage: "Report format: markdown|html"},
			&cli.BoolFlag{Name: "export", Aliases: []string{"e"}, Usage: "Also write the report under the reports directory"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.BuildReview(c.Context, db, env.cfg, ops.BuildReviewInput{
				WindowDays: c.Int("days"),
				Format:     review.Format(c.String("format")),
				Export:     c.Bool("export"),
				ReportsDir: env.reportsDir,
			})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("export") {
				fmt.Fprintf(os.Stderr, "report written to %s\n", output.Path)
			}
			fmt.Print(output.Content)
			return nil
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if tendErr, ok := errors.AsTendError(err); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", tendErr.Code, tendErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// optString returns a pointer to s, or nil if s is empty.
func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
