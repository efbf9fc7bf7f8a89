package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/urfave/cli/v3"

	"github.com/starford/classlog/internal"
	"github.com/starford/classlog/internal/display"
	"github.com/starford/classlog/internal/parser"
	"github.com/starford/classlog/internal/report"
	"github.com/starford/classlog/internal/search"
	"github.com/starford/classlog/internal/storage"
	"github.com/starford/classlog/internal/validate"
)

// Output files written next to the generated comments and messages.
const (
	commentFile     = "youtube-comment.txt"
	sheetsFile      = "sheets.json"
	sheetHashesFile = "sheet-hashes.json"
)

// withRuntime loads the config and opens the runtime without the index.
// CLI logs go to stderr so they never mix with printed results.
func withRuntime(ctx context.Context, cmd *cli.Command, fn func(*internal.Runtime, *display.Printer) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	rt, err := internal.Open(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(rt, display.Stdout())
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search markers, links, captions, chat and slides of every session",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "sources",
				Aliases: []string{"s"},
				Usage:   "Sources to search: markers, links, captions, chat, slides",
			},
			&cli.BoolFlag{
				Name:    "ignore-case",
				Aliases: []string{"i"},
				Usage:   "Case-insensitive match",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			text := strings.Join(cmd.Args().Slice(), " ")
			if text == "" {
				return errors.New("search: query required")
			}
			sources, err := search.ParseSources(cmd.StringSlice("sources"))
			if err != nil {
				return err
			}
			q := search.Query{Text: text, Sources: sources, CaseInsensitive: cmd.Bool("ignore-case")}
			return withRuntime(ctx, cmd, func(rt *internal.Runtime, p *display.Printer) error {
				results, err := rt.Service.Search(ctx, q)
				if err != nil {
					return err
				}
				p.SearchResults(results, q)
				return nil
			})
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check markers, captions and chat of every session, or the given ones",
		ArgsUsage: "[session...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "phrases",
				Usage: "Use the whole text before Started/Ended as the event subject",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var opts []validate.Option
			if cmd.Bool("phrases") {
				opts = append(opts, validate.WithMatcher(validate.PhraseEvents))
			}
			return withRuntime(ctx, cmd, func(rt *internal.Runtime, p *display.Printer) error {
				var reports []validate.Report
				if ids := cmd.Args().Slice(); len(ids) > 0 {
					for _, id := range ids {
						r, err := rt.Service.Validate(ctx, id, opts...)
						if err != nil {
							return err
						}
						reports = append(reports, r)
					}
				} else {
					var err error
					if reports, err = rt.Service.ValidateAll(ctx, opts...); err != nil {
						return err
					}
				}
				if dirty := p.Reports(reports); dirty > 0 {
					return fmt.Errorf("validate: %d of %d sessions need attention", dirty, len(reports))
				}
				return nil
			})
		},
	}
}

func missingCommand() *cli.Command {
	return &cli.Command{
		Name:  "missing",
		Usage: "List the artifacts each session is missing",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withRuntime(ctx, cmd, func(rt *internal.Runtime, p *display.Printer) error {
				for _, s := range rt.Catalog.Sessions() {
					if missing := validate.Missing(s); len(missing) > 0 {
						p.Line(s.ID + " is missing " + strings.Join(missing, ", "))
					}
				}
				return nil
			})
		},
	}
}

func commentCommand() *cli.Command {
	return &cli.Command{
		Name:      "comment",
		Usage:     "Generate the YouTube timestamp comment of a session",
		ArgsUsage: "<session>",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "offset",
				Usage: "Shift markers by this duration instead of the YouTube link's start time",
			},
			&cli.BoolFlag{
				Name:  "copy",
				Usage: "Copy the comment to the clipboard",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id := cmd.Args().First()
			if id == "" {
				return errors.New("comment: session required")
			}
			var offset *time.Duration
			if cmd.IsSet("offset") {
				d := cmd.Duration("offset")
				offset = &d
			}
			return withRuntime(ctx, cmd, func(rt *internal.Runtime, p *display.Printer) error {
				view, err := rt.Service.Comment(ctx, id, offset)
				if err != nil {
					return err
				}
				if view.Text == "" {
					p.Line("nothing to publish for " + id)
					return nil
				}
				if err := rt.Output.Write(commentFile, []byte(report.CommentFile(view.URL, view.Text))); err != nil {
					return fmt.Errorf("comment: write: %w", err)
				}
				p.Line(view.Text)
				if cmd.Bool("copy") {
					if err := clipboard.WriteAll(view.Text); err != nil {
						return fmt.Errorf("comment: copy: %w", err)
					}
				}
				return nil
			})
		},
	}
}

func commentsCommand() *cli.Command {
	return &cli.Command{
		Name:  "comments",
		Usage: "List YouTube comments that need posting or verifying",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "mark",
				Usage: "Record every pending comment as posted and verified",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withRuntime(ctx, cmd, func(rt *internal.Runtime, p *display.Printer) error {
				state, err := report.LoadHashState(rt.Output)
				if err != nil {
					return err
				}
				pending, err := rt.Service.PendingComments(ctx, state)
				if err != nil {
					p.Error(err.Error())
				}
				for _, c := range pending {
					action := "post"
					if c.JustVerify {
						action = "verify"
					}
					p.Heading(c.Session.Slug())
					p.Line("  " + action + " " + c.CommentID)
					if cmd.Bool("mark") {
						state[c.CommentID] = report.CommentHash{Hash: c.Hash, Verified: true}
					}
				}
				if cmd.Bool("mark") && len(pending) > 0 {
					return state.Save(rt.Output)
				}
				return nil
			})
		},
	}
}

func discordCommand() *cli.Command {
	return &cli.Command{
		Name:      "discord",
		Usage:     "Split a session's markers into Discord messages",
		ArgsUsage: "<session>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id := cmd.Args().First()
			if id == "" {
				return errors.New("discord: session required")
			}
			return withRuntime(ctx, cmd, func(rt *internal.Runtime, p *display.Printer) error {
				msgs, err := rt.Service.Discord(ctx, id)
				if err != nil {
					return err
				}
				names, err := report.WriteDiscordMessages(rt.Output, msgs)
				if err != nil {
					return err
				}
				p.Lines(names)
				return nil
			})
		},
	}
}

func relativeCommand() *cli.Command {
	return &cli.Command{
		Name:      "relative",
		Usage:     "Re-time a markers file from its first marker",
		ArgsUsage: "<source> <destination>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 2 {
				return errors.New("relative: source and destination required")
			}
			src, dst := cmd.Args().Get(0), cmd.Args().Get(1)
			data, err := os.ReadFile(src)
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("relative: source file not found: %s", src)
			}
			if err != nil {
				return err
			}
			markers, err := parser.ParseMarkers(data)
			if err != nil {
				return fmt.Errorf("relative: %s: %w", src, err)
			}
			return os.WriteFile(dst, []byte(strings.Join(report.Relative(markers), "\n")), 0o644)
		},
	}
}

func similarCommand() *cli.Command {
	return &cli.Command{
		Name:      "similar",
		Usage:     "List the first raid or question-of-the-day marker of every session",
		ArgsUsage: "raid|qotd",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withRuntime(ctx, cmd, func(rt *internal.Runtime, p *display.Printer) error {
				rows, err := rt.Service.Similar(ctx, cmd.Args().First())
				for _, r := range rows {
					p.Line(r.Line())
				}
				return err
			})
		},
	}
}

func sheetCommand() *cli.Command {
	return &cli.Command{
		Name:  "sheet",
		Usage: "Render spreadsheet tabs for sessions whose markers changed",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Render every session regardless of recorded hashes",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withRuntime(ctx, cmd, func(rt *internal.Runtime, p *display.Printer) error {
				sheets, loadErr := rt.Service.Sheets(ctx)
				if loadErr != nil {
					p.Error(loadErr.Error())
				}
				if err := writeSheets(rt.Output, p, sheets, cmd.Bool("force")); err != nil {
					return err
				}
				if loadErr != nil {
					return errors.New("sheet: some sessions were skipped")
				}
				return nil
			})
		},
	}
}

// writeSheets writes the worksheets whose hash changed since the last run
// and records their new hashes.
func writeSheets(out storage.Provider, p *display.Printer, sheets []report.Worksheet, force bool) error {
	recorded, err := readJSON[map[string]string](out, sheetHashesFile)
	if err != nil {
		return err
	}
	if recorded == nil {
		recorded = map[string]string{}
	}

	changed := report.ChangedWorksheets(sheets, recorded, force)
	if len(changed) == 0 {
		p.Line("all sheets up to date")
		return nil
	}
	for _, w := range changed {
		recorded[w.Title] = w.Hash
		p.Line(w.Title)
	}
	if err := writeJSON(out, sheetsFile, changed); err != nil {
		return err
	}
	return writeJSON(out, sheetHashesFile, recorded)
}

func readJSON[T any](store storage.Provider, name string) (T, error) {
	var v T
	data, err := store.Read(name)
	if errors.Is(err, fs.ErrNotExist) {
		return v, nil
	}
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

func writeJSON(store storage.Provider, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return store.Write(name, data)
}
