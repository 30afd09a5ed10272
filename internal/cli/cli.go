// Package cli implements the interactors-overlay command line.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/interactors-overlay/internal/database"
	"github.com/interactors-overlay/internal/domain"
	"github.com/interactors-overlay/internal/overlay"
	"github.com/interactors-overlay/internal/repository"
	"github.com/interactors-overlay/internal/service"
	"github.com/interactors-overlay/pkg/resource"
	"github.com/interactors-overlay/pkg/tuple"
)

// ErrUsage is returned for malformed command lines.
var ErrUsage = errors.New("invalid usage")

// CLI dispatches subcommands against one loaded configuration.
type CLI struct {
	cfg    *domain.Config
	logger *logrus.Logger
	out    io.Writer
}

// NewCLI creates a new CLI instance writing results to out.
func NewCLI(cfg *domain.Config, logger *logrus.Logger, out io.Writer) *CLI {
	return &CLI{cfg: cfg, logger: logger, out: out}
}

// Run executes the command named by args[0].
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.showHelp()
	}

	switch args[0] {
	case "parse":
		return c.parse(ctx, args[1:])
	case "overlays":
		return c.overlays(ctx, args[1:])
	case "migrate":
		return c.migrate(args[1:])
	case "resources":
		return c.resources()
	case "help", "--help", "-h":
		return c.showHelp()
	default:
		fmt.Fprintf(c.out, "Unknown command: %s\n\n", args[0])
		_ = c.showHelp()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
}

func (c *CLI) showHelp() error {
	help := `
Interactors Overlay

Usage:
  interactors-overlay <command> [options]

Commands:
  parse <file>               Parse a tuple or PSI-MITAB file and print the summary
  overlays list|get|delete   Inspect stored overlays
  overlays export|import     Move stored overlays as JSON
  migrate up|down|reset      Manage the interactor database schema
  resources                  List the configured resources

Examples:
  # Parse a tab separated overlay and print links for IntAct
  interactors-overlay parse -resource intact overlay.txt

  # Parse PSI-MITAB, keep the result and store it in the database
  interactors-overlay parse -format psimitab -store -persist -resource static interactions.mitab
`
	fmt.Fprintln(c.out, help)
	return nil
}

// ParseResult is the JSON document printed by the parse command.
type ParseResult struct {
	Summary *domain.OverlaySummary     `json:"summary"`
	Links   []service.InteractionLinks `json:"links,omitempty"`
}

func (c *CLI) parse(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.SetOutput(c.out)
	formatName := fs.String("format", c.cfg.Parser.DefaultFormat, "input format: tuple, psimitab or auto")
	resourceName := fs.String("resource", "", "resource used to build links and to store interactions")
	store := fs.Bool("store", false, "keep the parsed overlay in the overlay store")
	persist := fs.Bool("persist", false, "write interactions to the interactor database")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: parse expects exactly one input file", ErrUsage)
	}
	if *persist && *resourceName == "" {
		return fmt.Errorf("%w: -persist requires -resource", ErrUsage)
	}

	lines, err := tuple.ReadFileLines(fs.Arg(0))
	if err != nil {
		return err
	}

	format, err := c.resolveFormat(*formatName, lines)
	if err != nil {
		return err
	}

	opts := []service.IngestOption{service.WithWorkDir(c.cfg.Parser.WorkDir)}
	if *store {
		overlays, err := overlay.NewStore(c.cfg.Overlay)
		if err != nil {
			return fmt.Errorf("opening overlay store: %w", err)
		}
		defer overlays.Close()
		opts = append(opts, service.WithOverlayStore(overlays))
	}
	if *persist {
		db, err := database.NewConnection(ctx, c.cfg.Database, c.logger)
		if err != nil {
			return err
		}
		defer db.Close()
		repo := repository.NewInteractionRepository(db.Pool, c.logger)
		opts = append(opts, service.WithInteractionStore(repo, *resourceName))
	}

	summary, ingestErr := service.NewIngestService(c.logger, opts...).Ingest(ctx, format, lines)
	if summary == nil {
		return ingestErr
	}

	result := ParseResult{Summary: summary}
	if *resourceName != "" && ingestErr == nil {
		catalog, err := resource.FromConfig(c.cfg.Resources)
		if err != nil {
			return err
		}
		links := service.NewLinkService(c.logger, resource.NewResolver(catalog))
		result.Links = links.Links(*resourceName, summary.Interactions)
	}

	if err := c.printJSON(result); err != nil {
		return err
	}
	return ingestErr
}

func (c *CLI) resolveFormat(name string, lines []string) (tuple.Format, error) {
	if name == "" || strings.EqualFold(name, "auto") {
		return tuple.DetectFormat(lines), nil
	}
	return tuple.ParseFormat(name)
}

func (c *CLI) overlays(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: overlays expects list, get, delete, export or import", ErrUsage)
	}

	store, err := overlay.NewStore(c.cfg.Overlay)
	if err != nil {
		return fmt.Errorf("opening overlay store: %w", err)
	}
	defer store.Close()

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		fs.SetOutput(c.out)
		limit := fs.Int("limit", 20, "maximum overlays to list")
		offset := fs.Int("offset", 0, "overlays to skip")
		if err := fs.Parse(args[1:]); err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
		list, err := store.List(ctx, *limit, *offset)
		if err != nil {
			return err
		}
		for _, o := range list {
			fmt.Fprintf(c.out, "%s\t%s\t%d\t%s\n", o.Token, o.Format, o.InteractionCount, o.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil

	case "get":
		if len(args) != 2 {
			return fmt.Errorf("%w: overlays get expects a token", ErrUsage)
		}
		o, err := store.Get(ctx, args[1])
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("overlay %s: %w", args[1], domain.ErrNotFound)
		}
		return c.printJSON(o)

	case "delete":
		if len(args) != 2 {
			return fmt.Errorf("%w: overlays delete expects a token", ErrUsage)
		}
		return store.Delete(ctx, args[1])

	case "export":
		return store.ExportJSON(ctx, c.out)

	case "import":
		if len(args) != 2 {
			return fmt.Errorf("%w: overlays import expects a file", ErrUsage)
		}
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("opening import file: %w", err)
		}
		defer f.Close()
		imported, skipped, err := store.ImportJSON(ctx, f)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Imported %d overlay(s), skipped %d\n", imported, skipped)
		return nil

	default:
		return fmt.Errorf("%w: unknown overlays command %q", ErrUsage, args[0])
	}
}

func (c *CLI) migrate(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: migrate expects up, down, reset or version", ErrUsage)
	}

	runner, err := database.NewMigrationRunner(c.cfg.Database.URL, c.cfg.Migrations.Path, c.logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	switch args[0] {
	case "up":
		return runner.Up()
	case "down":
		return runner.Down()
	case "reset":
		return runner.Reset()
	case "version":
		version, dirty, err := runner.Version()
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "version %d (dirty: %t)\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("%w: unknown migrate command %q", ErrUsage, args[0])
	}
}

func (c *CLI) resources() error {
	catalog, err := resource.FromConfig(c.cfg.Resources)
	if err != nil {
		return err
	}
	for _, name := range catalog.Names() {
		entry, _ := catalog.Lookup(name)
		fmt.Fprintf(c.out, "%s\tinteraction links: %t\tmultivalue: %t\n", entry.Name, entry.HasInteractionURL(), entry.Multivalue)
	}
	return nil
}

func (c *CLI) printJSON(v interface{}) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
