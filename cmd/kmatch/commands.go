package main

/******************************************************************************

commands.go contains the two kmatch subcommands. Flags are defined on
each *cli.Command (teacher style, see poly/main.go), and the work itself
lives in matchAction/indexAction, called from each command's Action
closure, so it stays easy to exercise with a spoofed cli.App.Writer/Reader,
per poly/commands_test.go.

******************************************************************************/

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/pkg/profile"
	"github.com/urfave/cli/v2"

	"github.com/bebop/kmatch/bio/fasta"
	"github.com/bebop/kmatch/bio/fastq"
	kmatchconfig "github.com/bebop/kmatch/internal/config"
	"github.com/bebop/kmatch/internal/fmindex"
	"github.com/bebop/kmatch/internal/klcp"
	"github.com/bebop/kmatch/internal/kmatcherr"
	"github.com/bebop/kmatch/internal/stream"
)

func matchCommand() *cli.Command {
	return &cli.Command{
		Name:      "match",
		Usage:     "stream reads against an FM-index, reporting per-k-mer reference sets",
		ArgsUsage: "<index-prefix> <reads-file>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "k", Usage: "k-mer length (required when -u is set)"},
			&cli.BoolFlag{Name: "u", Usage: "enable kLCP-based rolling extension"},
			&cli.BoolFlag{Name: "v", Usage: "enable reference-set output per window"},
			&cli.BoolFlag{Name: "s", Usage: "enable skip-after-fail heuristic"},
			&cli.StringFlag{Name: "f", Usage: "redirect stdout to this file, or '-' for stdout"},
			&cli.StringFlag{Name: "format", Value: "text", Usage: "read input format: text or binary"},
			&cli.StringFlag{Name: "end", Value: "single", Usage: "mate filter for binary/paired input: single, first, second"},
			&cli.IntFlag{Name: "batch", Value: 1 << 18, Usage: "batch size"},
			&cli.StringFlag{Name: "config", Usage: "optional JSON-with-comments config file"},
			&cli.BoolFlag{Name: "profile", Usage: "capture a CPU profile via github.com/pkg/profile"},
		},
		Action: func(c *cli.Context) error {
			return matchAction(c)
		},
	}
}

func indexCommand() *cli.Command {
	return &cli.Command{
		Name:      "index",
		Usage:     "build the kLCP bitvector for a fixed k against an existing FM-index",
		ArgsUsage: "<index-prefix>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "k", Required: true, Usage: "k-mer length to build the kLCP bitvector for"},
		},
		Action: func(c *cli.Context) error {
			return indexAction(c)
		},
	}
}

func matchAction(c *cli.Context) error {
	if c.Args().Len() < 2 {
		return cli.Exit(fmt.Errorf("%w: usage: kmatch match [options] <index-prefix> <reads-file>", kmatcherr.ErrInvalidArgs), 1)
	}
	prefix := c.Args().Get(0)
	readsPath := c.Args().Get(1)

	overrides := kmatchconfig.Config{
		KLen:          c.Int("k"),
		UseKLCP:       c.Bool("u"),
		EmitRefSets:   c.Bool("v"),
		SkipAfterFail: c.Bool("s"),
		OutputFile:    c.String("f"),
		Format:        c.String("format"),
		End:           c.String("end"),
		BatchSize:     c.Int("batch"),
		Profile:       c.Bool("profile"),
	}
	set := map[string]bool{}
	for _, name := range []string{"k", "u", "v", "s", "f", "format", "end", "batch", "profile"} {
		if c.IsSet(name) {
			set[flagToConfigKey(name)] = true
		}
	}

	cfg, err := kmatchconfig.Load(c.String("config"), overrides, set)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if cfg.Profile {
		p := profile.Start(profile.ProfilePath("."))
		defer p.Stop()
	}

	ix, err := fmindex.Load(prefix)
	if err != nil {
		return cli.Exit(fmt.Errorf("%w: %v", kmatcherr.ErrIndexLoad, err), 1)
	}

	var kl *klcp.KLCP
	if cfg.UseKLCP {
		kl, err = klcp.Load(fmt.Sprintf("%s.%d.bit.klcp", prefix, cfg.KLen), cfg.KLen, ix.Len())
		if err != nil {
			return cli.Exit(err, 1)
		}
	}

	out, closeOut, err := openOutput(c, cfg.OutputFile)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer closeOut()

	readsFile, err := os.Open(readsPath)
	if err != nil {
		return cli.Exit(fmt.Errorf("%w: opening %s: %v", kmatcherr.ErrInvalidArgs, readsPath, err), 1)
	}
	defer readsFile.Close()

	src, err := buildSource(cfg, readsPath, readsFile)
	if err != nil {
		return cli.Exit(err, 1)
	}

	logger := log.New(c.App.ErrWriter, "kmatch: ", log.LstdFlags)
	driver := stream.NewDriver(ix, kl, out, stream.Options{
		BatchSize:     cfg.BatchSize,
		EmitRefSets:   cfg.EmitRefSets,
		SkipAfterFail: cfg.SkipAfterFail,
		KLen:          cfg.KLen,
		UseKLCP:       cfg.UseKLCP,
	}, logger)

	stats, err := driver.Run(src)
	if err != nil {
		return cli.Exit(err, 1)
	}
	logger.Printf("done: %d reads, %d windows, %d malformed skipped, %s elapsed",
		stats.ReadsProcessed, stats.WindowsEmitted, stats.MalformedSkipped, stats.Elapsed)
	return nil
}

func indexAction(c *cli.Context) error {
	if c.Args().Len() < 1 {
		return cli.Exit(fmt.Errorf("%w: usage: kmatch index <index-prefix> -k INT", kmatcherr.ErrInvalidArgs), 1)
	}
	prefix := c.Args().Get(0)
	k := c.Int("k")

	ix, err := fmindex.Load(prefix)
	if err != nil {
		return cli.Exit(fmt.Errorf("%w: %v", kmatcherr.ErrIndexLoad, err), 1)
	}
	bv, err := klcp.Build(ix, k)
	if err != nil {
		return cli.Exit(err, 1)
	}
	path := fmt.Sprintf("%s.%d.bit.klcp", prefix, k)
	if err := klcp.WriteFile(path, bv, k, ix.Len()); err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
	return nil
}

func flagToConfigKey(flag string) string {
	switch flag {
	case "k":
		return "k_len"
	case "u":
		return "use_klcp"
	case "v":
		return "emit_ref_sets"
	case "s":
		return "skip_after_fail"
	case "f":
		return "output_file"
	case "batch":
		return "batch_size"
	default:
		return flag
	}
}

// openOutput honors -f per SPEC_FULL.md §6.1: "-" or an unset flag means
// the app's configured Writer (stdout by default, swappable in tests the
// way poly/commands_test.go swaps app.Writer), anything else is a file
// path to create.
func openOutput(c *cli.Context, path string) (w io.Writer, closeFn func(), err error) {
	if path == "" || path == "-" {
		return c.App.Writer, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: creating %s: %v", kmatcherr.ErrInvalidArgs, path, err)
	}
	return f, func() { f.Close() }, nil
}

// buildSource picks the ReadSource for -format. Within "text", a
// .fastq/.fq path goes through bio/fastq's ParseNext-driven adapter (so
// identifiers and quality lines are honored), a .fasta/.fa path goes
// through bio/fasta's equivalent (multi-line records, no quality), and
// anything else is read as one sequence per line.
func buildSource(cfg kmatchconfig.Config, path string, r *os.File) (stream.ReadSource, error) {
	switch cfg.Format {
	case "text":
		switch {
		case isFastqPath(path):
			const maxLineSize = 2 * 32 * 1024
			return fastq.NewSource(fastq.NewParser(r, maxLineSize)), nil
		case isFastaPath(path):
			const maxLineSize = 2 * 32 * 1024
			return fasta.NewSource(fasta.NewParser(r, maxLineSize)), nil
		default:
			return stream.NewLineSource(r), nil
		}
	case "binary":
		mate, err := stream.ParseMate(cfg.End)
		if err != nil {
			return nil, err
		}
		return stream.NewBinarySource(r, mate), nil
	default:
		return nil, fmt.Errorf("%w: unknown -format %q", kmatcherr.ErrInvalidArgs, cfg.Format)
	}
}

func isFastqPath(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".fastq") || strings.HasSuffix(lower, ".fq")
}

func isFastaPath(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".fasta") || strings.HasSuffix(lower, ".fa")
}
