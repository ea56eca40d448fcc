package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/ptkit/pkg/diff"
	"github.com/joshuapare/ptkit/pkg/printer"
	"github.com/joshuapare/ptkit/pkg/ptf"
	"github.com/joshuapare/ptkit/pkg/revision"
)

var (
	diffAll  bool
	diffTags []string
)

func init() {
	cmd := newDiffCmd()
	cmd.Flags().BoolVar(&diffAll, "all", false, "Include unchanged blocks")
	cmd.Flags().StringArrayVarP(&diffTags, "block", "b", nil, "Only show blocks of this content type (name or hex, repeatable)")
	rootCmd.AddCommand(cmd)
}

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [<previous>] <current>",
		Short: "Compare the block trees of two sessions",
		Long: `The diff command compares the block trees of two sessions and shows
modified payloads in 16-byte groups, plus blocks that exist on only one side.

With a single argument the previous session is the newest numbered revision
next to it (song_03.ptx for song.ptx). When that revision is identical, the
one before it is used instead.

Example:
  ptfctl diff song_03.ptx song.ptx
  ptfctl diff song.ptx
  ptfctl diff song.ptx -b SessionMetadataBase64 --json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.Context(), args)
		},
	}
	return cmd
}

func runDiff(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	tags, err := parseTagFlags(diffTags)
	if err != nil {
		return err
	}

	var prev, curr *ptf.Reader
	if len(args) == 1 {
		cmp, err := revision.Compare(ctx, args[0])
		if err != nil {
			return err
		}
		defer cmp.Close()
		if cmp.Previous == nil {
			return fmt.Errorf("no earlier revision of %s", args[0])
		}
		log.Debug().
			Str("revision", cmp.Candidate.Path).
			Bool("fellBack", cmp.FellBack).
			Msg("comparing against revision")
		if !cmp.Changed && !jsonOut {
			printInfo("No changes since %s\n", cmp.Candidate.Path)
			return nil
		}
		prev, curr = cmp.Previous, cmp.Current
	} else {
		prev, curr, err = openPair(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		defer prev.Close()
		defer curr.Close()
	}

	prevBlocks, err := prev.Blocks()
	if err != nil {
		return fmt.Errorf("previous: %w", err)
	}
	currBlocks, err := curr.Blocks()
	if err != nil {
		return fmt.Errorf("current: %w", err)
	}

	records := diff.Compare(prevBlocks, currBlocks)
	shown := diff.Filter(records, diff.Options{OnlyChanged: !diffAll, Tags: tags})
	if err := printer.New(os.Stdout, printerOptions()).PrintDiff(shown); err != nil {
		return err
	}
	if !jsonOut {
		s := diff.Summarize(records)
		printInfo("\n%d modified, %d added, %d removed, %d unchanged\n", s.Modified, s.Added, s.Removed, s.Unchanged)
	}
	return nil
}

// openPair opens two sessions concurrently.
func openPair(ctx context.Context, prevPath, currPath string) (*ptf.Reader, *ptf.Reader, error) {
	var prev, curr *ptf.Reader
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		prev, err = openSession(prevPath)
		return err
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		curr, err = openSession(currPath)
		return err
	})
	if err := g.Wait(); err != nil {
		for _, r := range []*ptf.Reader{prev, curr} {
			if r != nil {
				_ = r.Close()
			}
		}
		return nil, nil, err
	}
	return prev, curr, nil
}
