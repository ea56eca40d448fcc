package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/joshuapare/ptkit/pkg/revision"
)

func init() {
	rootCmd.AddCommand(newSnapshotCmd())
}

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot <session>",
		Short: "Archive the session as a new numbered revision if it changed",
		Long: `The snapshot command copies a session to the next numbered revision
beside it (song.ptx to song_04.ptx) unless its decoded content equals the
newest existing revision. Revisions are byte-for-byte copies.

Example:
  ptfctl snapshot song.ptx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd.Context(), args)
		},
	}
	return cmd
}

// SnapshotOutput is the JSON form of the snapshot command.
type SnapshotOutput struct {
	File     string `json:"file"`
	Archived bool   `json:"archived"`
	Revision string `json:"revision,omitempty"`
	Previous string `json:"previous,omitempty"`
	Digest   string `json:"digest"`
}

func runSnapshot(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := revision.Snapshot(ctx, args[0])
	if err != nil {
		return err
	}

	out := SnapshotOutput{
		File:     args[0],
		Archived: res.Archived,
		Digest:   res.Digest.String(),
	}
	if res.Revision != nil {
		out.Revision = res.Revision.Path
	}
	if res.Previous != nil {
		out.Previous = res.Previous.Path
	}
	log.Debug().Bool("archived", out.Archived).Str("revision", out.Revision).Msg("snapshot finished")

	if jsonOut {
		return printJSON(out)
	}
	if res.Archived {
		printInfo("Archived %s as %s\n", args[0], out.Revision)
	} else {
		printInfo("Unchanged since %s\n", out.Revision)
	}
	return nil
}
