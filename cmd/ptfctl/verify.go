package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/joshuapare/ptkit/pkg/ptf"
)

func init() {
	rootCmd.AddCommand(newVerifyCmd())
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <session>",
		Short: "Check the block structure of a session",
		Long: `The verify command parses a session and checks that its blocks cover
the decoded file exactly: siblings are contiguous, no block extends past its
parent and nothing but zero padding follows the last block.

Example:
  ptfctl verify song.ptx
  ptfctl verify song.ptx --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args)
		},
	}
	return cmd
}

// VerifyResult is the JSON form of the verify command.
type VerifyResult struct {
	File           string `json:"file"`
	Valid          bool   `json:"valid"`
	Blocks         int    `json:"blocks,omitempty"`
	TopLevelBlocks int    `json:"topLevelBlocks,omitempty"`
	Offset         *int   `json:"offset,omitempty"`
	Error          string `json:"error,omitempty"`
}

func runVerify(args []string) error {
	r, err := openSession(args[0], ptf.WithoutVerify())
	if err != nil {
		return err
	}
	defer r.Close()

	res := VerifyResult{File: args[0]}
	forest, err := r.Blocks()
	if err == nil {
		err = r.Verify()
	}
	if err != nil {
		res.Error = err.Error()
		var be *ptf.BlockError
		if errors.As(err, &be) {
			res.Offset = &be.Offset
		}
	} else {
		res.Valid = true
		res.Blocks = ptf.Count(forest)
		res.TopLevelBlocks = len(forest)
	}

	if jsonOut {
		if err := printJSON(res); err != nil {
			return err
		}
	} else if res.Valid {
		printInfo("✓ %s: %d blocks (%d top-level), structure valid\n", res.File, res.Blocks, res.TopLevelBlocks)
	} else {
		printInfo("✗ %s: %s\n", res.File, res.Error)
	}
	return err
}
