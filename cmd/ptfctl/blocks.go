package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/ptkit/pkg/printer"
)

var (
	blocksTags        []string
	blocksNoTransform bool
	blocksDepth       int
)

func init() {
	cmd := newBlocksCmd()
	cmd.Flags().StringArrayVarP(&blocksTags, "block", "b", nil, "Only print blocks of this content type (name or hex, repeatable)")
	cmd.Flags().BoolVar(&blocksNoTransform, "no-transform", false, "Print raw payloads instead of decoded ones")
	cmd.Flags().IntVar(&blocksDepth, "depth", printer.DefaultMaxDepth, "Maximum depth to print (0 = unlimited)")
	rootCmd.AddCommand(cmd)
}

func newBlocksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blocks <session>",
		Short: "Print the block tree",
		Long: `The blocks command prints every block of a session with its content
type, offset and payload as hex and ASCII. Payloads with a registered
decoder (such as the base64 session metadata) are printed decoded unless
--no-transform is given. Filtering by content type hides the other blocks
but still descends into them.

Example:
  ptfctl blocks song.ptx
  ptfctl blocks song.ptx -b SessionMetadataBase64
  ptfctl blocks song.ptx -b 0x2028 -b 0x2029 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBlocks(args)
		},
	}
	return cmd
}

func runBlocks(args []string) error {
	tags, err := parseTagFlags(blocksTags)
	if err != nil {
		return err
	}

	r, err := openSession(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	forest, err := r.Blocks()
	if err != nil {
		return err
	}

	opts := printerOptions()
	opts.Tags = tags
	opts.NoTransform = blocksNoTransform
	opts.MaxDepth = blocksDepth
	return printer.New(os.Stdout, opts).PrintBlocks(forest)
}
