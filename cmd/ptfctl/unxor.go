package main

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	unxorOutput string
	unxorZstd   bool
)

func init() {
	cmd := newUnxorCmd()
	cmd.Flags().StringVarP(&unxorOutput, "output", "o", "", "Write cleartext to file instead of stdout")
	cmd.Flags().BoolVar(&unxorZstd, "zstd", false, "Compress the cleartext with zstd")
	rootCmd.AddCommand(cmd)

	// unxor is also the default command
	rootCmd.Flags().StringVarP(&unxorOutput, "output", "o", "", "Write cleartext to file instead of stdout")
	rootCmd.Flags().BoolVar(&unxorZstd, "zstd", false, "Compress the cleartext with zstd")
}

func newUnxorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unxor <session>",
		Short: "Write the de-obfuscated session bytes",
		Long: `The unxor command removes the XOR obfuscation from a session file and
writes the cleartext, header included, unchanged.

Example:
  ptfctl unxor song.ptx > song.bin
  ptfctl unxor song.ptx --output song.bin.zst --zstd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnxor(args)
		},
	}
	return cmd
}

func runUnxor(args []string) error {
	r, err := openSession(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	clear, err := r.Cleartext()
	if err != nil {
		return err
	}

	if unxorOutput == "" || unxorOutput == "-" {
		return writeCleartext(os.Stdout, clear)
	}
	f, err := os.Create(unxorOutput)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := writeCleartext(f, clear); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	log.Debug().Str("output", unxorOutput).Int("bytes", len(clear)).Bool("zstd", unxorZstd).Msg("cleartext written")
	return nil
}

func writeCleartext(w io.Writer, clear []byte) error {
	if !unxorZstd {
		if _, err := w.Write(clear); err != nil {
			return fmt.Errorf("write cleartext: %w", err)
		}
		return nil
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(1), zstd.WithLowerEncoderMem(true))
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	if _, err := enc.Write(clear); err != nil {
		enc.Close()
		return fmt.Errorf("compress cleartext: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("compress cleartext: %w", err)
	}
	return nil
}
