package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/joshuapare/ptkit/pkg/ptf"
	"github.com/joshuapare/ptkit/pkg/revision"
	"github.com/joshuapare/ptkit/pkg/session"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <session>",
		Short: "Display session information",
		Long: `The info command shows the file header, the obfuscation variant, the
Pro Tools version that wrote the session, content digests and the session
facts that can be decoded: sample rate, bit depth, metadata, key and time
signatures and tempo changes.

Example:
  ptfctl info song.ptx
  ptfctl info song.ptx --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

// InfoResult is the JSON form of the info command.
type InfoResult struct {
	File            string          `json:"file"`
	Variant         string          `json:"variant"`
	Selector        string          `json:"selector"`
	Seed            string          `json:"seed"`
	ByteOrder       string          `json:"byteOrder"`
	Version         int             `json:"version"`
	Blocks          int             `json:"blocks"`
	TopLevelBlocks  int             `json:"topLevelBlocks"`
	RawDigest       string          `json:"rawDigest"`
	CleartextDigest string          `json:"cleartextDigest"`
	Session         *SessionSummary `json:"session,omitempty"`
	SessionError    string          `json:"sessionError,omitempty"`
}

// SessionSummary holds the decoded session facts.
type SessionSummary struct {
	SampleRate     uint32            `json:"sampleRate,omitempty"`
	BitDepth       uint8             `json:"bitDepth,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	KeySignatures  int               `json:"keySignatures"`
	TimeSignatures int               `json:"timeSignatures"`
	TempoChanges   int               `json:"tempoChanges"`
}

func runInfo(args []string) error {
	r, err := openSession(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	version, err := r.Version()
	if err != nil {
		return err
	}
	forest, err := r.Blocks()
	if err != nil {
		return err
	}
	id, err := revision.Identify(r)
	if err != nil {
		return err
	}

	h := r.Header()
	result := InfoResult{
		File:            args[0],
		Variant:         r.Variant().Name,
		Selector:        fmt.Sprintf("0x%02x", h.Selector),
		Seed:            fmt.Sprintf("0x%02x", h.Seed),
		ByteOrder:       "little-endian",
		Version:         version,
		Blocks:          ptf.Count(forest),
		TopLevelBlocks:  len(forest),
		RawDigest:       id.Raw.String(),
		CleartextDigest: id.Cleartext.String(),
	}
	if h.BigEndian {
		result.ByteOrder = "big-endian"
	}

	// Session facts are best effort.
	info, err := session.Extract(r)
	if err != nil {
		log.Warn().Err(err).Msg("session facts unavailable")
		result.SessionError = err.Error()
	} else {
		result.Session = summarize(info)
	}

	if jsonOut {
		return printJSON(result)
	}
	printInfoText(result)
	return nil
}

func summarize(info *session.Info) *SessionSummary {
	s := &SessionSummary{
		SampleRate:     info.SampleRate,
		BitDepth:       info.BitDepth,
		KeySignatures:  len(info.KeySignatures),
		TimeSignatures: len(info.TimeSignatures),
		TempoChanges:   len(info.TempoChanges),
	}
	if !info.Metadata.Empty() {
		s.Metadata = make(map[string]string, len(info.Metadata.Fields))
		for _, f := range info.Metadata.Fields {
			if prev, ok := s.Metadata[f.Name]; ok {
				s.Metadata[f.Name] = prev + ", " + f.Value
				continue
			}
			s.Metadata[f.Name] = f.Value
		}
	}
	return s
}

func printInfoText(res InfoResult) {
	printInfo("\nSession Information:\n")
	printInfo("  File: %s\n", res.File)
	printInfo("  Variant: %s (selector %s, seed %s)\n", res.Variant, res.Selector, res.Seed)
	printInfo("  Byte order: %s\n", res.ByteOrder)
	printInfo("  Pro Tools version: %d\n", res.Version)
	printInfo("  Blocks: %d (%d top-level)\n", res.Blocks, res.TopLevelBlocks)
	printInfo("  Raw digest: %s\n", res.RawDigest)
	printInfo("  Cleartext digest: %s\n", res.CleartextDigest)

	if res.Session == nil {
		printInfo("\nSession facts unavailable: %s\n", res.SessionError)
		return
	}
	s := res.Session
	printInfo("\nFormat:\n")
	if s.SampleRate != 0 {
		printInfo("  Sample rate: %d Hz\n", s.SampleRate)
	}
	if s.BitDepth != 0 {
		printInfo("  Bit depth: %d\n", s.BitDepth)
	}
	printInfo("  Key signatures: %d\n", s.KeySignatures)
	printInfo("  Time signatures: %d\n", s.TimeSignatures)
	printInfo("  Tempo changes: %d\n", s.TempoChanges)

	if len(s.Metadata) > 0 {
		printInfo("\nMetadata:\n")
		for _, name := range slices.Sorted(maps.Keys(s.Metadata)) {
			printInfo("  %s: %s\n", shortField(name), s.Metadata[name])
		}
	}
}

// shortField drops the namespace URI from a metadata field name.
func shortField(name string) string {
	if i := strings.LastIndex(name, ":"); i >= 0 && i+1 < len(name) {
		return name[i+1:]
	}
	return name
}
