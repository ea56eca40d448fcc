package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ptkit/internal/testutil"
)

func TestUnxorStdout(t *testing.T) {
	resetFlags()
	nodes := basicSession()
	path := writeSession(t, t.TempDir(), "song.ptx", nodes...)

	output, err := captureOutput(t, func() error {
		return runUnxor([]string{path})
	})
	require.NoError(t, err)
	require.Equal(t, string(testutil.Cleartext(testutil.SelectorLegacy, 0x11, nodes...)), output)
}

func TestUnxorToFile(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	nodes := basicSession()
	path := writeSession(t, dir, "song.ptx", nodes...)
	unxorOutput = filepath.Join(dir, "song.bin")

	output, err := captureOutput(t, func() error {
		return runUnxor([]string{path})
	})
	require.NoError(t, err)
	require.Empty(t, output)

	got, err := os.ReadFile(unxorOutput)
	require.NoError(t, err)
	require.Equal(t, testutil.Cleartext(testutil.SelectorLegacy, 0x11, nodes...), got)
}

func TestUnxorZstd(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	nodes := basicSession()
	path := writeSession(t, dir, "song.ptx", nodes...)
	unxorOutput = filepath.Join(dir, "song.bin.zst")
	unxorZstd = true

	_, err := captureOutput(t, func() error {
		return runUnxor([]string{path})
	})
	require.NoError(t, err)

	compressed, err := os.ReadFile(unxorOutput)
	require.NoError(t, err)
	dec, err := zstd.NewReader(nil)
	require.NoError(t, err)
	defer dec.Close()
	got, err := dec.DecodeAll(compressed, nil)
	require.NoError(t, err)
	require.Equal(t, testutil.Cleartext(testutil.SelectorLegacy, 0x11, nodes...), got)
}

func TestUnxorRejectsShortFile(t *testing.T) {
	resetFlags()
	path := testutil.WriteFile(t, t.TempDir(), "short.ptx", []byte{0x03, 0x30})

	_, err := captureOutput(t, func() error {
		return runUnxor([]string{path})
	})
	require.Error(t, err)
}

func TestRootDefaultsToUnxor(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	nodes := basicSession()
	path := writeSession(t, dir, "song.ptx", nodes...)
	out := filepath.Join(dir, "song.bin")

	rootCmd.SetArgs([]string{"--output", out, path})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	_, err := captureOutput(t, func() error {
		return rootCmd.Execute()
	})
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, testutil.Cleartext(testutil.SelectorLegacy, 0x11, nodes...), got)
}

func TestRootRejectsExtraArgs(t *testing.T) {
	resetFlags()
	rootCmd.SetArgs([]string{"a.ptx", "b.ptx"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	_, err := captureOutput(t, func() error {
		return rootCmd.Execute()
	})
	require.Error(t, err)
}
