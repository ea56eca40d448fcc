package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ptkit/internal/testutil"
)

func payload(changeAt int) []byte {
	data := make([]byte, 16)
	for i := range data {
		data[i] = byte(i)
	}
	if changeAt >= 0 {
		data[changeAt] = 0xff
	}
	return data
}

func TestDiffCommand(t *testing.T) {
	tests := []struct {
		name           string
		prev           []testutil.Node
		curr           []testutil.Node
		all            bool
		tags           []string
		json           bool
		wantContain    []string
		wantNotContain []string
	}{
		{
			name: "modified byte",
			prev: []testutil.Node{testutil.Leaf(0x2067, payload(-1))},
			curr: []testutil.Node{testutil.Leaf(0x2067, payload(5))},
			wantContain: []string{
				"~ InfoSessionPath(0x2067) at 20",
				"  - 0000: 00 01 02 03 04 05 06",
				"  + 0000: 00 01 02 03 04 ff 06",
				"^^",
				"1 modified, 0 added, 0 removed, 0 unchanged",
			},
		},
		{
			name: "added block",
			prev: []testutil.Node{testutil.Leaf(0x2067, payload(-1))},
			curr: []testutil.Node{
				testutil.Leaf(0x2067, payload(-1)),
				testutil.Leaf(0x1028, []byte{0, 24}),
			},
			wantContain:    []string{"+ InfoSampleRate(0x1028) at 45", "0 modified, 1 added, 0 removed, 1 unchanged"},
			wantNotContain: []string{"InfoSessionPath"},
		},
		{
			name: "removed block",
			prev: []testutil.Node{
				testutil.Leaf(0x2067, payload(-1)),
				testutil.Leaf(0x1028, []byte{0, 24}),
			},
			curr:        []testutil.Node{testutil.Leaf(0x2067, payload(-1))},
			wantContain: []string{"- InfoSampleRate(0x1028) at 45", "0 modified, 0 added, 1 removed, 1 unchanged"},
		},
		{
			name:        "unchanged shown with all",
			prev:        []testutil.Node{testutil.Leaf(0x2067, payload(-1))},
			curr:        []testutil.Node{testutil.Leaf(0x2067, payload(-1))},
			all:         true,
			wantContain: []string{"  InfoSessionPath(0x2067) at 20", "0 modified, 0 added, 0 removed, 1 unchanged"},
		},
		{
			name: "tag filter",
			prev: []testutil.Node{
				testutil.Leaf(0x2067, payload(-1)),
				testutil.Leaf(0x1028, payload(-1)),
			},
			curr: []testutil.Node{
				testutil.Leaf(0x2067, payload(1)),
				testutil.Leaf(0x1028, payload(2)),
			},
			tags:           []string{"InfoSampleRate"},
			wantContain:    []string{"~ InfoSampleRate(0x1028) at 45"},
			wantNotContain: []string{"InfoSessionPath"},
		},
		{
			name:        "json output",
			prev:        []testutil.Node{testutil.Leaf(0x2067, payload(-1))},
			curr:        []testutil.Node{testutil.Leaf(0x2067, payload(5))},
			json:        true,
			wantContain: []string{`"kind": "modified"`, `"modified": 1`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			diffAll = tt.all
			diffTags = tt.tags
			jsonOut = tt.json

			dir := t.TempDir()
			prev := writeSession(t, dir, "before.ptx", tt.prev...)
			curr := writeSession(t, dir, "after.ptx", tt.curr...)
			output, err := captureOutput(t, func() error {
				return runDiff(t.Context(), []string{prev, curr})
			})
			require.NoError(t, err)

			if tt.json {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestDiffAgainstRevision(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	writeSession(t, dir, "song_01.ptx", testutil.Leaf(0x2067, payload(-1)))
	path := writeSession(t, dir, "song.ptx", testutil.Leaf(0x2067, payload(5)))

	output, err := captureOutput(t, func() error {
		return runDiff(t.Context(), []string{path})
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"~ InfoSessionPath(0x2067) at 20", "1 modified"})
}

func TestDiffAgainstIdenticalRevision(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	rev := writeSession(t, dir, "song_01.ptx", testutil.Leaf(0x2067, payload(-1)))
	path := writeSession(t, dir, "song.ptx", testutil.Leaf(0x2067, payload(-1)))

	output, err := captureOutput(t, func() error {
		return runDiff(t.Context(), []string{path})
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"No changes since " + rev})
}

func TestDiffWithoutRevision(t *testing.T) {
	resetFlags()
	path := writeSession(t, t.TempDir(), "song.ptx", testutil.Leaf(0x2067, payload(-1)))

	_, err := captureOutput(t, func() error {
		return runDiff(t.Context(), []string{path})
	})
	require.ErrorContains(t, err, "no earlier revision")
}

func TestDiffInvalidTag(t *testing.T) {
	resetFlags()
	diffTags = []string{"0xzz"}
	_, err := captureOutput(t, func() error {
		return runDiff(t.Context(), []string{"a.ptx", "b.ptx"})
	})
	require.ErrorContains(t, err, "invalid block type")
}
