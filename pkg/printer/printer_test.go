package printer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ptkit/internal/testutil"
	"github.com/joshuapare/ptkit/pkg/diff"
	"github.com/joshuapare/ptkit/pkg/ptf"
)

func forest(t *testing.T, nodes ...testutil.Node) []*ptf.Block {
	t.Helper()
	r, err := ptf.FromBytes(testutil.Session(t, testutil.SelectorModern, 0x30, nodes...))
	require.NoError(t, err)
	blocks, err := r.Blocks()
	require.NoError(t, err)
	return blocks
}

func render(t *testing.T, opts Options, blocks []*ptf.Block) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, New(&buf, opts).PrintBlocks(blocks))
	return buf.String()
}

func TestPrintBlocksText(t *testing.T) {
	blocks := forest(t, testutil.Node{
		ContentType: 0x1015,
		Data:        []byte("ABCDEFGHIJKLMNOPQR"),
		Children:    []testutil.Node{testutil.Leaf(0x7777, []byte{0x00, 0x20, 0x41, 0x7f, 0x80})},
	})

	out := render(t, DefaultOptions(), blocks)
	want := "AudioTracks(0x1015) at 20\n" +
		"41 42 43 44 45 46 47 48 49 4a 4b 4c 4d 4e 4f 50 ABCDEFGHIJKLMNOP\n" +
		"51 52 QR\n" +
		"    Unknown(0x7777) at 47\n" +
		"    00 20 41 7f 80 ..A\x7f.\n"
	require.Equal(t, want, out)
}

func TestPrintBlocksTagFilterStillRecurses(t *testing.T) {
	blocks := forest(t, testutil.Node{
		ContentType: 0x1015,
		Data:        []byte{1},
		Children:    []testutil.Node{testutil.Leaf(0x1014, []byte("kick"))},
	})

	opts := DefaultOptions()
	opts.Tags = []uint16{0x1014}
	out := render(t, opts, blocks)
	require.NotContains(t, out, "AudioTracks")
	require.Contains(t, out, "    AudioTrackNameNumber(0x1014) at 30\n")
}

func TestPrintBlocksMaxDepth(t *testing.T) {
	blocks := forest(t, testutil.Node{
		ContentType: 0x1015,
		Children:    []testutil.Node{testutil.Leaf(0x1014, []byte("kick"))},
	})
	opts := DefaultOptions()
	opts.MaxDepth = 1
	out := render(t, opts, blocks)
	require.Contains(t, out, "AudioTracks")
	require.NotContains(t, out, "AudioTrackNameNumber")
}

func TestPrintBlocksTransform(t *testing.T) {
	decoded := []byte("decoded metadata")
	blocks := forest(t, testutil.Node{
		ContentType: 0x2716,
		Data:        []byte{0},
		Children:    []testutil.Node{testutil.Leaf(0x2715, testutil.MetadataPayload(decoded))},
	})

	out := render(t, DefaultOptions(), blocks)
	require.Contains(t, out, "decoded.metadata")

	opts := DefaultOptions()
	opts.NoTransform = true
	out = render(t, opts, blocks)
	require.NotContains(t, out, "decoded.metadata")
	require.Contains(t, out, "sessionMetad")
}

func TestPrintBlocksJSON(t *testing.T) {
	blocks := forest(t, testutil.Node{
		ContentType: 0x1015,
		Data:        []byte{0xde, 0xad},
		Children:    []testutil.Node{testutil.Leaf(0x1014, []byte("kick"))},
	})
	opts := DefaultOptions()
	opts.Format = FormatJSON
	out := render(t, opts, blocks)

	var got []jsonBlock
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	require.Equal(t, "0x1015", got[0].ContentType)
	require.Equal(t, "AudioTracks", got[0].Label)
	require.Equal(t, 20, got[0].Offset)
	require.Equal(t, "dead", got[0].Data)
	require.Equal(t, Fingerprint([]byte{0xde, 0xad}), got[0].Fingerprint)
	require.Len(t, got[0].Children, 1)
	require.Equal(t, "6b69636b", got[0].Children[0].Data)

	opts.Tags = []uint16{0x1014}
	out = render(t, opts, blocks)
	got = nil
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	require.Equal(t, "0x1014", got[0].ContentType)

	opts.Tags = []uint16{0x4444}
	require.Equal(t, "[]\n", render(t, opts, blocks))
}

func TestFingerprintStable(t *testing.T) {
	require.Equal(t, Fingerprint([]byte("kick")), Fingerprint([]byte("kick")))
	require.NotEqual(t, Fingerprint([]byte("kick")), Fingerprint([]byte("snare")))
	require.Len(t, Fingerprint(nil), 16)
}

func TestPrintDiffText(t *testing.T) {
	prev := bytes.Repeat([]byte{'a'}, 20)
	curr := append([]byte(nil), prev...)
	curr[5] = 'b'

	records := diff.Compare(
		[]*ptf.Block{{ContentType: 0x2067, Offset: 20, Data: prev, Children: []*ptf.Block{}}},
		[]*ptf.Block{
			{ContentType: 0x2067, Offset: 20, Data: curr, Children: []*ptf.Block{}},
			{ContentType: 0x271a, Offset: 49, Data: []byte{1}, Children: []*ptf.Block{}},
		},
	)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, DefaultOptions()).PrintDiff(records))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Equal(t, []string{
		"~ InfoSessionPath(0x2067) at 20",
		"  - 0000: 61 61 61 61 61 61 61 61 61 61 61 61 61 61 61 61 aaaaaaaaaaaaaaaa",
		"  + 0000: 61 61 61 61 61 62 61 61 61 61 61 61 61 61 61 61 aaaaabaaaaaaaaaa",
		"                         ^^",
		"+ MarkerList(0x271a) at 49",
		"  + 0000: 01                                              .",
	}, lines)
}

func TestPrintDiffJSON(t *testing.T) {
	records := diff.Compare(
		[]*ptf.Block{{ContentType: 0x2067, Offset: 20, Data: []byte{1, 2}, Children: []*ptf.Block{}}},
		[]*ptf.Block{{ContentType: 0x2067, Offset: 20, Data: []byte{1, 3}, Children: []*ptf.Block{}}},
	)
	opts := DefaultOptions()
	opts.Format = FormatJSON
	var buf bytes.Buffer
	require.NoError(t, New(&buf, opts).PrintDiff(records))

	var got jsonDiff
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, 1, got.Summary.Modified)
	require.Len(t, got.Records, 1)
	require.Equal(t, "modified", got.Records[0].Kind)
	require.Equal(t, []int{0}, got.Records[0].Path)
	require.Len(t, got.Records[0].Groups, 1)
	require.Equal(t, []int{1}, got.Records[0].Groups[0].Diffs)
	require.Equal(t, "0103", got.Records[0].Groups[0].Curr)
}
