package format_test

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ptkit/internal/format"
	"github.com/joshuapare/ptkit/internal/testutil"
)

func parse(t *testing.T, clear []byte) ([]*format.Block, error) {
	t.Helper()
	return format.Parse(clear, format.DefaultLayout, binary.LittleEndian)
}

func TestParseSingleBlock(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	clear := testutil.Cleartext(testutil.SelectorModern, 0, testutil.Leaf(0x2067, payload))

	forest, err := parse(t, clear)
	require.NoError(t, err)
	require.Len(t, forest, 1)

	b := forest[0]
	require.Equal(t, uint16(0x2067), b.ContentType)
	require.Equal(t, format.FileHeaderSize, b.Offset)
	require.Equal(t, format.FileHeaderSize+format.BlockHeaderSize, b.DataOffset)
	require.Equal(t, payload, b.Data)
	require.NotNil(t, b.Children)
	require.Empty(t, b.Children)
	require.Equal(t, uint32(len(payload)+2), b.Size)
	require.Equal(t, len(clear), b.End())

	require.NoError(t, format.Verify(clear, forest, format.DefaultLayout))
}

func TestParseHeaderOnly(t *testing.T) {
	clear := testutil.Header(testutil.SelectorLegacy, 0, false)
	forest, err := parse(t, clear)
	require.NoError(t, err)
	require.Empty(t, forest)
	require.NoError(t, format.Verify(clear, forest, format.DefaultLayout))
}

func TestParseNested(t *testing.T) {
	tree := testutil.Node{
		ContentType: 0x1015,
		Data:        []byte{0x01, 0x00, 0x02},
		Children: []testutil.Node{
			testutil.Leaf(0x1014, []byte("kick")),
			{
				ContentType: 0x1014,
				Data:        []byte("snare"),
				Children:    []testutil.Node{testutil.Leaf(0x1003, []byte{0, 0, 0})},
			},
		},
	}
	clear := testutil.Cleartext(testutil.SelectorModern, 0, testutil.Preamble(), tree)

	forest, err := parse(t, clear)
	require.NoError(t, err)
	require.Len(t, forest, 2)

	tracks := forest[1]
	require.Equal(t, uint16(0x1015), tracks.ContentType)
	require.Equal(t, []byte{0x01, 0x00, 0x02}, tracks.Data)
	require.Len(t, tracks.Children, 2)
	require.Equal(t, []byte("kick"), tracks.Children[0].Data)
	require.Equal(t, []byte("snare"), tracks.Children[1].Data)
	require.Len(t, tracks.Children[1].Children, 1)
	require.Equal(t, uint16(0x1003), tracks.Children[1].Children[0].ContentType)
	require.Equal(t, tracks.Children[0].End(), tracks.Children[1].Offset)

	c, ok := tracks.Child(0x1014)
	require.True(t, ok)
	require.Same(t, tracks.Children[0], c)
	_, ok = tracks.Child(0x9999)
	require.False(t, ok)

	require.NoError(t, format.Verify(clear, forest, format.DefaultLayout))
}

func TestParseUnknownContentType(t *testing.T) {
	clear := testutil.Cleartext(testutil.SelectorModern, 0, testutil.Leaf(0x7777, []byte{9, 9}))
	forest, err := parse(t, clear)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	require.Equal(t, uint16(0x7777), forest[0].ContentType)
}

func TestParseZeroPadding(t *testing.T) {
	clear := testutil.Cleartext(testutil.SelectorModern, 0, testutil.Leaf(0x2067, []byte{1, 2}))
	clear = append(clear, make([]byte, 37)...)

	forest, err := parse(t, clear)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	require.NoError(t, format.Verify(clear, forest, format.DefaultLayout))
}

func TestParseTruncated(t *testing.T) {
	clear := testutil.Cleartext(testutil.SelectorModern, 0, testutil.Leaf(0x2067, make([]byte, 32)))

	tests := []struct {
		name string
		data []byte
	}{
		{"payload cut", clear[:len(clear)-1]},
		{"header cut", clear[:format.FileHeaderSize+4]},
		{"declared past end", func() []byte {
			c := append([]byte(nil), clear...)
			binary.LittleEndian.PutUint32(c[format.FileHeaderSize+format.BlockSizeOffset:], 0xffff)
			return c
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.data)
			require.ErrorIs(t, err, format.ErrTruncatedBlock)

			var be *format.BlockError
			require.True(t, errors.As(err, &be))
			require.Equal(t, format.FileHeaderSize, be.Offset)
		})
	}
}

func TestParseInvalidHeader(t *testing.T) {
	good := testutil.Cleartext(testutil.SelectorModern, 0, testutil.Leaf(0x2067, make([]byte, 4)))

	tests := []struct {
		name   string
		mutate func(c []byte)
	}{
		{"bad marker", func(c []byte) { c[format.FileHeaderSize] = 0x5b }},
		{"type high byte", func(c []byte) { c[format.FileHeaderSize+format.BlockTypeOffset+1] = 0x01 }},
		{"size below content type", func(c []byte) {
			binary.LittleEndian.PutUint32(c[format.FileHeaderSize+format.BlockSizeOffset:], 1)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := append([]byte(nil), good...)
			tt.mutate(c)
			_, err := parse(t, c)
			require.ErrorIs(t, err, format.ErrInvalidBlockHeader)
		})
	}
}

func TestParseTrailingGarbage(t *testing.T) {
	clear := testutil.Cleartext(testutil.SelectorModern, 0, testutil.Leaf(0x2067, []byte{1, 2}))
	clear = append(clear, 0, 0, 0x11, 0, 0, 0, 0, 0, 0, 0)
	_, err := parse(t, clear)
	require.ErrorIs(t, err, format.ErrInvalidBlockHeader)
}

func TestParseShortBuffer(t *testing.T) {
	_, err := parse(t, make([]byte, 5))
	require.ErrorIs(t, err, format.ErrMalformedHeader)
}

func TestParseBigEndian(t *testing.T) {
	node := testutil.Node{
		ContentType: 0x2716,
		Data:        []byte{0xff},
		Children:    []testutil.Node{testutil.Leaf(0x2715, []byte{1, 2, 3})},
	}
	clear := testutil.Header(testutil.SelectorModern, 0, true)
	clear = append(clear, node.Encode(binary.BigEndian)...)

	forest, err := format.Parse(clear, format.DefaultLayout, binary.BigEndian)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	require.Equal(t, uint16(0x2716), forest[0].ContentType)
	require.Len(t, forest[0].Children, 1)
	require.Equal(t, uint16(0x2715), forest[0].Children[0].ContentType)
}

func TestBlockWalk(t *testing.T) {
	tree := testutil.Node{
		ContentType: 0x1015,
		Children: []testutil.Node{
			{ContentType: 0x1014, Data: []byte{1}, Children: []testutil.Node{testutil.Leaf(0x1003, []byte{2})}},
			testutil.Leaf(0x1014, []byte{3}),
		},
	}
	clear := testutil.Cleartext(testutil.SelectorModern, 0, tree)
	forest, err := parse(t, clear)
	require.NoError(t, err)
	require.Len(t, forest, 1)

	var order []uint16
	var depths []int
	forest[0].Walk(func(b *format.Block, depth int) bool {
		order = append(order, b.ContentType)
		depths = append(depths, depth)
		return true
	})
	require.Equal(t, []uint16{0x1015, 0x1014, 0x1003, 0x1014}, order)
	require.Equal(t, []int{0, 1, 2, 1}, depths)

	var visited int
	forest[0].Walk(func(b *format.Block, depth int) bool {
		visited++
		return depth == 0
	})
	require.Equal(t, 3, visited)
}

func TestParseDataNotOwningChildren(t *testing.T) {
	tree := testutil.Node{
		ContentType: 0x1015,
		Data:        []byte{0xaa, 0xbb},
		Children:    []testutil.Node{testutil.Leaf(0x1014, []byte{0xcc})},
	}
	clear := testutil.Cleartext(testutil.SelectorModern, 0, tree)
	forest, err := parse(t, clear)
	require.NoError(t, err)
	require.Equal(t, 2, cap(forest[0].Data))
}

// minimalHeaders returns n back-to-back childless headers of content type 0x0001.
func minimalHeaders(n int) []byte {
	one := testutil.Leaf(0x0001, nil).Encode(binary.LittleEndian)
	out := make([]byte, 0, n*len(one))
	for range n {
		out = append(out, one...)
	}
	return out
}

func TestParseLongHeaderRunThatDoesNotTile(t *testing.T) {
	// A stray byte after the run keeps it from covering the payload, so the
	// whole run is the block's own data.
	payload := append(minimalHeaders(200000), 0x01)
	clear := testutil.Cleartext(testutil.SelectorModern, 0, testutil.Leaf(0x2067, payload))

	forest, err := parse(t, clear)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	require.Empty(t, forest[0].Children)
	require.Len(t, forest[0].Data, len(payload))
	require.NoError(t, format.Verify(clear, forest, format.DefaultLayout))
}

func TestParseLongHeaderRunAfterPayload(t *testing.T) {
	payload := append([]byte{0x01}, minimalHeaders(200000)...)
	clear := testutil.Cleartext(testutil.SelectorModern, 0, testutil.Leaf(0x2067, payload))

	forest, err := parse(t, clear)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	require.Equal(t, []byte{0x01}, forest[0].Data)
	require.Len(t, forest[0].Children, 200000)
	require.Equal(t, forest[0].DataOffset+1, forest[0].Children[0].Offset)
	require.NoError(t, format.Verify(clear, forest, format.DefaultLayout))
}
