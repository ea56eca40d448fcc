package session

import (
	"fmt"
	"strings"

	"github.com/joshuapare/ptkit/internal/buf"
	"github.com/joshuapare/ptkit/pkg/contenttype"
	"github.com/joshuapare/ptkit/pkg/ptf"
)

// Well-known metadata field names.
const (
	FieldTitle        = "http://purl.org/dc/elements/1.1/:title"
	FieldArtist       = "http://www.id3.org/id3v2.3.0#:TPE1"
	FieldContributors = "http://purl.org/dc/elements/1.1/:contributor"
	FieldLocation     = "http://meta.avid.com/everywhere/1.0#:location"
)

// Metadata types within the decoded metadata struct.
const (
	metadataString = 0
	metadataStruct = 3

	// maxMetadataDepth bounds struct nesting.
	maxMetadataDepth = 32
)

// Metadata is the session's embedded descriptive metadata.
type Metadata struct {
	Title        string
	Artist       string
	Contributors []string
	Location     string
	// Fields lists every string field in encounter order. Values of a nested
	// struct are reported under the name of the enclosing field.
	Fields []Field
}

// Field is one string field of the metadata struct.
type Field struct {
	Name  string
	Value string
}

// Empty reports whether no metadata was found.
func (m Metadata) Empty() bool { return len(m.Fields) == 0 }

func readMetadata(forest []*ptf.Block) (Metadata, error) {
	var md Metadata
	for _, b := range forest {
		if b.ContentType != contenttype.SessionMetadataSection {
			continue
		}
		c, ok := b.Child(contenttype.SessionMetadataBase64)
		if !ok {
			continue
		}
		decoded, ok := contenttype.PostProcess(c.ContentType, c.Data)
		if !ok {
			return md, malformed(c, "metadata payload is not valid base64")
		}
		if _, err := md.parseStruct(decoded, "", 1); err != nil {
			return Metadata{}, malformed(c, "%v", err)
		}
		return md, nil
	}
	return md, nil
}

// parseStruct decodes one metadata struct from data and returns the number
// of bytes consumed.
//
//	u32 1 | u32 count | count * (u32 len | name | u32 type | value)
func (md *Metadata) parseStruct(data []byte, outer string, depth int) (int, error) {
	if depth > maxMetadataDepth {
		return 0, fmt.Errorf("structs nested deeper than %d", maxMetadataDepth)
	}
	r := fieldReader{data: data}
	if head := r.u32(); head != 1 {
		return 0, fmt.Errorf("struct head %d", head)
	}
	count := r.u32()
	for i := uint32(0); i < count && r.err == nil; i++ {
		name := strings.ReplaceAll(r.str(), "\t", "/")
		switch typ := r.u32(); typ {
		case metadataString:
			value := r.str()
			if r.err != nil {
				break
			}
			field := name
			if outer != "" {
				field = outer
			}
			md.set(field, value)
		case metadataStruct:
			if r.err != nil {
				break
			}
			n, err := md.parseStruct(data[r.pos:], name, depth+1)
			if err != nil {
				return 0, fmt.Errorf("field %q: %w", name, err)
			}
			r.pos += n
		default:
			if r.err == nil {
				r.err = fmt.Errorf("field %q: unknown type %d", name, typ)
			}
		}
	}
	if r.err != nil {
		return 0, r.err
	}
	return r.pos, nil
}

func (md *Metadata) set(field, value string) {
	md.Fields = append(md.Fields, Field{Name: field, Value: value})
	switch field {
	case FieldTitle:
		md.Title = value
	case FieldArtist:
		md.Artist = value
	case FieldContributors:
		md.Contributors = append(md.Contributors, value)
	case FieldLocation:
		md.Location = value
	}
}

// fieldReader reads little-endian length-prefixed values and remembers the
// first bounds failure.
type fieldReader struct {
	data []byte
	pos  int
	err  error
}

func (r *fieldReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	b, ok := buf.Slice(r.data, r.pos, n)
	if !ok {
		r.err = fmt.Errorf("need %d bytes at %d, have %d", n, r.pos, len(r.data)-r.pos)
		return nil
	}
	r.pos += n
	return b
}

func (r *fieldReader) u32() uint32 {
	return buf.U32LE(r.take(4))
}

func (r *fieldReader) str() string {
	n := r.u32()
	if r.err != nil {
		return ""
	}
	return decodeText(r.take(int(n)))
}
