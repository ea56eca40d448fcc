package testutil

import (
	"encoding/base64"
	"encoding/binary"
)

// MetadataField is one field of an encoded metadata struct. Nested fields
// are written as a type-3 struct; otherwise Value is written as a string.
type MetadataField struct {
	Name   string
	Value  string
	Nested []MetadataField
}

// MetadataStruct encodes fields in the session metadata struct layout.
func MetadataStruct(fields ...MetadataField) []byte {
	out := binary.LittleEndian.AppendUint32(nil, 1)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(fields)))
	for _, f := range fields {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(f.Name)))
		out = append(out, f.Name...)
		if f.Nested != nil {
			out = binary.LittleEndian.AppendUint32(out, 3)
			out = append(out, MetadataStruct(f.Nested...)...)
			continue
		}
		out = binary.LittleEndian.AppendUint32(out, 0)
		out = binary.LittleEndian.AppendUint32(out, uint32(len(f.Value)))
		out = append(out, f.Value...)
	}
	return out
}

// MetadataPayload wraps decoded metadata bytes the way sessions store them:
// a marker string followed by CRLF-wrapped base64 text.
func MetadataPayload(decoded []byte) []byte {
	const marker = "sessionMetadataBase64"
	text := base64.StdEncoding.EncodeToString(decoded)
	var wrapped []byte
	for len(text) > 64 {
		wrapped = append(wrapped, text[:64]...)
		wrapped = append(wrapped, '\r', '\n')
		text = text[64:]
	}
	wrapped = append(wrapped, text...)

	out := binary.LittleEndian.AppendUint32(nil, uint32(len(marker)))
	out = append(out, marker...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(wrapped)))
	return append(out, wrapped...)
}

// MetadataSection returns the 0x2716 container holding a 0x2715 metadata
// block built from fields.
func MetadataSection(fields ...MetadataField) Node {
	return Node{
		ContentType: 0x2716,
		Data:        []byte{0, 0},
		Children:    []Node{Leaf(0x2715, MetadataPayload(MetadataStruct(fields...)))},
	}
}
