package contenttype

import (
	"bytes"
	"encoding/base64"

	"github.com/joshuapare/ptkit/internal/buf"
)

// MetadataMarker must appear in the string that opens a metadata payload.
const MetadataMarker = "sessionMetadataBase64"

// Base64 text is stored in lines of base64LineLen characters, each followed
// by a base64LineSep-byte separator.
const (
	base64LineLen = 64
	base64LineSep = 2
)

// DecodeMetadataBase64 decodes the payload of a SessionMetadataBase64 block:
//
//	u32 n | n-byte header containing "sessionMetadataBase64" | u32 count | count bytes of wrapped base64
//
// Lengths are little-endian. Any mismatch yields ok == false.
func DecodeMetadataBase64(data []byte) ([]byte, bool) {
	if !buf.Has(data, 0, 4) {
		return nil, false
	}
	n := buf.U32LE(data)
	marker, ok := buf.Slice(data, 4, int(n))
	if !ok || !bytes.Contains(marker, []byte(MetadataMarker)) {
		return nil, false
	}
	pos := 4 + int(n)
	countField, ok := buf.Slice(data, pos, 4)
	if !ok {
		return nil, false
	}
	count := buf.U32LE(countField)
	text, ok := buf.Slice(data, pos+4, int(count))
	if !ok {
		return nil, false
	}
	unwrapped, ok := unwrapBase64(text)
	if !ok {
		return nil, false
	}
	out, err := base64.StdEncoding.DecodeString(string(unwrapped))
	if err != nil {
		return nil, false
	}
	return out, true
}

// unwrapBase64 drops the separator that follows every full line.
func unwrapBase64(text []byte) ([]byte, bool) {
	const stride = base64LineLen + base64LineSep
	if (len(text)%stride)%4 != 0 {
		return nil, false
	}
	out := make([]byte, 0, len(text))
	for p := 0; p < len(text); p += stride {
		out = append(out, text[p:min(p+base64LineLen, len(text))]...)
	}
	return out, true
}
