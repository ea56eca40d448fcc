package format

import (
	"encoding/binary"
	"fmt"

	"github.com/joshuapare/ptkit/internal/buf"
)

// ProbeVersion determines the Pro Tools major version that wrote the session.
//
// Modern sessions carry a version block at VersionBlockOffset; older ones
// store the version directly in header bytes. The result must fall within
// MinVersion..MaxVersion.
func ProbeVersion(clear []byte, layout BlockLayout, order binary.ByteOrder) (int, error) {
	h, err := ParseFileHeader(clear)
	if err != nil {
		return 0, err
	}
	if !h.HasSignature() {
		return 0, fmt.Errorf("version: %w: missing session signature", ErrMalformedHeader)
	}

	version, err := probeVersion(clear, layout, order)
	if err != nil {
		return 0, err
	}
	if version < MinVersion || version > MaxVersion {
		return 0, fmt.Errorf("version: %w: %d", ErrUnsupportedFormatVersion, version)
	}
	return version, nil
}

func probeVersion(clear []byte, layout BlockLayout, order binary.ByteOrder) (int, error) {
	p := &parser{buf: clear, layout: layout, order: order}
	hdr, err := p.readHeader(VersionBlockOffset, len(clear))
	if err != nil {
		return legacyVersion(clear)
	}

	payload := clear[VersionBlockOffset+layout.HeaderSize : VersionBlockOffset+hdr.extent]
	switch hdr.contentType {
	case VersionBlockLegacy:
		// u8 pad | u32 len | product string | 4 bytes | u32 version
		n := buf.U32(payload[min(1, len(payload)):], order)
		off, ok := buf.AddOverflowSafe(1+4+4, int(n))
		if !ok {
			return 0, fmt.Errorf("version: %w: product string length %d", ErrMalformedHeader, n)
		}
		field, ok := buf.Slice(payload, off, 4)
		if !ok {
			return 0, fmt.Errorf("version: %w: legacy version block too short", ErrMalformedHeader)
		}
		return int(buf.U32(field, order)), nil
	case VersionBlockModern:
		field, ok := buf.Slice(payload, 18, 4)
		if !ok {
			return 0, fmt.Errorf("version: %w: version block too short", ErrMalformedHeader)
		}
		return 2 + int(buf.U32(field, order)), nil
	default:
		return 0, fmt.Errorf("version: %w: unexpected content type 0x%04x at 0x%x", ErrMalformedHeader, hdr.contentType, VersionBlockOffset)
	}
}

func legacyVersion(clear []byte) (int, error) {
	if len(clear) <= LegacyVersionOffset {
		return 0, fmt.Errorf("version: %w: no version block and header too short", ErrMalformedHeader)
	}
	if v := clear[LegacyVersionOffset]; v != 0 {
		return int(v), nil
	}
	if v := clear[LegacyVersionAltOffset]; v != 0 {
		return int(v), nil
	}
	return int(clear[LegacyVersionOldOffset]) + 2, nil
}
