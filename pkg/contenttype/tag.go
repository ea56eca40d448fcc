package contenttype

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTag resolves a tag given either as a hexadecimal number ("0x2715",
// "2715") or as a registered name ("SessionMetadataBase64").
func ParseTag(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("contenttype: empty tag")
	}
	for _, e := range table {
		if strings.EqualFold(e.Name, s) {
			return e.Tag, nil
		}
	}
	hex := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(hex, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("contenttype: invalid tag %q", s)
	}
	return uint16(v), nil
}

// ParseTags resolves every element of ss with ParseTag.
func ParseTags(ss []string) ([]uint16, error) {
	out := make([]uint16, 0, len(ss))
	for _, s := range ss {
		tag, err := ParseTag(s)
		if err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, nil
}
