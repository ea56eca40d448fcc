package format

// Delta recovers the key delta for seed. Multiplier is odd for every known
// schedule, so exactly one delta matches.
func (k KeySchedule) Delta(seed byte) byte {
	for i := 0; i < 256; i++ {
		if byte(i*int(k.Multiplier)) == seed {
			if k.Negate {
				return byte(-i)
			}
			return byte(i)
		}
	}
	return 0
}

// Key expands the 256-entry key table for seed.
func (k KeySchedule) Key(seed byte) [256]byte {
	var key [256]byte
	delta := int(k.Delta(seed))
	for i := range key {
		key[i] = byte(i * delta)
	}
	return key
}

// Apply XORs every byte after the file header with the key stream and
// returns a new slice; raw is never modified. The header bytes are copied
// verbatim. The transform is its own inverse.
func (v Variant) Apply(raw []byte, seed byte) []byte {
	out := make([]byte, len(raw))
	copy(out, raw)
	if len(out) <= FileHeaderSize {
		return out
	}
	key := v.Key.Key(seed)
	shift := v.Key.IndexShift
	for i := FileHeaderSize; i < len(out); i++ {
		out[i] ^= key[(uint(i)>>shift)&0xff]
	}
	return out
}

// Deobfuscate decodes raw session bytes into cleartext. The variant is chosen
// from the header selector; the returned slice never aliases raw.
func Deobfuscate(raw []byte) ([]byte, error) {
	h, err := ParseFileHeader(raw)
	if err != nil {
		return nil, err
	}
	v, err := LookupVariant(h.Selector)
	if err != nil {
		return nil, err
	}
	return v.Apply(raw, h.Seed), nil
}
