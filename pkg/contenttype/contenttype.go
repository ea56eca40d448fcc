// Package contenttype maps block content-type tags to human-readable labels
// and to optional payload post-processors.
//
// The table is static and read-only after package initialisation.
package contenttype

import (
	"sort"
)

// Unknown is the label of tags missing from the table.
const Unknown = "Unknown"

// Processor decodes a block payload into a more useful representation.
// ok == false means the payload was not decoded; callers then fall back to
// the raw bytes. Processors never modify data.
type Processor func(data []byte) (out []byte, ok bool)

// Entry describes one content-type tag.
type Entry struct {
	Tag     uint16
	Name    string
	Process Processor
}

// Known tags referenced by name elsewhere in the module.
const (
	InfoLegacyVersion      uint16 = 0x0003
	InfoSampleRate         uint16 = 0x1028
	TempoChanges           uint16 = 0x2028
	TimeSignatures         uint16 = 0x2029
	GeneralInfo            uint16 = 0x204b
	InfoSessionPath        uint16 = 0x2067
	KeySignature           uint16 = 0x2432
	KeySignatures          uint16 = 0x2433
	SessionMetadataBase64  uint16 = 0x2715
	SessionMetadataSection uint16 = 0x2716
	MarkerList             uint16 = 0x271a
)

var table = []Entry{
	{Tag: InfoLegacyVersion, Name: "InfoLegacyVersion"},
	{Tag: 0x0030, Name: "InfoProductVersion"},
	{Tag: 0x1001, Name: "WavSampleRateSize"},
	{Tag: 0x1003, Name: "WavMeta"},
	{Tag: 0x1004, Name: "WavList"},
	{Tag: 0x1007, Name: "RegionNameNumber"},
	{Tag: 0x1008, Name: "AudioRegionNameNumberV5"},
	{Tag: 0x100b, Name: "AudioRegionListV5"},
	{Tag: 0x100e, Name: "FadeList"},
	{Tag: 0x100f, Name: "AudioRegionTrackEntry"},
	{Tag: 0x1011, Name: "AudioRegionToTrackEntries"},
	{Tag: 0x1012, Name: "AudioRegionToTrackMap"},
	{Tag: 0x1014, Name: "AudioTrackNameNumber"},
	{Tag: 0x1015, Name: "AudioTracks"},
	{Tag: 0x1017, Name: "PluginEntry"},
	{Tag: 0x1018, Name: "PluginList"},
	{Tag: 0x1021, Name: "IOChannelEntry"},
	{Tag: 0x1022, Name: "IOChannelList"},
	{Tag: InfoSampleRate, Name: "InfoSampleRate"},
	{Tag: 0x103a, Name: "WavNames"},
	{Tag: 0x104f, Name: "AudioRegionToTrackSubEntryV8"},
	{Tag: 0x1050, Name: "AudioRegionToTrackEntryV8"},
	{Tag: 0x1052, Name: "AudioRegionToTrackEntriesV8"},
	{Tag: 0x1054, Name: "AudioRegionToTrackMapV8"},
	{Tag: 0x1056, Name: "MidiRegionToTrackEntry"},
	{Tag: 0x1057, Name: "MidiRegionToTrackEntries"},
	{Tag: 0x1058, Name: "MidiRegionToTrackMap"},
	{Tag: 0x2000, Name: "MidiEventsBlock"},
	{Tag: 0x2001, Name: "MidiRegionNameNumberV5"},
	{Tag: 0x2002, Name: "MidiRegionsMapV5"},
	{Tag: TempoChanges, Name: "TempoChanges"},
	{Tag: TimeSignatures, Name: "TimeSignatures"},
	{Tag: GeneralInfo, Name: "GeneralInfo"},
	{Tag: InfoSessionPath, Name: "InfoSessionPath"},
	{Tag: KeySignature, Name: "KeySignature"},
	{Tag: KeySignatures, Name: "KeySignatures"},
	{Tag: 0x2511, Name: "Snaps"},
	{Tag: 0x2519, Name: "MidiTrackList"},
	{Tag: 0x251a, Name: "MidiTrackNameNumber"},
	{Tag: 0x2523, Name: "CompoundRegionElement"},
	{Tag: 0x2602, Name: "IORoute"},
	{Tag: 0x2603, Name: "IORoutingTable"},
	{Tag: 0x2628, Name: "CompoundRegionGroup"},
	{Tag: 0x2629, Name: "AudioRegionNameNumberV10"},
	{Tag: 0x262a, Name: "AudioRegionListV10"},
	{Tag: 0x262b, Name: "RegionGroupEntry"},
	{Tag: 0x262c, Name: "CompoundRegionMap"},
	{Tag: 0x2633, Name: "MidiRegionsNameNumberV10"},
	{Tag: 0x2634, Name: "MidiRegionsMapV10"},
	{Tag: SessionMetadataBase64, Name: "SessionMetadataBase64", Process: DecodeMetadataBase64},
	{Tag: SessionMetadataSection, Name: "SessionMetadataSection"},
	{Tag: MarkerList, Name: "MarkerList"},
}

var index = func() map[uint16]Entry {
	m := make(map[uint16]Entry, len(table))
	for _, e := range table {
		m[e.Tag] = e
	}
	return m
}()

// Lookup returns the entry registered for tag.
func Lookup(tag uint16) (Entry, bool) {
	e, ok := index[tag]
	return e, ok
}

// Label returns the name registered for tag, or Unknown.
func Label(tag uint16) string {
	if e, ok := index[tag]; ok {
		return e.Name
	}
	return Unknown
}

// PostProcess runs the processor registered for tag. It returns ok == false
// when no processor is registered or the processor declined the payload.
func PostProcess(tag uint16, data []byte) ([]byte, bool) {
	e, ok := index[tag]
	if !ok || e.Process == nil {
		return nil, false
	}
	return e.Process(data)
}

// Entries returns a copy of the table sorted by tag.
func Entries() []Entry {
	out := make([]Entry, len(table))
	copy(out, table)
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}
