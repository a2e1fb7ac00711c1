// internal/config/lint.go
package config

import (
	"fmt"
	"sort"
)

// Slot is the resolved byte range of one gauge binding.
type Slot struct {
	Gauge  int // index into Config.Gauges
	Title  string
	Start  int
	End    int // exclusive
	Type   DataType
	Frame  uint32
	SlotID int
}

// SlotMap returns resolved slots grouped by frame id, in configuration order.
func SlotMap(cfg *Config) map[uint32][]Slot {
	out := make(map[uint32][]Slot)
	for i, g := range cfg.Gauges {
		start := cfg.SlotOffset(g)
		out[g.FrameID] = append(out[g.FrameID], Slot{
			Gauge:  i,
			Title:  g.Title,
			Start:  start,
			End:    start + g.DataType.ValueType().Width(),
			Type:   g.DataType,
			Frame:  g.FrameID,
			SlotID: g.SlotID,
		})
	}
	return out
}

// Lint reports slot problems that are legal to configure but suspicious at runtime.
//
// Slots past MaxPayload will fail to decode on every message. Overlapping slots
// in one frame are allowed (two gauges may show the same value) but are usually
// a typo.
func Lint(cfg *Config) []string {
	var findings []string

	slots := SlotMap(cfg)
	ids := make([]uint32, 0, len(slots))
	for id := range slots {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		list := slots[id]
		for i, s := range list {
			if s.End > MaxPayload {
				findings = append(findings, fmt.Sprintf(
					"frame 0x%X: %q slot %d spans bytes %d-%d, beyond the %d-byte payload",
					id, s.Title, s.SlotID, s.Start, s.End-1, MaxPayload,
				))
			}
			for _, prev := range list[:i] {
				if s.Start < prev.End && prev.Start < s.End {
					findings = append(findings, fmt.Sprintf(
						"frame 0x%X: %q bytes %d-%d overlap %q bytes %d-%d",
						id, s.Title, s.Start, s.End-1, prev.Title, prev.Start, prev.End-1,
					))
				}
			}
		}
	}
	return findings
}
