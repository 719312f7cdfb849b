package core

import "strings"

// VoiceKind identifies synthesis voice presets registered with a backend
type VoiceKind int

const (
	VoicePluck VoiceKind = iota
	VoicePad
	VoiceBell
	VoiceDrone
	VoiceBass
	VoiceKindCount
)

func (k VoiceKind) String() string {
	names := [...]string{"pluck", "pad", "bell", "drone", "bass"}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// VoiceKindFromName parses a voice kind name, case-insensitive.
// Returns VoicePluck, false for unrecognized names.
func VoiceKindFromName(name string) (VoiceKind, bool) {
	for k := VoicePluck; k < VoiceKindCount; k++ {
		if strings.EqualFold(name, k.String()) {
			return k, true
		}
	}
	return VoicePluck, false
}

// SlotCategory identifies double-buffered sustained voice slots.
// Each category alternates between two voice groups so a new sustained
// sound can fade in while the previous one fades out.
type SlotCategory int

const (
	SlotNav SlotCategory = iota
	SlotHover
	SlotCategoryCount
)

func (s SlotCategory) String() string {
	names := [...]string{"nav", "hover"}
	if int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// ModulationKind selects a key-change direction
type ModulationKind int

const (
	ModulationRelative ModulationKind = iota
	ModulationDominant
	ModulationSubdominant
)

func (m ModulationKind) String() string {
	names := [...]string{"relative", "dominant", "subdominant"}
	if int(m) < len(names) {
		return names[m]
	}
	return "unknown"
}
