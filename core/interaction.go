package core

// InteractionFrame is the continuous input sent at a fixed cadence from
// the host tracker. Position values are normalized to 0..1; the sentinel
// -1 means "no data" (pointer left the viewport).
type InteractionFrame struct {
	// TMs is the frame timestamp in milliseconds
	TMs uint64

	ViewportW uint32
	ViewportH uint32

	// PointerX is the pointer X position (0..1), or -1 for no pointer
	PointerX float64
	// PointerY is the pointer Y position (0..1), or -1 for no pointer
	PointerY float64
	// PointerSpeed is the normalized pointer speed (0..1)
	PointerSpeed float64
	// PointerDown is true while the primary button is held
	PointerDown bool

	// ScrollY is the normalized scroll position (0..1)
	ScrollY float64
	// ScrollV is the scroll velocity (-1..1)
	ScrollV float64

	// HoverID is an opaque hovered-element identifier (0 = none)
	HoverID uint32
	// SectionID is the current section/route index
	SectionID uint32

	Focus         bool
	TabFocused    bool
	ReducedMotion bool
}

// HasPointer reports whether pointer data is valid (not the sentinel).
func (f InteractionFrame) HasPointer() bool {
	return f.PointerX >= 0 && f.PointerY >= 0
}

// InteractionEventType discriminates discrete interaction events
type InteractionEventType int

const (
	EventClick InteractionEventType = iota
	EventNav
	EventHoverStart
	EventHoverEnd
)

func (t InteractionEventType) String() string {
	names := [...]string{"click", "nav", "hover_start", "hover_end"}
	if int(t) < len(names) {
		return names[t]
	}
	return "unknown"
}

// InteractionEvent is a discrete input delivered immediately on occurrence.
// Weight is an optional host-side emphasis (0 = unset, treated as 1.0).
type InteractionEvent struct {
	Type InteractionEventType

	// X, Y are normalized coordinates, valid for Click
	X float64
	Y float64

	// TargetID is the clicked element (Click)
	TargetID uint32
	// SectionID is the destination section (Nav)
	SectionID uint32
	// HoverID is the hovered element (HoverStart, HoverEnd)
	HoverID uint32

	Weight float64
}

// EffectiveWeight returns the clamped event weight, defaulting to 1.0.
func (e InteractionEvent) EffectiveWeight() float64 {
	if e.Weight <= 0 {
		return 1.0
	}
	if e.Weight > 1 {
		return 1.0
	}
	return e.Weight
}
