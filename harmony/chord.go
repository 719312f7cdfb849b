package harmony

// ChordQuality tags the triad quality implied by a Roman-numeral label.
// Quality affects labeling and selection only; triads are always built
// diatonically by stacking scale degrees, never chromatically altered.
type ChordQuality int

const (
	QualityMajor ChordQuality = iota
	QualityMinor
	QualityDiminished
)

func (q ChordQuality) String() string {
	names := [...]string{"major", "minor", "diminished"}
	if int(q) < len(names) {
		return names[q]
	}
	return "unknown"
}

// degreeInfo is the (scale degree, quality) pair a label resolves to.
type degreeInfo struct {
	degree  int
	quality ChordQuality
}

// chordLabels maps Roman-numeral labels to scale degrees. Uppercase
// labels carry a major quality tag, lowercase minor; the leading-tone
// lowercase label is tagged diminished by convention.
var chordLabels = map[string]degreeInfo{
	"I": {0, QualityMajor}, "i": {0, QualityMinor},
	"II": {1, QualityMajor}, "ii": {1, QualityMinor},
	"III": {2, QualityMajor}, "iii": {2, QualityMinor},
	"IV": {3, QualityMajor}, "iv": {3, QualityMinor},
	"V": {4, QualityMajor}, "v": {4, QualityMinor},
	"VI": {5, QualityMajor}, "vi": {5, QualityMinor},
	"VII": {6, QualityMajor}, "vii": {6, QualityDiminished},
}

// ParseDegree resolves a Roman-numeral label to its scale degree and
// quality. Unknown labels resolve to the tonic (degree 0, major); this
// permissive default lets behavior wiring always proceed.
func ParseDegree(label string) (degree int, quality ChordQuality) {
	if info, ok := chordLabels[label]; ok {
		return info.degree, info.quality
	}
	return 0, QualityMajor
}

// ValidDegree reports whether label is a recognized Roman-numeral label.
func ValidDegree(label string) bool {
	_, ok := chordLabels[label]
	return ok
}
