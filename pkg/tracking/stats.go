package tracking

import (
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/mohamed3ma/helios/pkg/geometry"
)

// maxLostPoints caps the number of lost positions kept for diagnosis
const maxLostPoints = 16

// Stats accumulates the outcome of particle histories
type Stats struct {
	Histories   int // Number of histories started
	Escaped     int // Left the geometry through unbounded space
	Leaked      int // Crossed a vacuum surface
	Lost        int // Reached a point no cell contains
	Truncated   int // Stopped after the crossing limit
	Crossings   int // Surface crossings, reflections included
	Reflections int // Crossings of reflecting surfaces

	TrackLength map[geometry.CellID]float64 // Distance travelled per cell id
	LostPoints  []r3.Vec                    // First positions where particles were lost
}

// NewStats returns empty statistics
func NewStats() Stats {
	return Stats{TrackLength: make(map[geometry.CellID]float64)}
}

func (s *Stats) record(outcome Outcome) {
	s.Histories++
	switch outcome {
	case Escaped:
		s.Escaped++
	case Leaked:
		s.Leaked++
	case Lost:
		s.Lost++
	case Truncated:
		s.Truncated++
	}
}

func (s *Stats) addLostPoint(p r3.Vec) {
	if len(s.LostPoints) < maxLostPoints {
		s.LostPoints = append(s.LostPoints, p)
	}
}

// Merge adds the counts of other to s
func (s *Stats) Merge(other Stats) {
	s.Histories += other.Histories
	s.Escaped += other.Escaped
	s.Leaked += other.Leaked
	s.Lost += other.Lost
	s.Truncated += other.Truncated
	s.Crossings += other.Crossings
	s.Reflections += other.Reflections

	if s.TrackLength == nil {
		s.TrackLength = make(map[geometry.CellID]float64)
	}
	for _, id := range other.Cells() {
		s.TrackLength[id] += other.TrackLength[id]
	}
	for _, p := range other.LostPoints {
		s.addLostPoint(p)
	}
}

// Cells returns the ids of the cells particles travelled through, sorted
func (s Stats) Cells() []geometry.CellID {
	ids := lo.Keys(s.TrackLength)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MeanTrackLength returns the distance travelled in a cell per history
func (s Stats) MeanTrackLength(id geometry.CellID) float64 {
	if s.Histories == 0 {
		return 0
	}
	return s.TrackLength[id] / float64(s.Histories)
}

// LostFraction returns the fraction of histories that were lost
func (s Stats) LostFraction() float64 {
	if s.Histories == 0 {
		return 0
	}
	return float64(s.Lost) / float64(s.Histories)
}
