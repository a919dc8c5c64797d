package graph

// Level is a discrete contribution intensity.
type Level int

// Levels from no activity up to the fourth cutoff. Level n (1..4) covers
// counts up to n times the level spacing.
const (
	LevelZero Level = iota
	LevelFirst
	LevelSecond
	LevelThird
	LevelFourth
	// LevelFull is used for counts above the fourth level's cutoff.
	LevelFull
)

var levelOpacities = [...]float64{
	LevelZero:   0,
	LevelFirst:  0.3,
	LevelSecond: 0.5,
	LevelThird:  0.7,
	LevelFourth: 0.9,
	LevelFull:   1.0,
}

// Opacity returns the opacity used to draw the level.
func (l Level) Opacity() float64 {
	if l < LevelZero {
		return 0
	}
	if l > LevelFull {
		return 1.0
	}
	return levelOpacities[l]
}

// LevelFor maps a count to its level. Ties resolve to the lowest level.
// A non-positive spacing maps every positive count to LevelFull.
func LevelFor(count, spacing int) Level {
	if count <= 0 {
		return LevelZero
	}
	if spacing <= 0 {
		return LevelFull
	}
	for l := LevelFirst; l <= LevelFourth; l++ {
		if count <= int(l)*spacing {
			return l
		}
	}
	return LevelFull
}

// LevelOpacity maps a count to the opacity of its level.
func LevelOpacity(count, spacing int) float64 {
	return LevelFor(count, spacing).Opacity()
}

// LegendLevels returns the levels shown as legend swatches.
func LegendLevels() []Level {
	return []Level{LevelZero, LevelFirst, LevelSecond, LevelThird, LevelFourth}
}
