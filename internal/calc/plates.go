package calc

import "github.com/claude/rptlog/internal/models"

const plateEpsilon = 1e-9

var (
	barWeight = map[models.Unit]float64{
		models.UnitLbs: 45,
		models.UnitKg:  20,
	}
	plateSets = map[models.Unit][]float64{
		models.UnitLbs: {45, 35, 25, 10, 5, 2.5},
		models.UnitKg:  {25, 20, 15, 10, 5, 2.5, 1.25},
	}
)

// BarWeight returns the bar weight for unit. Unknown units use lbs.
func BarWeight(unit models.Unit) float64 {
	if w, ok := barWeight[unit]; ok {
		return w
	}
	return barWeight[models.UnitLbs]
}

// CalculatePlates returns the plates to load on each side of the bar for
// targetWeight. Denominations are walked once, heaviest first, taking a
// plate whenever it still fits; whatever remains is dropped. An empty
// result means the bar alone.
func CalculatePlates(targetWeight float64, unit models.Unit) []float64 {
	plates, ok := plateSets[unit]
	if !ok {
		unit = models.UnitLbs
		plates = plateSets[unit]
	}
	remaining := targetWeight - BarWeight(unit)
	if remaining <= 0 {
		return []float64{}
	}
	perSide := remaining / 2

	out := []float64{}
	for _, p := range plates {
		if perSide+plateEpsilon >= p {
			out = append(out, p)
			perSide -= p
		}
	}
	return out
}
