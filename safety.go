package reactor

import "math"

// GaugeBand classifies a reading by how close it is to its limit.
type GaugeBand int

const (
	Normal  GaugeBand = iota // below half of the limit
	Caution                  // below the warning threshold
	Danger
)

func (b GaugeBand) String() string {
	switch b {
	case Normal:
		return "normal"
	case Caution:
		return "caution"
	default:
		return "danger"
	}
}

// GaugePercent returns value as a percentage of limit.
func GaugePercent(value, limit float64) float64 {
	return value / limit * 100
}

// BandFor returns the gauge band of a percentage of limit.
func BandFor(percent float64) GaugeBand {
	switch {
	case percent < 50:
		return Normal
	case percent < WarningFraction*100:
		return Caution
	default:
		return Danger
	}
}

// SafetyRating returns the mean headroom of the three readings, in percent.
func SafetyRating(r Readings) float64 {
	headroom := func(value, limit float64) float64 {
		return math.Max(0, 100-GaugePercent(value, limit))
	}
	total := headroom(r.Temperature, MaxTemperature) +
		headroom(r.Pressure, MaxPressure) +
		headroom(r.Radiation, MaxRadiation)
	return math.Min(100, total/3)
}
