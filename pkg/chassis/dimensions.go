package chassis

import "math"

const (
	TireDiameterMM float64 = 30
	TireCircumMM           = TireDiameterMM * math.Pi

	// Lateral distance between the two tire contact points.
	TrackWidthMM float64 = 100

	// Ticks per revolution of the AS5050A wheel encoders.
	EncoderTicksPerRev = 1024
)
