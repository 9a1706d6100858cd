package weather

// kelvinOffset is the offset between the Kelvin and Celsius scales.
const kelvinOffset = 273.15

// KelvinToCelsius converts an absolute temperature to the display scale.
func KelvinToCelsius(k float64) float64 {
	return k - kelvinOffset
}
