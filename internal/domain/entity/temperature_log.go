package entity

import "time"

// TemperatureLog lectura de temperatura de un lote.
type TemperatureLog struct {
	ID          string
	BatchID     string
	Temperature float64
	RecordedAt  time.Time
	IsAlert     bool
}
