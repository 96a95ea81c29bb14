package model

import (
	"time"

	"github.com/google/uuid"
)

type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "Pendiente"
	ReportStatusCompleted ReportStatus = "Completado"
)

type Shift string

const (
	ShiftMorning   Shift = "manana"
	ShiftAfternoon Shift = "tarde"
	ShiftNight     Shift = "noche"
	ShiftFull      Shift = "completa"
)

func ParseShift(raw string) (Shift, bool) {
	switch Shift(raw) {
	case ShiftMorning, ShiftAfternoon, ShiftNight, ShiftFull:
		return Shift(raw), true
	default:
		return "", false
	}
}

// WorkReport is a driver's daily parte de trabajo. DriverName and
// CarrierName are denormalized display names, not references; ownership
// checks compare DriverName against the principal.
type WorkReport struct {
	ID           uuid.UUID
	Date         time.Time
	VehiclePlate string
	Kilometers   float64
	DriverName   string
	CarrierName  string
	Status       ReportStatus
	Lines        []ReportLine `gorm:"-"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ReportLine is one load/unload task inside a work report. Lines have
// no identity of their own beyond their position in the report.
type ReportLine struct {
	Client         string
	LoadingPlace   string
	UnloadingPlace string
	WaitTime       string
	WorkTime       string
	Tonnage        float64
	Material       string
	Shift          Shift
}
