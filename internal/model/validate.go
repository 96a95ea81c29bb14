package model

import (
	"fmt"
	"regexp"
)

var timeOfDayPattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// ValidTimeOfDay reports whether raw is an HH:MM string.
func ValidTimeOfDay(raw string) bool {
	return timeOfDayPattern.MatchString(raw)
}

// ValidateReport checks every rule of the parte form and returns all
// violations at once, never just the first. Line messages carry the
// 1-based line number. An empty result means the report is valid.
func ValidateReport(r WorkReport) []string {
	var errs []string

	if r.Date.IsZero() {
		errs = append(errs, "Por favor, seleccione una fecha")
	}
	if r.VehiclePlate == "" {
		errs = append(errs, "Por favor, seleccione una matrícula")
	}
	if r.Kilometers <= 0 {
		errs = append(errs, "Por favor, introduzca unos kilómetros mayores que 0")
	}
	if r.DriverName == "" {
		errs = append(errs, "Por favor, seleccione un conductor")
	}
	if r.CarrierName == "" {
		errs = append(errs, "Por favor, seleccione un transportista")
	}
	if len(r.Lines) == 0 {
		errs = append(errs, "Debe haber al menos una línea en el parte")
	}

	for i, line := range r.Lines {
		n := i + 1
		if line.Client == "" {
			errs = append(errs, fmt.Sprintf("Línea %d: Por favor, seleccione un cliente", n))
		}
		if line.LoadingPlace == "" {
			errs = append(errs, fmt.Sprintf("Línea %d: Por favor, ingrese un lugar de carga", n))
		}
		if line.UnloadingPlace == "" {
			errs = append(errs, fmt.Sprintf("Línea %d: Por favor, ingrese un lugar de descarga", n))
		}
		if line.WaitTime == "" || !ValidTimeOfDay(line.WaitTime) {
			errs = append(errs, fmt.Sprintf("Línea %d: Por favor, ingrese el tiempo de espera en formato HH:MM", n))
		}
		if line.WorkTime == "" || !ValidTimeOfDay(line.WorkTime) {
			errs = append(errs, fmt.Sprintf("Línea %d: Por favor, ingrese el tiempo de trabajo en formato HH:MM", n))
		}
		if line.Tonnage <= 0 {
			errs = append(errs, fmt.Sprintf("Línea %d: Por favor, introduzca unas toneladas mayores que 0", n))
		}
		if line.Material == "" {
			errs = append(errs, fmt.Sprintf("Línea %d: Por favor, seleccione el material", n))
		}
		if line.Shift == "" {
			errs = append(errs, fmt.Sprintf("Línea %d: Por favor, seleccione un tipo de jornada", n))
		}
	}

	return errs
}
