package model

import "github.com/google/uuid"

type Driver struct {
	ID            uuid.UUID
	Name          string
	AssignedPlate string
	Carrier       string
	Email         string
	PasswordHash  string
}

type Carrier struct {
	ID   uuid.UUID
	Name string
}

type Vehicle struct {
	ID    uuid.UUID
	Plate string
}

type Client struct {
	ID   uuid.UUID
	Name string
}

type Material struct {
	ID   uuid.UUID
	Name string
}

type ShiftType struct {
	ID   uuid.UUID
	Name string
}

// Option is one pick-list entry as the editor consumes it.
type Option struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ReferenceData holds the pick-lists the report editor needs. A driver
// receives lists scoped to their own vehicle and carrier assignment, an
// admin the unrestricted lists.
type ReferenceData struct {
	Drivers   []Option `json:"drivers"`
	Carriers  []Option `json:"carriers"`
	Vehicles  []Option `json:"vehicles"`
	Clients   []Option `json:"clients"`
	Materials []Option `json:"materials"`
	Shifts    []Option `json:"shifts"`
}
