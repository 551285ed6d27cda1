// Package status holds the wire types for the facility status endpoint and
// the HTTP client that fetches them.
package status

import (
	"encoding/json"
	"math"
)

// StatusSuccess is the only status tag that carries a usable snapshot.
const StatusSuccess = "success"

// Snapshot is one decoded GET /api/status payload.
type Snapshot struct {
	Status      string      `json:"status"`
	Message     string      `json:"message,omitempty"`
	ControlRoom ControlRoom `json:"control_room"`
	Sensors     Sensors     `json:"sensors"`
}

// ControlRoom holds the access-control readings.
type ControlRoom struct {
	PeopleCount int `json:"people_count"`
	DoorOpen    int `json:"door_open"`
	FenceAlert  int `json:"fence_alert"`
}

// Sensors holds the environmental readings. Nil means the backend didn't report the field.
type Sensors struct {
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
}

// Success reports whether the payload carries the "success" tag.
func (s *Snapshot) Success() bool {
	return s != nil && s.Status == StatusSuccess
}

// DoorIsOpen reports whether door_open is exactly 1.
func (c ControlRoom) DoorIsOpen() bool {
	return c.DoorOpen == 1
}

// FenceBreached reports whether fence_alert is exactly 1.
func (c ControlRoom) FenceBreached() bool {
	return c.FenceAlert == 1
}

// UnmarshalJSON accepts integer fields encoded as floats or bools. Influx-backed
// servers return 1.0 instead of 1, and some firmware reports flags as true/false.
func (c *ControlRoom) UnmarshalJSON(data []byte) error {
	var raw struct {
		PeopleCount json.RawMessage `json:"people_count"`
		DoorOpen    json.RawMessage `json:"door_open"`
		FenceAlert  json.RawMessage `json:"fence_alert"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var err error
	if c.PeopleCount, err = looseInt(raw.PeopleCount); err != nil {
		return err
	}
	if c.DoorOpen, err = looseInt(raw.DoorOpen); err != nil {
		return err
	}
	if c.FenceAlert, err = looseInt(raw.FenceAlert); err != nil {
		return err
	}
	return nil
}

// looseInt decodes a JSON number, bool, or null into an int. Absent and null are 0.
func looseInt(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		if b {
			return 1, nil
		}
		return 0, nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, err
	}
	return int(math.Round(f)), nil
}

// Float returns a pointer to v. Handy for building Sensors literals.
func Float(v float64) *float64 {
	return &v
}
