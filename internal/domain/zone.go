package domain

import "fmt"

// Zone is a seating area. Every table belongs to exactly one zone.
type Zone string

const (
	ZoneBar     Zone = "bar"
	ZoneTerrace Zone = "terrace"
)

// DefaultZone is the zone a new POS session starts in.
const DefaultZone = ZoneTerrace

// ParseZone accepts the canonical names plus the legacy spanish spellings
// still stored by older clients.
func ParseZone(s string) (Zone, error) {
	switch s {
	case "bar", "barra":
		return ZoneBar, nil
	case "terrace", "terraza":
		return ZoneTerrace, nil
	}
	return "", fmt.Errorf("unknown zone %q", s)
}

func (z Zone) Valid() bool {
	return z == ZoneBar || z == ZoneTerrace
}
