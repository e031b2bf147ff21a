package pos

import (
	"fmt"

	"github.com/Marcial-ar/tpv/internal/domain"
)

// ZonePolicy decides what happens when the zone and the selected table of a
// draft disagree.
//
// ZonePolicyRelaxed never checks: switching zone keeps the table and any
// table can be attached. ZonePolicyStrict clears a table from the other zone
// on a zone switch and refuses to attach or finalize with one.
type ZonePolicy string

const (
	ZonePolicyRelaxed ZonePolicy = "relaxed"
	ZonePolicyStrict  ZonePolicy = "strict"
)

func ParseZonePolicy(s string) (ZonePolicy, error) {
	switch p := ZonePolicy(s); p {
	case ZonePolicyRelaxed, ZonePolicyStrict:
		return p, nil
	}
	return "", fmt.Errorf("unknown zone policy %q", s)
}

func (p ZonePolicy) allows(zone domain.Zone, table *domain.Table) bool {
	return p != ZonePolicyStrict || table == nil || table.Zone == zone
}

// Config holds the settings shared by builders and the finalizer.
type Config struct {
	Pricer      Pricer
	ZonePolicy  ZonePolicy
	DefaultZone domain.Zone
}

func DefaultConfig() Config {
	return Config{
		Pricer:      NewPricer(DefaultTaxRate),
		ZonePolicy:  ZonePolicyRelaxed,
		DefaultZone: domain.DefaultZone,
	}
}
