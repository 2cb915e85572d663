package rules

import (
	"fmt"

	"github.com/yaroslav/dpmigrate/models"
)

// Version is a device package version.
type Version string

const (
	// V12 is device package 1.2.
	V12 Version = "1.2"

	// V13 is device package 1.3.
	V13 Version = "1.3"
)

// Direction is a migration direction between two versions.
type Direction struct {
	From Version
	To   Version
}

var (
	// Forward migrates 1.2 to 1.3.
	Forward = Direction{From: V12, To: V13}

	// Reverse migrates 1.3 back to 1.2.
	Reverse = Direction{From: V13, To: V12}
)

// String returns "1.2->1.3" style labels used in logs and metrics.
func (d Direction) String() string {
	return fmt.Sprintf("%s->%s", d.From, d.To)
}

// Invert returns the opposite direction.
func (d Direction) Invert() Direction {
	return Direction{From: d.To, To: d.From}
}

// clusterTargets holds the fully qualified device package objects each kind
// of cluster association points at, per version.
var clusterTargets = map[models.AssociationKind]map[Version]string{
	models.KindDevicePackage: {
		V12: "uni/infra/mDev-PaloAltoNetworks-PANOS-1.2",
		V13: "uni/infra/mDev-PaloAltoNetworks-PANOS-1.3",
	},
	models.KindDeviceManager: {
		V12: "uni/infra/mDevMgr-PaloAltoNetworks-Panorama-1.2",
		V13: "uni/infra/mDevMgr-PaloAltoNetworks-Panorama-1.3",
	},
	models.KindChassis: {
		V12: "uni/infra/mChassis-PaloAltoNetworks-Chassis-1.2",
		V13: "uni/infra/mChassis-PaloAltoNetworks-Chassis-1.3",
	},
}

// ClusterTarget returns the reference target for kind at version v, or "" if
// the pair is unknown.
func ClusterTarget(kind models.AssociationKind, v Version) string {
	return clusterTargets[kind][v]
}

// RemapClusterTarget returns the target a reference must point at after
// migrating in direction d. The second result is false when target is not the
// exact source-version literal for kind, in which case the record is left
// alone.
func RemapClusterTarget(kind models.AssociationKind, target string, d Direction) (string, bool) {
	from := ClusterTarget(kind, d.From)
	to := ClusterTarget(kind, d.To)
	if from == "" || to == "" || target != from {
		return "", false
	}
	return to, true
}
