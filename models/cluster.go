package models

// AssociationKind identifies which device package object a logical device
// cluster record points at.
type AssociationKind int

const (
	// KindDevicePackage binds a logical device cluster to a device package.
	KindDevicePackage AssociationKind = iota

	// KindDeviceManager binds a device manager to a device manager type.
	KindDeviceManager

	// KindChassis binds a chassis to a chassis type.
	KindChassis
)

// AssociationKinds lists every kind in query order.
var AssociationKinds = []AssociationKind{KindDevicePackage, KindDeviceManager, KindChassis}

// String returns the kind name used in logs and metric labels.
func (k AssociationKind) String() string {
	switch k {
	case KindDevicePackage:
		return "device-package"
	case KindDeviceManager:
		return "device-manager"
	case KindChassis:
		return "chassis"
	default:
		return "unknown"
	}
}

// Noun returns the human label for the owning object, as printed in reports.
func (k AssociationKind) Noun() string {
	switch k {
	case KindDevicePackage:
		return "cluster"
	case KindDeviceManager:
		return "device manager"
	case KindChassis:
		return "chassis"
	default:
		return "object"
	}
}

// ClusterAssociation is a flat record of one device package reference. It is
// not part of the configuration tree.
type ClusterAssociation struct {
	// Kind identifies the reference type.
	Kind AssociationKind

	// DN is the distinguished name of the reference object itself
	// (for example "uni/tn-T/lDevVip-FW/rsmDevAtt").
	DN string

	// Tenant is the tenant that owns the record.
	Tenant string

	// Owner is the name of the object holding the reference
	// (the logical device, device manager or chassis).
	Owner string

	// TargetDN is the referenced device package object.
	TargetDN string
}
