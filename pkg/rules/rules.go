// Package rules holds the version rule set for the Palo Alto Networks device
// package: folder key renames, parameter extractions and the cluster target
// literals for each supported version.
//
// Everything in here is data. The passes in pkg/migrate decide when a rule
// applies; this package only answers what the rule says.
package rules

import (
	"strings"

	"github.com/yaroslav/dpmigrate/models"
)

// Folder keys used by the 1.2 and 1.3 device package schemas.
const (
	KeyInterfaceConfig       = "InterfaceConfig"
	KeyInterface             = "Interface"
	KeyLayer3InterfaceConfig = "Layer3InterfaceConfig"
	KeyLayer2InterfaceConfig = "Layer2InterfaceConfig"
	KeyLayer3Interface       = "Layer3Interface"
	KeyLayer2Interface       = "Layer2Interface"
	KeyZone                  = "Zone"
	KeyVlan                  = "Vlan"
	KeyStaticRoute           = "StaticRoute"
)

// Parameter keys.
const (
	ParamSecurityZone   = "security_zone"
	ParamBridgeDomain   = "bridge_domain"
	ParamDefaultGateway = "default_gateway"
	ParamMode           = "mode"
	ParamNexthop        = "nexthop"
	ParamDestination    = "destination"
)

const (
	// BackupSuffix marks a pre-migration folder copy on the wire.
	BackupSuffix = models.BackupSuffix

	// DefaultGatewayFolder is the name of the static route folder created for
	// an extracted default gateway.
	DefaultGatewayFolder = "default_gateway"

	// DefaultRouteDestination is the destination prefix of a default route.
	DefaultRouteDestination = "0.0.0.0/0"

	// RelationSuffix is appended to a parameter key to name the relation that
	// replaces it.
	RelationSuffix = "_rel"

	// modePrefixLen is the length of the "LayerN" prefix of a layer folder key.
	modePrefixLen = 6
)

// InterfaceKeyRenames maps a 1.2 top-level interface folder key to its 1.3 key.
var InterfaceKeyRenames = map[string]string{
	KeyInterfaceConfig: KeyInterface,
}

// LayerKeyRenames maps a 1.2 layer sub-folder key to its 1.3 key.
var LayerKeyRenames = map[string]string{
	KeyLayer3InterfaceConfig: KeyLayer3Interface,
	KeyLayer2InterfaceConfig: KeyLayer2Interface,
}

// MigratedKeys are the folder keys that only exist after a migration. Revert
// deletes every folder with one of these keys.
var MigratedKeys = []string{KeyInterface, KeyZone, KeyVlan, KeyStaticRoute}

// Extraction describes a layer parameter that becomes a standalone folder
// plus a relation pointing at it.
type Extraction struct {
	// ParamKey is the parameter being extracted.
	ParamKey string

	// FolderKey is the key of the folder created from the parameter.
	FolderKey string

	// RelationKey is the role of the relation that replaces the parameter.
	RelationKey string

	// WithMode adds a "mode" parameter derived from the layer folder key.
	WithMode bool
}

// RelationName returns the name of the relation replacing the parameter.
func (e Extraction) RelationName() string {
	return e.ParamKey + RelationSuffix
}

// Extractions lists the parameter extractions in the order they are applied.
var Extractions = []Extraction{
	{ParamKey: ParamSecurityZone, FolderKey: KeyZone, RelationKey: "zone", WithMode: true},
	{ParamKey: ParamBridgeDomain, FolderKey: KeyVlan, RelationKey: "vlan"},
}

// ExtractionFor returns the extraction for a parameter key.
func ExtractionFor(paramKey string) (Extraction, bool) {
	for _, e := range Extractions {
		if e.ParamKey == paramKey {
			return e, true
		}
	}
	return Extraction{}, false
}

// ExtractionKeys returns the parameter keys that have an extraction.
func ExtractionKeys() []string {
	keys := make([]string, 0, len(Extractions))
	for _, e := range Extractions {
		keys = append(keys, e.ParamKey)
	}
	return keys
}

// LayerKeys returns the 1.3 layer sub-folder keys.
func LayerKeys() []string {
	return []string{KeyLayer3Interface, KeyLayer2Interface}
}

// LayerMode returns the zone mode for a layer folder key: the lowercased
// "LayerN" prefix ("layer3" or "layer2").
func LayerMode(layerKey string) string {
	if len(layerKey) < modePrefixLen {
		return strings.ToLower(layerKey)
	}
	return strings.ToLower(layerKey[:modePrefixLen])
}

// BackupName returns name with the backup suffix appended.
func BackupName(name string) string {
	return name + BackupSuffix
}

// RestoredName strips the backup suffix from name. Names without the suffix
// are returned unchanged.
func RestoredName(name string) string {
	return strings.TrimSuffix(name, BackupSuffix)
}

// HasBackupSuffix reports whether name carries the backup suffix.
func HasBackupSuffix(name string) bool {
	return strings.HasSuffix(name, BackupSuffix)
}
