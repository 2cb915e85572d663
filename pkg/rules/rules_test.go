package rules

import (
	"testing"

	"github.com/yaroslav/dpmigrate/models"
)

func TestLayerMode(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{key: KeyLayer3Interface, want: "layer3"},
		{key: KeyLayer2Interface, want: "layer2"},
		{key: "L3", want: "l3"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := LayerMode(tt.key); got != tt.want {
				t.Errorf("LayerMode(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestLayerKeyRenamesDropConfigSuffix(t *testing.T) {
	for from, to := range LayerKeyRenames {
		if from[:15] != to {
			t.Errorf("rename %q -> %q is not the 15 character prefix", from, to)
		}
	}
}

func TestBackupNames(t *testing.T) {
	name := BackupName("ext")
	if name != "ext_premigration" {
		t.Fatalf("BackupName() = %q", name)
	}
	if !HasBackupSuffix(name) {
		t.Error("HasBackupSuffix() = false for a backup name")
	}
	if got := RestoredName(name); got != "ext" {
		t.Errorf("RestoredName() = %q, want %q", got, "ext")
	}
	if got := RestoredName("plain"); got != "plain" {
		t.Errorf("RestoredName() changed a name without suffix: %q", got)
	}
}

func TestExtractionFor(t *testing.T) {
	zone, ok := ExtractionFor(ParamSecurityZone)
	if !ok || zone.FolderKey != KeyZone || zone.RelationKey != "zone" || !zone.WithMode {
		t.Errorf("ExtractionFor(security_zone) = %+v, %v", zone, ok)
	}
	if zone.RelationName() != "security_zone_rel" {
		t.Errorf("RelationName() = %q", zone.RelationName())
	}

	vlan, ok := ExtractionFor(ParamBridgeDomain)
	if !ok || vlan.FolderKey != KeyVlan || vlan.WithMode {
		t.Errorf("ExtractionFor(bridge_domain) = %+v, %v", vlan, ok)
	}

	if _, ok := ExtractionFor(ParamDefaultGateway); ok {
		t.Error("default_gateway should not be a folder extraction")
	}
}

func TestRemapClusterTarget(t *testing.T) {
	tests := []struct {
		name   string
		kind   models.AssociationKind
		target string
		dir    Direction
		want   string
		wantOK bool
	}{
		{
			name:   "device package forward",
			kind:   models.KindDevicePackage,
			target: "uni/infra/mDev-PaloAltoNetworks-PANOS-1.2",
			dir:    Forward,
			want:   "uni/infra/mDev-PaloAltoNetworks-PANOS-1.3",
			wantOK: true,
		},
		{
			name:   "device manager reverse",
			kind:   models.KindDeviceManager,
			target: "uni/infra/mDevMgr-PaloAltoNetworks-Panorama-1.3",
			dir:    Reverse,
			want:   "uni/infra/mDevMgr-PaloAltoNetworks-Panorama-1.2",
			wantOK: true,
		},
		{
			name:   "chassis forward",
			kind:   models.KindChassis,
			target: "uni/infra/mChassis-PaloAltoNetworks-Chassis-1.2",
			dir:    Forward,
			want:   "uni/infra/mChassis-PaloAltoNetworks-Chassis-1.3",
			wantOK: true,
		},
		{
			name:   "already migrated",
			kind:   models.KindDevicePackage,
			target: "uni/infra/mDev-PaloAltoNetworks-PANOS-1.3",
			dir:    Forward,
		},
		{
			name:   "foreign device package",
			kind:   models.KindDevicePackage,
			target: "uni/infra/mDev-Cisco-ASA-1.2",
			dir:    Forward,
		},
		{
			name:   "wrong kind",
			kind:   models.KindChassis,
			target: "uni/infra/mDev-PaloAltoNetworks-PANOS-1.2",
			dir:    Forward,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RemapClusterTarget(tt.kind, tt.target, tt.dir)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("RemapClusterTarget() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDirection(t *testing.T) {
	if Forward.Invert() != Reverse {
		t.Error("Forward.Invert() != Reverse")
	}
	if Forward.String() != "1.2->1.3" {
		t.Errorf("Forward.String() = %q", Forward.String())
	}
}
