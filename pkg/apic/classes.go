package apic

import "github.com/yaroslav/dpmigrate/models"

// Managed object classes.
const (
	ClassTenant     = "fvTenant"
	ClassAppProfile = "fvAp"
	ClassEPG        = "fvAEPg"
	ClassFolder     = "vnsFolderInst"
	ClassParameter  = "vnsParamInst"
	ClassRelation   = "vnsCfgRelInst"

	ClassLDevVip             = "vnsLDevVip"
	ClassRsMDevAtt           = "vnsRsMDevAtt"
	ClassDevMgr              = "vnsDevMgr"
	ClassRsDevMgrToMDevMgr   = "vnsRsDevMgrToMDevMgr"
	ClassChassis             = "vnsChassis"
	ClassRsChassisToMChassis = "vnsRsChassisToMChassis"

	ClassAaaUser  = "aaaUser"
	ClassAaaLogin = "aaaLogin"
	ClassError    = "error"
)

// Attribute names.
const (
	AttrName           = "name"
	AttrKey            = "key"
	AttrValue          = "value"
	AttrDn             = "dn"
	AttrRn             = "rn"
	AttrStatus         = "status"
	AttrTDn            = "tDn"
	AttrTargetName     = "targetName"
	AttrCtrctNameOrLbl = "ctrctNameOrLbl"
	AttrDevCtxLbl      = "devCtxLbl"
	AttrGraphNameOrLbl = "graphNameOrLbl"
	AttrNodeNameOrLbl  = "nodeNameOrLbl"
	AttrScopedBy       = "scopedBy"
	AttrToken          = "token"
	AttrPwd            = "pwd"
	AttrCode           = "code"
	AttrText           = "text"

	StatusDeleted = "deleted"
)

// TreeClasses are the classes a deep tenant fetch must return for the tree
// to be complete.
var TreeClasses = []string{ClassAppProfile, ClassEPG, ClassFolder, ClassParameter, ClassRelation}

// runtimeAttrs are never kept as unmodelled attributes: they either identify
// the object by position or are controller bookkeeping.
var runtimeAttrs = map[string]bool{
	AttrDn:        true,
	AttrRn:        true,
	AttrStatus:    true,
	"childAction": true,
	"lcOwn":       true,
	"modTs":       true,
	"uid":         true,
	"userdom":     true,
}

// associationClass describes how one kind of cluster association appears on
// the wire.
type associationClass struct {
	relation    string
	owner       string
	ownerPrefix string
}

var associationClasses = map[models.AssociationKind]associationClass{
	models.KindDevicePackage: {relation: ClassRsMDevAtt, owner: ClassLDevVip, ownerPrefix: "lDevVip-"},
	models.KindDeviceManager: {relation: ClassRsDevMgrToMDevMgr, owner: ClassDevMgr, ownerPrefix: "devMgr-"},
	models.KindChassis:       {relation: ClassRsChassisToMChassis, owner: ClassChassis, ownerPrefix: "chassis-"},
}

// RelationClass returns the reference class for kind.
func RelationClass(kind models.AssociationKind) string {
	return associationClasses[kind].relation
}

// OwnerClass returns the class of the object holding a kind's reference.
func OwnerClass(kind models.AssociationKind) string {
	return associationClasses[kind].owner
}

// KindForClass maps a reference class back to its association kind.
func KindForClass(class string) (models.AssociationKind, bool) {
	for kind, ac := range associationClasses {
		if ac.relation == class {
			return kind, true
		}
	}
	return 0, false
}

// AssociationClasses returns the reference classes used in a subtree class
// filter, in AssociationKinds order.
func AssociationClasses() []string {
	classes := make([]string, 0, len(models.AssociationKinds))
	for _, kind := range models.AssociationKinds {
		classes = append(classes, RelationClass(kind))
	}
	return classes
}
