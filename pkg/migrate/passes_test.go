package migrate

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaroslav/dpmigrate/models"
	"github.com/yaroslav/dpmigrate/pkg/rules"
)

// newTenant returns a 1.2 tenant with one interface folder whose layer 3
// folder carries a security zone and a default gateway.
func newTenant() *models.Tenant {
	tenant := models.NewTenant("acme")
	app := models.NewAppProfile("shop")
	tenant.AddAppProfile(app)
	epg := models.NewEPG("web")
	app.AddEPG(epg)

	iface := models.NewFolder("ext", rules.KeyInterfaceConfig)
	iface.CtrctNameOrLbl = "c1"
	iface.GraphNameOrLbl = "g1"
	iface.NodeNameOrLbl = "N1"
	iface.Attrs = models.Attributes{"cardinality": "unspecified"}
	epg.AddFolder(iface)

	l3 := models.NewFolder("l3", rules.KeyLayer3InterfaceConfig)
	l3.CopyScope(iface)
	l3.AddParameter(models.NewParameter("zone", rules.ParamSecurityZone, "zoneA"))
	l3.AddParameter(models.NewParameter("gw", rules.ParamDefaultGateway, "10.0.0.1"))
	iface.AddFolder(l3)

	return tenant
}

func newContext(tenant *models.Tenant) (*Context, *[]Event) {
	var events []Event
	return &Context{
		Tenant:   tenant,
		AppName:  "shop",
		Reporter: ReporterFunc(func(ev Event) { events = append(events, ev) }),
	}, &events
}

func runSteps(t *testing.T, c *Context, steps []Step) bool {
	t.Helper()
	changed := false
	for _, step := range steps {
		ok, err := step.Run(c)
		require.NoError(t, err, step.Description())
		changed = changed || ok
	}
	return changed
}

// liveTree compares trees while ignoring nodes pending deletion.
var liveTree = cmp.Options{
	cmpopts.IgnoreUnexported(models.AppProfile{}, models.EPG{}, models.Folder{}, models.Parameter{}, models.Relation{}),
	cmpopts.IgnoreSliceElements(func(f *models.Folder) bool { return f.IsDeleted() }),
	cmpopts.IgnoreSliceElements(func(p *models.Parameter) bool { return p.IsDeleted() }),
	cmpopts.IgnoreSliceElements(func(r *models.Relation) bool { return r.IsDeleted() }),
	cmpopts.EquateEmpty(),
}

func TestParameterSteps_WorkedExample(t *testing.T) {
	tenant := newTenant()
	c, events := newContext(tenant)

	require.True(t, runSteps(t, c, ParameterSteps()))

	epg := tenant.AppProfile("shop").LiveEPGs()[0]
	names := make([]string, 0)
	for _, f := range epg.LiveFolders() {
		names = append(names, f.Name+":"+f.Key)
	}
	assert.Equal(t, []string{
		"ext:Interface",
		"ext_premigration:InterfaceConfig",
		"zoneA:Zone",
		"default_gateway:StaticRoute",
	}, names)

	iface := epg.Folder("ext")
	l3 := iface.SubfoldersWithKey(rules.KeyLayer3Interface)
	require.Len(t, l3, 1)
	assert.Empty(t, l3[0].ParametersWithKey(rules.ParamSecurityZone, rules.ParamDefaultGateway))
	rels := l3[0].LiveRelations()
	require.Len(t, rels, 1)
	assert.Equal(t, "security_zone_rel", rels[0].Name)
	assert.Equal(t, "zone", rels[0].Key)
	assert.Equal(t, "zoneA", rels[0].TargetName)

	backup := epg.Folder("ext_premigration")
	assert.True(t, backup.IsBackup())
	assert.Equal(t, "c1_premigration", backup.CtrctNameOrLbl)
	require.Len(t, backup.SubfoldersWithKey(rules.KeyLayer3InterfaceConfig), 1)
	assert.Equal(t, "zoneA", backup.Folders[0].Parameter(rules.ParamSecurityZone).Value)

	zone := epg.Folder("zoneA")
	assert.Equal(t, "c1", zone.CtrctNameOrLbl)
	assert.Equal(t, "g1", zone.GraphNameOrLbl)
	assert.Equal(t, "N1", zone.NodeNameOrLbl)
	assert.Equal(t, "layer3", zone.Parameter(rules.ParamMode).Value)

	route := epg.Folder(rules.DefaultGatewayFolder)
	assert.Equal(t, "10.0.0.1", route.Parameter(rules.ParamNexthop).Value)
	assert.Equal(t, "0.0.0.0/0", route.Parameter(rules.ParamDestination).Value)
	assert.Equal(t, "c1", route.CtrctNameOrLbl)

	want := []Event{
		{Action: ActionMigrating, Object: "ext", Key: "InterfaceConfig", Tenant: "acme", App: "shop", EPG: "web"},
		{Action: ActionMigrating, Object: "l3", Key: "Layer3InterfaceConfig", Tenant: "acme", App: "shop", EPG: "web", Path: "/ext"},
		{Action: ActionMigrating, Object: "zone", Key: "security_zone", Tenant: "acme", App: "shop", EPG: "web", Path: "/ext/l3"},
		{Action: ActionMigrating, Object: "gw", Key: "default_gateway", Tenant: "acme", App: "shop", EPG: "web", Path: "/ext/l3"},
	}
	if diff := cmp.Diff(want, *events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestParameterSteps_Idempotent(t *testing.T) {
	tenant := newTenant()
	c, _ := newContext(tenant)

	require.True(t, runSteps(t, c, ParameterSteps()))
	c.Touched()
	after := tenant.DeepCopy()

	for _, step := range ParameterSteps() {
		changed, err := step.Run(c)
		require.NoError(t, err)
		assert.False(t, changed, "%s changed an already migrated tree", step.Name())
	}
	assert.Zero(t, c.Touched(), "second run should not report anything")
	if diff := cmp.Diff(after, tenant, liveTree); diff != "" {
		t.Errorf("second run changed the tree (-first +second):\n%s", diff)
	}
}

func TestRevertSteps_RoundTrip(t *testing.T) {
	tenant := newTenant()
	orig := tenant.DeepCopy()
	c, _ := newContext(tenant)

	require.True(t, runSteps(t, c, ParameterSteps()))
	require.True(t, runSteps(t, c, RevertSteps()))

	if diff := cmp.Diff(orig, tenant, liveTree); diff != "" {
		t.Errorf("revert did not restore the tree (-orig +reverted):\n%s", diff)
	}

	epg := tenant.AppProfile("shop").LiveEPGs()[0]
	for _, f := range epg.Folders {
		if f.IsDeleted() {
			assert.Equal(t, "ext_premigration", f.Name, "only the stale backup should remain deleted")
		}
		assert.NotContains(t, rules.MigratedKeys, f.Key)
	}
	assert.False(t, epg.Folder("ext").IsBackup())
}

func TestRevertSteps_AfterCleanup(t *testing.T) {
	tenant := newTenant()
	c, _ := newContext(tenant)

	require.True(t, runSteps(t, c, ParameterSteps()))
	require.True(t, runSteps(t, c, CleanupSteps()))
	before := tenant.DeepCopy()

	_, err := DeleteMigratedFolders(c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoBackups))

	if diff := cmp.Diff(before, tenant, cmpopts.IgnoreUnexported(models.AppProfile{}, models.EPG{}, models.Folder{}, models.Parameter{}, models.Relation{})); diff != "" {
		t.Errorf("refused revert modified the tree:\n%s", diff)
	}
}

func TestCleanupBackups(t *testing.T) {
	t.Run("no backups", func(t *testing.T) {
		tenant := newTenant()
		c, events := newContext(tenant)

		changed, err := CleanupBackups(c)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Empty(t, *events)
	})

	t.Run("after migration", func(t *testing.T) {
		tenant := newTenant()
		c, _ := newContext(tenant)
		require.True(t, runSteps(t, c, ParameterSteps()))
		c.Touched()

		changed, err := CleanupBackups(c)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, 1, c.Touched())

		epg := tenant.AppProfile("shop").LiveEPGs()[0]
		assert.Nil(t, epg.Folder("ext_premigration"))
		assert.NotNil(t, epg.Folder("ext"))
	})
}

func TestExtractZonesAndVlans(t *testing.T) {
	tenant := newTenant()
	epg := tenant.AppProfile("shop").LiveEPGs()[0]
	l2 := models.NewFolder("l2", rules.KeyLayer2InterfaceConfig)
	l2.AddParameter(models.NewParameter("bd", rules.ParamBridgeDomain, "vlan10"))
	l2.AddParameter(models.NewParameter("zone2", rules.ParamSecurityZone, "zoneB"))
	l2.AddParameter(models.NewParameter("empty", rules.ParamSecurityZone, ""))
	epg.Folder("ext").AddFolder(l2)

	c, _ := newContext(tenant)
	_, err := MigrateInterfaceFolders(c)
	require.NoError(t, err)

	changed, err := ExtractZonesAndVlans(c)
	require.NoError(t, err)
	require.True(t, changed)

	vlan := epg.Folder("vlan10")
	require.NotNil(t, vlan)
	assert.Equal(t, rules.KeyVlan, vlan.Key)
	assert.Nil(t, vlan.Parameter(rules.ParamMode), "vlans carry no mode")

	zoneB := epg.Folder("zoneB")
	require.NotNil(t, zoneB)
	assert.Equal(t, "layer2", zoneB.Parameter(rules.ParamMode).Value)

	layer := epg.Folder("ext").SubfoldersWithKey(rules.KeyLayer2Interface)[0]
	assert.Len(t, layer.LiveRelations(), 2)
	assert.Len(t, layer.ParametersWithKey(rules.ParamSecurityZone), 1, "parameter without value is left alone")
}

func TestParameterSteps_SharedValues(t *testing.T) {
	tenant := newTenant()
	epg := tenant.AppProfile("shop").LiveEPGs()[0]
	iface := epg.Folder("ext")
	other := models.NewFolder("l3b", rules.KeyLayer3InterfaceConfig)
	other.CopyScope(iface)
	other.AddParameter(models.NewParameter("zone", rules.ParamSecurityZone, "zoneA"))
	other.AddParameter(models.NewParameter("gw", rules.ParamDefaultGateway, "10.0.0.1"))
	iface.AddFolder(other)

	c, _ := newContext(tenant)
	require.True(t, runSteps(t, c, ParameterSteps()))

	// One folder per layer folder, not one per value: the APIC merges folders
	// of the same name, and each relation names its target.
	counts := map[string]int{}
	for _, f := range epg.LiveFolders() {
		assert.NotEmpty(t, f.Key, "folder %s has no key", f.Name)
		counts[f.Name]++
	}
	assert.Equal(t, 2, counts["zoneA"])
	assert.Equal(t, 2, counts[rules.DefaultGatewayFolder])

	layers := epg.Folder("ext").SubfoldersWithKey(rules.KeyLayer3Interface)
	require.Len(t, layers, 2)
	for _, layer := range layers {
		rels := layer.LiveRelations()
		require.Len(t, rels, 1, layer.Name)
		assert.Equal(t, "zoneA", rels[0].TargetName)
	}
}

func TestSteps_UnknownApp(t *testing.T) {
	c, _ := newContext(newTenant())
	c.AppName = "missing"

	for _, steps := range [][]Step{ParameterSteps(), CleanupSteps(), RevertSteps()} {
		_, err := steps[0].Run(c)
		assert.True(t, errors.Is(err, models.ErrAppProfileNotFound), steps[0].Name())
	}
}

func TestMigrateClusters(t *testing.T) {
	records := []models.ClusterAssociation{
		{Kind: models.KindDevicePackage, Tenant: "acme", Owner: "FW1", TargetDN: rules.ClusterTarget(models.KindDevicePackage, rules.V12)},
		{Kind: models.KindDeviceManager, Tenant: "acme", Owner: "PAN", TargetDN: rules.ClusterTarget(models.KindDeviceManager, rules.V13)},
		{Kind: models.KindChassis, Tenant: "acme", Owner: "CH", TargetDN: rules.ClusterTarget(models.KindChassis, rules.V12)},
		{Kind: models.KindDevicePackage, Tenant: "acme", Owner: "ASA", TargetDN: "uni/infra/mDev-CISCO-ASA-1.2"},
	}

	var events []Event
	rep := ReporterFunc(func(ev Event) { events = append(events, ev) })

	forward := MigrateClusters(records, rules.Forward, rep)
	require.Len(t, forward, 2)
	assert.Equal(t, "FW1", forward[0].Owner)
	assert.Equal(t, rules.ClusterTarget(models.KindDevicePackage, rules.V13), forward[0].TargetDN)
	assert.Equal(t, "CH", forward[1].Owner)
	assert.Equal(t, rules.ClusterTarget(models.KindChassis, rules.V13), forward[1].TargetDN)
	assert.Equal(t, rules.ClusterTarget(models.KindDevicePackage, rules.V12), records[0].TargetDN, "input must not change")

	require.Len(t, events, 2)
	assert.Equal(t, "Upgrading cluster to 1.3:", events[0].Action)
	assert.Equal(t, "Upgrading chassis to 1.3:", events[1].Action)

	reverse := MigrateClusters(records, rules.Reverse, nil)
	require.Len(t, reverse, 1)
	assert.Equal(t, "PAN", reverse[0].Owner)
	assert.Equal(t, rules.ClusterTarget(models.KindDeviceManager, rules.V12), reverse[0].TargetDN)

	back := MigrateClusters(forward, rules.Reverse, nil)
	if diff := cmp.Diff([]models.ClusterAssociation{records[0], records[2]}, back); diff != "" {
		t.Errorf("forward then reverse mismatch (-want +got):\n%s", diff)
	}
}

func TestClusterAction(t *testing.T) {
	assert.Equal(t, "Reverting device manager to 1.2:", ClusterAction(models.KindDeviceManager, rules.Reverse))
	assert.Equal(t, "Upgrading cluster to 1.3:", ClusterAction(models.KindDevicePackage, rules.Forward))
}

func TestActions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		actions Actions
		wantErr error
	}{
		{"none", Actions{}, ErrNoAction},
		{"revert alone", Actions{Revert: true}, ErrRevertNeedsTarget},
		{"revert cleanup", Actions{Revert: true, Cleanup: true}, ErrRevertWithCleanup},
		{"revert parameters cleanup", Actions{Revert: true, Parameters: true, Cleanup: true}, ErrRevertWithCleanup},
		{"cleanup parameters", Actions{Cleanup: true, Parameters: true}, ErrCleanupCombined},
		{"cleanup clusters", Actions{Cleanup: true, Clusters: true}, ErrCleanupCombined},
		{"parameters", Actions{Parameters: true}, nil},
		{"parameters clusters", Actions{Parameters: true, Clusters: true}, nil},
		{"cleanup", Actions{Cleanup: true}, nil},
		{"revert clusters", Actions{Revert: true, Clusters: true}, nil},
		{"revert all", Actions{Revert: true, Parameters: true, Clusters: true}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.actions.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestActions_Steps(t *testing.T) {
	names := func(steps []Step) []string {
		var out []string
		for _, s := range steps {
			out = append(out, s.Name())
		}
		return out
	}

	assert.Equal(t, []string{"interface_keys", "zones_vlans", "default_gateways"}, names(Actions{Parameters: true}.Steps()))
	assert.Equal(t, []string{"delete_migrated", "restore_backups"}, names(Actions{Parameters: true, Revert: true}.Steps()))
	assert.Equal(t, []string{"cleanup_backups"}, names(Actions{Cleanup: true}.Steps()))
	assert.Empty(t, Actions{Clusters: true}.Steps())
	assert.Equal(t, "revert,parameters,clusters", Actions{Revert: true, Parameters: true, Clusters: true}.String())
}
