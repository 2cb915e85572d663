package migrate

import (
	"go.uber.org/zap"

	"github.com/yaroslav/dpmigrate/models"
	"github.com/yaroslav/dpmigrate/pkg/rules"
)

// layerParam is a live parameter found under an Interface/LayerN folder pair.
type layerParam struct {
	epg   *models.EPG
	iface *models.Folder
	layer *models.Folder
	param *models.Parameter
}

// layerParams collects the live parameters with one of keys that sit in a
// 1.3 layer folder of a 1.3 interface folder.
func layerParams(app *models.AppProfile, keys ...string) []layerParam {
	var out []layerParam
	for _, epg := range app.LiveEPGs() {
		for _, iface := range epg.FoldersWithKey(rules.KeyInterface) {
			for _, layer := range iface.SubfoldersWithKey(rules.LayerKeys()...) {
				for _, p := range layer.ParametersWithKey(keys...) {
					out = append(out, layerParam{epg: epg, iface: iface, layer: layer, param: p})
				}
			}
		}
	}
	return out
}

// ExtractZonesAndVlans turns security_zone and bridge_domain parameters of
// the layer folders into standalone Zone and Vlan folders.
//
// The parameter is marked deleted, a folder named after its value is added to
// the EPG with the interface folder's scope, and the layer folder gets a
// relation pointing at the new folder. Zones also get a mode parameter
// ("layer3" or "layer2") taken from the layer folder key.
//
// Layer folders sharing a value each add a folder of the same name; the APIC
// merges them into one, which every relation then targets.
func ExtractZonesAndVlans(c *Context) (bool, error) {
	app, err := c.App()
	if err != nil {
		return false, err
	}

	changed := false
	for _, lp := range layerParams(app, rules.ExtractionKeys()...) {
		ex, ok := rules.ExtractionFor(lp.param.Key)
		if !ok {
			continue
		}
		if lp.param.Value == "" {
			c.logger().Warn("skipping parameter without value",
				zap.String("epg", lp.epg.Name),
				zap.String("folder", lp.layer.Path()),
				zap.String("parameter", lp.param.Name))
			continue
		}

		changed = true
		c.report(ActionMigrating, lp.param.Name, lp.param.Key, lp.epg, lp.layer.Path())
		lp.param.MarkDeleted()

		folder := models.NewFolder(lp.param.Value, ex.FolderKey)
		folder.CopyScope(lp.iface)
		if ex.WithMode {
			folder.AddParameter(models.NewParameter(rules.ParamMode, rules.ParamMode, rules.LayerMode(lp.layer.Key)))
		}
		lp.epg.AddFolder(folder)

		lp.layer.AddRelation(models.NewRelation(ex.RelationName(), ex.RelationKey, folder.Name))
	}
	return changed, nil
}
