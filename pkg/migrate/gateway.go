package migrate

import (
	"github.com/yaroslav/dpmigrate/models"
	"github.com/yaroslav/dpmigrate/pkg/rules"
)

// ExtractDefaultGateways replaces each default_gateway parameter of the layer
// folders with a default_gateway StaticRoute folder on the EPG whose nexthop
// is the old value and whose destination is 0.0.0.0/0.
//
// Every gateway adds its own default_gateway folder, even when the EPG
// already has one; the APIC merges folders of the same name.
func ExtractDefaultGateways(c *Context) (bool, error) {
	app, err := c.App()
	if err != nil {
		return false, err
	}

	changed := false
	for _, lp := range layerParams(app, rules.ParamDefaultGateway) {
		changed = true
		c.report(ActionMigrating, lp.param.Name, lp.param.Key, lp.epg, lp.layer.Path())
		lp.param.MarkDeleted()

		route := models.NewFolder(rules.DefaultGatewayFolder, rules.KeyStaticRoute)
		route.CopyScope(lp.iface)
		route.AddParameter(models.NewParameter(rules.ParamNexthop, rules.ParamNexthop, lp.param.Value))
		route.AddParameter(models.NewParameter(rules.ParamDestination, rules.ParamDestination, rules.DefaultRouteDestination))
		lp.epg.AddFolder(route)
	}
	return changed, nil
}
