package migrate

import (
	"fmt"

	"github.com/yaroslav/dpmigrate/models"
	"github.com/yaroslav/dpmigrate/pkg/rules"
)

// ClusterAction returns the report verb for a cluster association migrated
// in direction d, for example "Upgrading cluster to 1.3:".
func ClusterAction(kind models.AssociationKind, d rules.Direction) string {
	verb := "Upgrading"
	if d == rules.Reverse {
		verb = "Reverting"
	}
	return fmt.Sprintf("%s %s to %s:", verb, kind.Noun(), d.To)
}

// MigrateClusters returns the associations whose target is exactly the
// source-version literal of their kind, retargeted to the destination
// version. Everything else is left out. The input is not modified.
func MigrateClusters(records []models.ClusterAssociation, d rules.Direction, rep Reporter) []models.ClusterAssociation {
	var out []models.ClusterAssociation
	for _, rec := range records {
		target, ok := rules.RemapClusterTarget(rec.Kind, rec.TargetDN, d)
		if !ok {
			continue
		}
		if rep != nil {
			rep.Report(Event{
				Action: ClusterAction(rec.Kind, d),
				Object: rec.Owner,
				Tenant: rec.Tenant,
			})
		}
		rec.TargetDN = target
		out = append(out, rec)
	}
	return out
}
