package migrate

import (
	"github.com/yaroslav/dpmigrate/models"
	"github.com/yaroslav/dpmigrate/pkg/rules"
)

// MigrateInterfaceFolders rekeys every 1.2 interface folder of the selected
// application profile to its 1.3 key, keeping a backup of the original.
//
// For each live InterfaceConfig folder that is not itself a backup, a deep
// copy with the backup suffix on its name and contract label is added next to
// it. The folder is then rekeyed to Interface and its layer sub-folders lose
// their Config suffix. Already migrated folders no longer match, so running
// the pass twice changes nothing the second time.
func MigrateInterfaceFolders(c *Context) (bool, error) {
	app, err := c.App()
	if err != nil {
		return false, err
	}

	changed := false
	for _, epg := range app.LiveEPGs() {
		for _, folder := range epg.FoldersWithKey(rules.KeyInterfaceConfig) {
			if folder.IsBackup() {
				continue
			}
			changed = true
			c.report(ActionMigrating, folder.Name, folder.Key, epg, "")

			epg.AddFolder(backupOf(folder))
			folder.Key = rules.InterfaceKeyRenames[folder.Key]

			for _, sub := range folder.SubfoldersWithKey(rules.KeyLayer3InterfaceConfig, rules.KeyLayer2InterfaceConfig) {
				c.report(ActionMigrating, sub.Name, sub.Key, epg, "/"+folder.Name)
				sub.Key = rules.LayerKeyRenames[sub.Key]
			}
		}
	}
	return changed, nil
}

func backupOf(f *models.Folder) *models.Folder {
	backup := f.DeepCopy()
	backup.Name = rules.BackupName(backup.Name)
	backup.CtrctNameOrLbl = rules.BackupName(backup.CtrctNameOrLbl)
	backup.Backup = true
	return backup
}
