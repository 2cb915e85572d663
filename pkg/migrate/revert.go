package migrate

import (
	"github.com/yaroslav/dpmigrate/models"
	"github.com/yaroslav/dpmigrate/pkg/rules"
)

// DeleteMigratedFolders marks every folder that only exists after a
// migration (Interface, Zone, Vlan, StaticRoute) for deletion.
//
// It refuses with ErrNoBackups when there are migrated folders but nothing to
// restore them from, leaving the tree untouched.
func DeleteMigratedFolders(c *Context) (bool, error) {
	app, err := c.App()
	if err != nil {
		return false, err
	}

	migrated, backups := 0, 0
	for _, epg := range app.LiveEPGs() {
		migrated += len(epg.FoldersWithKey(rules.MigratedKeys...))
		for _, f := range epg.LiveFolders() {
			if f.IsBackup() {
				backups++
			}
		}
	}
	if migrated > 0 && backups == 0 {
		return false, ErrNoBackups
	}

	changed := false
	for _, epg := range app.LiveEPGs() {
		for _, folder := range epg.FoldersWithKey(rules.MigratedKeys...) {
			changed = true
			c.report(ActionDeleting, folder.Name, folder.Key, epg, "")
			folder.MarkDeleted()
		}
	}
	return changed, nil
}

// RestoreBackups renames every backup folder back to its pre-migration name.
//
// Migrated folders deleted by DeleteMigratedFolders were already pushed, so
// they are unlinked first. For each backup, a deleted copy keeps the suffixed
// name (removing the backup from the controller) while the backup itself
// loses the suffix and becomes the live 1.2 folder again.
func RestoreBackups(c *Context) (bool, error) {
	app, err := c.App()
	if err != nil {
		return false, err
	}

	changed := false
	for _, epg := range app.LiveEPGs() {
		pruneMigrated(epg)

		for _, folder := range epg.LiveFolders() {
			if !folder.IsBackup() {
				continue
			}
			changed = true
			c.report(ActionReverting, folder.Name, folder.Key, epg, "")

			stale := folder.DeepCopy()
			stale.MarkDeleted()
			epg.AddFolder(stale)

			folder.Name = rules.RestoredName(folder.Name)
			folder.CtrctNameOrLbl = rules.RestoredName(folder.CtrctNameOrLbl)
			folder.Backup = false
		}
	}
	return changed, nil
}

// pruneMigrated unlinks every folder with a migrated key, live or not.
func pruneMigrated(epg *models.EPG) {
	for _, f := range append([]*models.Folder(nil), epg.Folders...) {
		for _, key := range rules.MigratedKeys {
			if f.Key == key {
				epg.RemoveFolder(f)
				break
			}
		}
	}
}
