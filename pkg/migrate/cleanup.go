package migrate

import "github.com/yaroslav/dpmigrate/pkg/rules"

// CleanupBackups marks every 1.2 interface folder backup of the selected
// application profile for deletion. After the push there is nothing left to
// revert to.
func CleanupBackups(c *Context) (bool, error) {
	app, err := c.App()
	if err != nil {
		return false, err
	}

	changed := false
	for _, epg := range app.LiveEPGs() {
		for _, folder := range epg.FoldersWithKey(rules.KeyInterfaceConfig) {
			if !folder.IsBackup() {
				continue
			}
			changed = true
			c.report(ActionDeleting, folder.Name, folder.Key, epg, "")
			folder.MarkDeleted()
		}
	}
	return changed, nil
}
