// Package migrate rewrites a device package configuration tree between
// versions 1.2 and 1.3 of the Palo Alto Networks device package.
//
// Each pass is a Step that mutates the tree in place and reports whether it
// changed anything. A Runner fetches the tree, runs the steps selected by the
// invocation's Actions and pushes the result once, or twice for a revert.
package migrate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/yaroslav/dpmigrate/models"
)

// Report actions.
const (
	ActionMigrating = "Migrating"
	ActionDeleting  = "Deleting"
	ActionReverting = "Reverting"
)

// Event describes one object touched by a pass.
type Event struct {
	// Action is the verb shown to the operator ("Migrating", "Deleting", ...).
	Action string

	// Object is the name of the folder, parameter or cluster object.
	Object string

	// Key is the object's key before the change, empty for cluster objects.
	Key string

	// Tenant, App and EPG locate the object.
	Tenant string
	App    string
	EPG    string

	// Path is the folder path below the EPG, for example "/ext/l3".
	Path string
}

// Reporter receives an Event for every object a pass touches.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(Event)

// Report calls f(ev).
func (f ReporterFunc) Report(ev Event) { f(ev) }

// Context is handed to every step.
type Context struct {
	// Tenant is the fetched configuration tree.
	Tenant *models.Tenant

	// AppName is the application profile the tree passes rewrite.
	AppName string

	// Reporter receives the per-object events. Nil discards them.
	Reporter Reporter

	// Logger receives debug output. Nil discards it.
	Logger *zap.Logger

	touched int
}

// App returns the selected application profile.
func (c *Context) App() (*models.AppProfile, error) {
	app := c.Tenant.AppProfile(c.AppName)
	if app == nil {
		return nil, fmt.Errorf("%w: %s", models.ErrAppProfileNotFound, c.AppName)
	}
	return app, nil
}

// Touched returns how many objects were reported since the last call, and
// resets the count.
func (c *Context) Touched() int {
	n := c.touched
	c.touched = 0
	return n
}

func (c *Context) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *Context) report(action, object, key string, epg *models.EPG, path string) {
	c.touched++
	ev := Event{
		Action: action,
		Object: object,
		Key:    key,
		Tenant: c.Tenant.Name,
		App:    c.AppName,
		EPG:    epg.Name,
		Path:   path,
	}
	c.logger().Debug("pass touched object",
		zap.String("action", action),
		zap.String("object", object),
		zap.String("key", key),
		zap.String("epg", epg.Name),
		zap.String("path", path))
	if c.Reporter != nil {
		c.Reporter.Report(ev)
	}
}
