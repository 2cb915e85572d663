// Package models provides the configuration tree shared by the dpmigrate
// codec, migration passes, controller client and simulator.
//
// The tree mirrors the slice of an APIC tenant that a Palo Alto Networks
// device package owns:
//   - Tenant: top-level administrative container
//   - AppProfile: application profile within a tenant
//   - EPG: endpoint group within an application profile
//   - Folder: device-package configuration folder, nested arbitrarily
//   - Parameter: key/value leaf inside a folder
//   - Relation: named reference from a folder to another folder
//
// Every node carries a NodeState. Deleting a node only changes its state, so the
// deletion is still serialized when the tree is pushed back to the controller.
// Lookup helpers skip deleted nodes.
//
// ClusterAssociation is not part of the tree. It is a flat record describing
// which device package a logical device cluster is bound to.
package models
