// Package schema provides the platform-independent value types shared by
// the other packages: open flags, file modes and metadata snapshots.
package schema
