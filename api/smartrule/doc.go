// Package smartrule provides access to the platform's smart rule service:
// automation rules that live tenant-wide or attached to a managed object.
package smartrule
