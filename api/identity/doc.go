// Package identity provides access to the platform's identity service,
// which maps external identifiers (serial numbers, IMEIs, simulator
// instance names) onto managed objects.
package identity
