// Package simulator provides access to the device simulator service.
//
// The service is backed by an asynchronous provisioning pipeline and is
// known to intermittently reject writes while it works: create and update
// therefore retry a few times with a fixed pause, and CreateAndAwaitDevices
// pauses after creation before polling the identity service for the device
// objects the backend derives (external ids "{simulatorID}_{n}", one per
// instance).
package simulator
