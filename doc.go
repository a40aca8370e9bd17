// Package devicecloud is a Go client for the device cloud platform's REST
// API: applications, inventory and binaries, external ids, device
// simulators and smart rules.
//
// The aggregate Client wires the five API surfaces over one shared HTTP
// stack (auth, request ids, logging, metrics, rate limiting). Each surface
// can also be constructed standalone from its package under api/.
package devicecloud
