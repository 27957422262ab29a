// Package transport provides the net/http implementation of core.Transport
// used to reach the platform API.
package transport
