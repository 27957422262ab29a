// Package signature derives the JS-SDK URL signature and the card signature
// from tickets, nonces and timestamps.
package signature
