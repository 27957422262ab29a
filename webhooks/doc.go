// Package webhooks verifies that inbound callbacks were signed by the
// platform with the shared server token.
package webhooks
