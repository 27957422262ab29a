// Package credentials caches the platform access token and signing tickets
// and refreshes them on demand.
//
// Store holds the values, Acquirer performs the live platform calls and
// Manager combines both into a get-or-refresh accessor that coalesces
// concurrent refreshes of the same kind.
package credentials
