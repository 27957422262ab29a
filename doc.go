// Package wxmp is a client for the WeChat Official Account and Mini Program
// HTTP API. A Client caches the access token and signing tickets, derives
// JS-SDK signatures, verifies server callbacks and drives the web
// authorization flow.
package wxmp
