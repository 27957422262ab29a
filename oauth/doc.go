// Package oauth implements the platform web authorization flow: building the
// authorize redirect, exchanging the returned code and reading the user
// profile with the resulting user-scoped token.
package oauth
