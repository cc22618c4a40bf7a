// Package common contains shared constants and sentinel errors used across
// accountkeeper components.
package common

// AccessTokenCookieName and RefreshTokenCookieName are the cookie names used
// to carry the token pair between the server and browser clients.
const (
	AccessTokenCookieName  = "accessToken"
	RefreshTokenCookieName = "refreshToken"
)

// AuthorizationHeaderName carries the access token for clients that cannot
// use cookies, in the form "Bearer <token>".
const AuthorizationHeaderName = "Authorization"
