// Package common contains shared constants and sentinel errors used across
// notekeeper components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// GuestUserKey is the local-only namespace used when nobody is signed in.
const GuestUserKey = "guest"

// Roles known to the note store server.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
)
