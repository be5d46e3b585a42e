// Package common contains constants and sentinel errors shared by the
// secdesk client and server.
package common

// AuthHeaderName carries the session token on every authenticated request.
const AuthHeaderName = "Authorization"

// TokenScheme prefixes the token in AuthHeaderName: "Token <token>".
const TokenScheme = "Token"

// Pagination defaults of the REST collections.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Correspondence directions.
const (
	DirectionIncoming = "Incoming"
	DirectionOutgoing = "Outgoing"
	DirectionInternal = "Internal"
)

// Correspondence priorities.
const (
	PriorityHigh   = "high"
	PriorityNormal = "normal"
	PriorityLow    = "low"
)

// User roles.
const (
	RoleAdmin  = "admin"
	RoleNormal = "normal"
)
