package models

import (
	"github.com/google/uuid"
)

// IdentityKind tags the variant carried by an Identity.
type IdentityKind int

const (
	// IdentityAnonymous identifies an unauthenticated caller by source IP.
	IdentityAnonymous IdentityKind = iota
	// IdentityUser identifies a caller authenticated with a bearer JWT.
	IdentityUser
	// IdentityAPIKey identifies a caller authenticated with an issued API key.
	IdentityAPIKey
	// IdentityStaticKey identifies a caller presenting a configured trusted key.
	IdentityStaticKey
)

// Identity is the resolved client identity of one request. It is produced by
// the authentication chain, carried in the request context, and never
// persisted. Exactly one variant's fields are meaningful:
//
//   - IdentityAnonymous: IP
//   - IdentityUser:      UserID, Email
//   - IdentityAPIKey:    APIKeyID, KeyDigest, and UserID when the key is
//     bound to a user (uuid.Nil otherwise)
//   - IdentityStaticKey: KeyDigest
type Identity struct {
	Kind      IdentityKind
	UserID    uuid.UUID
	Email     string
	APIKeyID  uuid.UUID
	KeyDigest string
	IP        string
}

// RateLimitKey derives the rate-limiter bucket key for this identity.
// An authenticated principal always wins over the transport address: a user
// reaching the API from several IPs shares one bucket, and an API key used
// across many clients is limited as a single caller.
func (i Identity) RateLimitKey() string {
	switch i.Kind {
	case IdentityUser:
		return "user:" + i.UserID.String()
	case IdentityAPIKey:
		if i.UserID != uuid.Nil {
			return "user:" + i.UserID.String()
		}
		return "api-key:" + i.KeyDigest
	case IdentityStaticKey:
		return "api-key:" + i.KeyDigest
	case IdentityAnonymous:
		return "ip:" + i.IP
	}
	return "ip:" + i.IP
}

// AuthenticatedUserID returns the user this identity acts for.
// Static keys and anonymous callers have no user; API keys only when bound.
func (i Identity) AuthenticatedUserID() (uuid.UUID, bool) {
	switch i.Kind {
	case IdentityUser:
		return i.UserID, true
	case IdentityAPIKey:
		if i.UserID != uuid.Nil {
			return i.UserID, true
		}
		return uuid.Nil, false
	case IdentityStaticKey, IdentityAnonymous:
		return uuid.Nil, false
	}
	return uuid.Nil, false
}
