package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// session token on inbound requests.
const AccessTokenHeaderName = "access_token"

// SessionCookieName is the HTTP cookie carrying the session token.
const SessionCookieName = "session-token"
