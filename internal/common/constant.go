package common

// AccessTokenHeaderName is the gRPC metadata key (and default cookie name)
// used to carry the session token.
const AccessTokenHeaderName = "access_token"

// AuthorizationHeaderName carries "Bearer <token>" when no cookie is sent.
const AuthorizationHeaderName = "authorization"

// BearerPrefix is the scheme prefix of the Authorization header value.
const BearerPrefix = "Bearer "
