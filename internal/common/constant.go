// Package common contains constants, sentinel errors and small helpers shared
// by the TaskKeeper client and server.
package common

// AccessTokenHeaderName is the gRPC metadata key carrying the access token.
const AccessTokenHeaderName = "access_token"
