// Package api is the wire contract between the TaskKeeper client and server.
//
// The contract is defined in taskkeeper.proto. Messages are plain Go structs
// mirroring it, carried over gRPC with a JSON codec registered under the
// "json" content-subtype. The service descriptor and client stub are written
// by hand in the shape protoc-gen-go-grpc would produce, so the transport,
// interceptors and status codes behave as with any other gRPC service.
package api

import _ "embed"

// Schema is the text of taskkeeper.proto.
//
//go:embed taskkeeper.proto
var Schema string
