// Package client talks to the gophforum server.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     accounts, threads, messages, search, profiles and role assignment.
//  2. A concrete gRPC implementation (see GRPCClient) that manages a
//     connection, injects an access token via an interceptor, transparently
//     refreshes expired tokens, and maps gRPC status codes to sentinel errors.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrForbidden, ErrNotFound,
// ErrAlreadyExists, ErrInvalidInput, ErrNotConfigured.
//
// GRPCClient is safe for concurrent use. All operations accept
// context.Context and honour cancellation; each call is additionally bounded
// by the configured request timeout.
package client
