// Package client contains the transport executors of the dashboard client.
//
// # Overview
//
// The package provides:
//  1. The Executor contract: perform one outbound call with the current
//     credential and classify the result into a models.Outcome.
//  2. HTTPExecutor, the REST transport: resolves Request.Path against a base
//     URL, attaches "Authorization: Bearer <access token>", keeps a cookie
//     jar for ambient session cookies and applies a fixed timeout.
//  3. GRPCExecutor, the gRPC transport: invokes a unary method with the
//     access token in outgoing metadata.
//
// # Classification
//
//	no response / timeout      -> Unreachable
//	503, codes.Unavailable     -> ServerError(503)
//	401, codes.Unauthenticated -> Unauthorized
//	other non-2xx, other codes -> OtherError
//	2xx, codes.OK              -> Success
//
// Executors never retry and never refresh credentials; that is the job of
// the session coordinator built on top of them.
package client
