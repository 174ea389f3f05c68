// Package http exposes the vacation service over HTTP with gin.
//
// The acting user is taken from the X-Actor-ID header. Failures are rendered
// as {"kind", "message", "peak"} with the status code chosen by StatusOf.
package http
