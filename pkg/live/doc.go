// Package live runs the page behaviors server-side. Each WebSocket
// connection gets a session holding an in-memory mirror of the page,
// a controller bound to it, and a single event goroutine; client
// events are dispatched into the mirror and the resulting mutations
// are streamed back as binary patches.
package live
