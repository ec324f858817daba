// Package core is the document service behind the csvview server.
//
// It sits between the transports (HTTP handlers, the command line tool) and
// the table engine, and is independent of both.
//
// # Documents
//
// A [Document] is a parsed [table.Table] plus its origin: a file on the
// server's disk ([Service.OpenFile]) or uploaded bytes
// ([Service.OpenUpload]). The service holds at most one open document.
// Opening replaces it only after the new text parsed cleanly; a failed
// open leaves the old document untouched. [Service.Parse] validates text
// without opening it.
//
// # Parsing
//
// Every parse runs on a worker goroutine holding a [ParseLimiter] slot. The
// caller's context bounds how long it waits for the slot and for the
// result; the scan itself always runs to completion, so the slot count
// reflects real work and [Service.WaitForParses] can drain it on shutdown.
//
// # Errors
//
// Parse failures are returned as the engine's own types
// (*table.QuoteError, *table.RowShapeError) and loading failures as
// *source.Error. [MapError] turns any of them into a coded [UserMessage].
package core
