// Package core implements sessions over uploaded CSV files.
//
// This package holds all domain logic independent of the HTTP layer. It can
// be driven by web handlers, the CLI or tests without modification.
//
// # Lifecycle
//
//  1. [Service.Ingest] writes the upload to <storage dir>/<session id>_<name>,
//     asks the engine for its columns and row count, and only then records
//     the session. A file the engine cannot read is deleted again.
//  2. [Service.Query] resolves the session id to its file, rewrites the
//     placeholder table name "tablename" to a read_csv_auto reference and
//     runs the statement.
//  3. [Service.Cleanup] deletes the file and forgets the session.
//
// Sessions never expire. [Service.PurgeAll] removes everything at shutdown.
//
// # Errors
//
// Every operation returns *[Error] with a [Kind]: validation (400),
// not found (404), engine (500), busy (503) or internal (500). Engine
// messages are carried verbatim. [MapError] adds a support code and a
// suggested action for display.
//
// # Trust
//
// The query text is client-controlled SQL executed by DuckDB with the
// privileges of the server process. Treat the query endpoint as direct
// database access.
package core
