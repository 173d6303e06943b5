// Package pool provides the resource pool: owned item quantities persisted
// between invocations.
//
// Every mutation is a load-modify-store cycle against a [Store], serialized
// by the [Pool] so concurrent callers in one process never lose writes.
// Quantities are never persisted negative.
//
// Readers that need a consistent view take a [Stock] snapshot once and work
// on that copy; the crafting resolver never touches the live pool.
//
// # Stores
//
//   - [FileStore]: a JSON object file, rewritten atomically (temp file + rename)
//   - [SQLiteStore]: a single table in an embedded SQLite database
//   - [RedisStore]: a Redis hash
//   - [MongoStore]: one document per item in a MongoDB collection
//   - [MemoryStore]: in-memory, for tests and dry runs
package pool
