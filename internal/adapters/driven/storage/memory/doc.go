// Package memory provides in-memory implementations of the driven stores.
// Threads and knowledge chunks live only for the lifetime of the process.
package memory
