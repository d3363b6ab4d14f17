// Package filesystem ingests local directories into the chunk store.
//
// The Connector walks a root directory, skips hidden and binary files,
// and indexes every text file under the source identifier
// file://<absolute path>. The Watcher layers fsnotify on top of the
// same loading rules so edits re-index and removals delete, with a
// token bucket keeping editor save storms cheap.
package filesystem
