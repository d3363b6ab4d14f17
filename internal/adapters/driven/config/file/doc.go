// Package file implements a TOML-backed ConfigStore.
//
// Configuration lives at ~/.recall/config.toml and is loaded once at
// startup. Recognised keys:
//
//	chunk_size           window size in characters (default 1000)
//	chunk_overlap        window overlap in characters (default 200)
//	embedding_dimensions embedding vector width (default 256)
//	data_dir             directory holding corpus.db
//	query_limit          default number of query results (default 5)
//
// Nested TOML tables are flattened into dot-notation keys, so
// [chunker] size = 500 is readable as "chunker.size".
package file
