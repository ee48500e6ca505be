// Package querylog provides a file-based implementation of driven.QueryLog.
//
// Queries are appended to query_history.jsonl, one JSON object per line.
// Ratings go to ratings.jsonl next to it. Each append is written with
// O_APPEND and synced before returning. A line torn by a crash mid-write
// is terminated by the next append and skipped on read.
package querylog
