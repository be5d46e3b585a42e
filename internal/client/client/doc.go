// Package client bootstraps the local state of the console: it opens the
// SQLite file under the data directory, applies the embedded goose
// migrations and hands out the repositories built on top of it.
package client
