// Package repositories provides the local catalog cache persistence layer.
//
// Catalog rows fetched from the backend are mirrored into SQLite so listings
// remain browsable offline. Rows are keyed by the backend's ID (remote_id);
// re-caching an existing row updates it in place.
package repositories
