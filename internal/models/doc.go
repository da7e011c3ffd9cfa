// Package models defines the data model for the zx storefront client.
//
// Types mirror the backend's JSON records: users, catalog content and
// categories, watchlist and library entries, purchases, rentals, ratings and
// comments. The api package decodes wire responses directly into these
// structs, the repositories package persists a subset of them to the local
// cache, and the formatter and ui packages render them.
package models
