// Package domain defines the core domain types and interfaces.
//
// This package contains concept-oriented files (stock.go, watchlist.go, membership.go,
// update.go, health.go) with the entity records, create inputs, partial-update intents
// and the repository contracts the persistence adapter implements. No implementation
// code - just contracts. Interfaces live here so consumers do not import the adapter.
package domain
