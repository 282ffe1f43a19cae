// Package revenuepool implements the revenue distribution pool: a singleton
// split between a creator account and a platform account whose shares must
// sum to exactly ten thousand basis points, with every distributed amount
// conserved to the unit.
package revenuepool
