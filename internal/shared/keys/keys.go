// Package keys derives deterministic record identifiers from natural keys.
// Records keyed this way (components, purchases, listings, offers) can be
// re-derived by any caller without a lookup index, and duplicate creation is
// rejected by the storage layer's primary key.
package keys

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Derive hashes the given parts into a stable hex identifier.
func Derive(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// Purchase derives the receipt key for one buyer's purchase of a component.
func Purchase(buyer string, componentID string) string {
	return Derive("purchase", buyer, componentID)
}

// Listing derives the key of an NFT listing from its seller and asset.
func Listing(seller string, nftMint string) string {
	return Derive("listing", seller, nftMint)
}

// Offer derives the key of a buyer's standing offer against a listing.
func Offer(buyer string, listingID string) string {
	return Derive("offer", buyer, listingID)
}
