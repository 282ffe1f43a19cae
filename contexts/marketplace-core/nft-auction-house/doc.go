// Package auctionhouse implements NFT marketplace listings: fixed-price
// sales, English auctions with escrowed bids, standing offers, and auction
// settlement. While a listing is active the asset sits in the marketplace
// custody account and at most one bidder's funds are escrowed per listing.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package auctionhouse
