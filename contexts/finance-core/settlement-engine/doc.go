// Package settlementengine contains the bazaar fee-split and fund-movement
// kernel shared by component purchases, NFT purchases, offer acceptance, and
// auction settlement.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package settlementengine
