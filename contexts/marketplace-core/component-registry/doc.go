// Package componentregistry implements the fixed-price digital component
// marketplace: listing and delisting components, purchasing them through the
// settlement engine, and the append-only purchase receipts.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package componentregistry
