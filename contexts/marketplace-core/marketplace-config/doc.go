// Package marketplaceconfig owns the singleton marketplace configuration
// record: the admin authority, the treasury and platform-reserve accounts,
// the fee parameters, and the cumulative volume/listing/sale counters that
// settlement transactions increment.
package marketplaceconfig
