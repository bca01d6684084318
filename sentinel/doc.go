// Package sentinel converts integer columns between an explicit missing mask and a reserved
// sentinel value, for consumers that cannot carry per-value validity.
//
// Insert replaces every missing slot with the sentinel and drops the mask; ToMissing marks every
// slot equal to the sentinel as missing. The round trip is lossy when a present value equals the
// sentinel: that value comes back as missing.
package sentinel
