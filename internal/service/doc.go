// Package service implements the logical request layer: resolve an
// instrument, fetch its feeds through the transport, parse, and assemble
// the canonical table.
//
// One Service value owns a client per upstream host; method groups mirror
// the request families (resolution, prices, indexes, market watch,
// intraday).
package service
