// Package transport provides the rate-limited HTTP client shared by every
// upstream feed.
//
// The exchange serves two hosts: a legacy host returning delimited text and
// a CDN host returning JSON. Both are fronted by the same Client type; the
// caller constructs one client per host and passes a shared rate limiter so
// the minimum spacing between outbound requests holds across hosts.
package transport
