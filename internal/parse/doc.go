// Package parse turns raw upstream payloads into typed records.
//
// The upstream exposes no stable contract: legacy feeds are positional
// delimited text, CDN feeds are loosely typed JSON. Each parser here is a
// pure function over the response body. A row that is short, or whose key
// field fails to parse, is dropped with a debug log entry and parsing
// continues; a numeric field that fails to parse becomes an absent value,
// never zero. A parser only returns an error when the whole payload is
// undecodable.
package parse
