// Package model defines the canonical record types produced by the parsers
// and consumed by the assembly layer. Records are immutable once produced;
// nothing keeps a reference back to the raw payload they came from.
package model
