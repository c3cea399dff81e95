// Package fetch runs independent fetch units with bounded concurrency.
//
// A unit is one (instrument, day) or (instrument) work item. Units never
// share state; a failing unit is logged and omitted from the result, and
// output order depends only on the units' natural key, never on completion
// order.
package fetch
