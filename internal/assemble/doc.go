// Package assemble normalizes parsed records into the final canonical table.
//
// A table is rows of typed cells under named columns. Assembly sorts on the
// natural key, deduplicates keeping the first occurrence after the sort,
// renders date columns per the calendar display mode, and prunes rows and
// columns that are entirely empty. A row is never dropped for a single
// absent optional field.
package assemble
