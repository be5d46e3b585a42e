// Package table is a headless data-table model over loosely typed records
// served by a paginated REST collection.
//
// The Model owns the query (page, sort, column filters, advanced filters,
// global search) and the loaded rows. Sorting and filtering are never
// applied locally: every change is turned into list parameters and the
// rows are reloaded through the caller's Loader. Rendering, inline edit
// commits and row actions stay with the caller.
package table
