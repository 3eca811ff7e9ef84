// Package snowgrid extracts tabular data from HTML reports and moves it
// through a small publishing workflow: fetch a report, pull the first
// meaningful table out of its (often malformed) HTML, serialize it to CSV,
// enrich it with contact ownership, and publish the result as a Confluence
// page.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or concern (e.g., htmltable/, sqlite/,
// confluence/).
package snowgrid
