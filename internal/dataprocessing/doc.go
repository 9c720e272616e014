// Package dataprocessing implements the core of the store cleaning pipeline.
// It handles the complete data lifecycle from tabular ingestion to
// analytical aggregates.
//
// # Architecture
//
// The package is organized into four main components:
//
// 1. Loader: Reads CSV or XLSX store files into raw field mappings
// 2. Cleaner: Validates, deduplicates and normalizes rows into StoreRecords
// 3. Subset: Filters the cleaned collection by country
// 4. Aggregator: Computes per-dimension counts, percentages and summaries
//
// # Data Flow
//
// The typical data flow through this package:
//
//	Input File → Loader → RawTable → Cleaner → StoreRecords (+ CleaningReport)
//	    → FilterByCountry → Subset → Aggregator → AggregateStats
//
// # Error Handling
//
// Only unreadable or header-less input is fatal, surfaced as an AppError of
// type IO. Per-row problems (malformed rows, failed validation, duplicates)
// are accumulated into the CleaningReport and never abort a run.
//
// # Determinism
//
// Cleaning preserves original row order among retained records, duplicates
// resolve first-seen-wins, and aggregate ordering is count-descending with
// lexicographic tie-breaks, so identical input always produces identical
// output files and statistics.
package dataprocessing
