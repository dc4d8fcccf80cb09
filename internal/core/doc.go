// Package core loads tabular datasets and renders their previews.
//
// It has no knowledge of HTTP or terminals and is shared by the web server
// and the preview CLI.
//
// # Loading
//
// A [Loader] accepts either an uploaded file with a declared name or an
// [ExampleID]. The file extension is resolved once into a [Format] and
// dispatched to the CSV or spreadsheet parser:
//
//	ds, err := loader.LoadFile(ctx, "data.csv", r)
//	if err != nil {
//	    // *LoadError, ErrTooManyLoads or a context error
//	}
//
// Every load failure is a [*LoadError] whose Kind is one of
// [KindUnsupportedFormat], [KindParse] or [KindExampleFetch]; errors.Is works
// against [ErrUnsupportedFormat], [ErrParse] and [ErrExampleFetch].
//
// Examples are registered at init time and fetched through an
// [ExampleRepository], which caches bodies in memory and optionally on disk.
//
// # Sessions
//
// A [Session] holds at most one [Dataset]. [Session.Apply] runs a load and
// swaps the result in only on success, so a failed or cancelled load leaves
// the previous Dataset in place.
//
// # Preview
//
// [RenderPreview] returns the first rows and a [Summary] of per-column
// statistics, or [EmptyPrompt] when nothing is loaded.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with [MapError]:
//
//   - FMT001: unsupported file format
//   - FILE001-FILE006: size, shape and encoding problems
//   - EX001-EX002: unknown or unreachable example
//   - LOAD001-LOAD003: busy, cancelled, timed out
package core
