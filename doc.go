// Package gather is the Composition Root for the gather toolkit.
//
// It connects the in-memory result model (pkg/core) with the sources that
// feed it (pkg/adapters) and the query pipeline that shapes the merged
// result (internal/platform).
//
// Philosophy:
//
// Results arrive from several independent queries, each with its own partial
// failures. Gather keeps both: items are merged into a MultiCollection in
// source order and every failure is carried along as an error message, so a
// caller can render what succeeded and report what did not.
//
// Features:
//
//   - **Merge First**: MultiCollection.Append concatenates items and errors of any collection.
//   - **Field Semantics**: Filter and OrderBy resolve fields by name; a missing field is "Property not defined.".
//   - **File Sources**: JSON, YAML, CSV and Markdown frontmatter behind doublestar globs.
//   - **SQL Sources**: any database/sql driver; SQLite (modernc) is linked in.
//   - **Typed Access**: `typed.Collect[T]` decodes items into structs.
//
// Usage:
//
//	q, err := gather.LoadQuery("gather.yaml")
//	if err != nil {
//		return err
//	}
//	merged, err := gather.Run(ctx, q, gather.WithLogger(logger))
package gather
