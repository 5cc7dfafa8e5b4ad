// Package folio is the composition root for the content store behind a
// personal site.
//
// It connects the document model in pkg/core with the filesystem adapter in
// pkg/adapters/fs. The store is a directory of Markdown, JSON and YAML files
// that authors edit by hand; folio only reads it.
//
// Features:
//
//   - **Hexagonal Architecture**: the core knows nothing about files or parsers.
//   - **Frontmatter First**: Markdown frontmatter becomes document metadata.
//   - **Typed Retrieval**: `NewTyped[T]` decodes metadata into your structs and
//     reports the entries that did not fit instead of failing the whole scan.
//   - **Live Reload**: the filesystem adapter can watch for edits and invalidate
//     its parse cache.
//
// Usage:
//
//	svc, err := folio.New(ctx, "./content",
//		folio.WithInclude("posts/*.md", "projects/*.json"),
//		folio.WithLogger(logger),
//	)
//
//	doc, err := svc.GetDocument(ctx, "posts/hello-world")
package folio
