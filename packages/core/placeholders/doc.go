// Package placeholders finds, resolves and substitutes {{key}} tokens in a
// canonical request.
//
// A run goes through three steps:
//
//	ph := placeholders.Scan(req)
//	values := placeholders.NewResolver(sources...).Resolve(ctx, ph)
//	rendered, err := placeholders.Render(req, ph, values)
//
// Scan records where each key occurs. Resolve asks the value sources in
// order and keeps the first answer. Render replaces resolved keys only at
// the locations Scan found them and leaves unresolved tokens in place.
package placeholders
