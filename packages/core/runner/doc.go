// Package runner drives a request document through the templating pipeline
// and sends the result.
//
// A run parses the document, builds the canonical request, resolves its
// placeholders through the value source chain, renders them and executes
// the request. Unresolved placeholders abort the run unless
// Config.AllowUnresolved is set.
package runner
