// Package parser decodes reqspec request documents.
//
// A request document is a TOML file describing a single HTTP request:
//
//	[http]
//	method = "POST"
//	url = "https://api.example.com/{{version}}/notes"
//
//	[headers]
//	Content-Type = "application/json"
//
//	[query_params]
//	tags = ["work", "urgent"]
//
//	[body]
//	raw = '{"title": "{{title}}"}'
//
//	[variables]
//	version = "v1"
//
// The parser handles:
//   - Field aliases (queryparams, query-params, form-data, ...)
//   - Defaults for the method, the HTTP version and every optional table
//   - Rejection of datetimes and nested tables inside free-form tables
//   - The exactly-one-of rule for body variants
//
// Placeholders such as {{version}} are kept verbatim; resolving them is the
// job of the placeholders package.
package parser
