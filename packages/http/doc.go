// Package http holds the canonical request model and executes it.
//
// It provides:
//   - Request, an ordered, flattened form of a parsed document
//   - BuildRequest, which flattens a parser.Document
//   - Client, a configurable executor with redirect, proxy and TLS options
//   - Multipart and urlencoded body encoding
//   - RequestError, classifying transport failures
package http
