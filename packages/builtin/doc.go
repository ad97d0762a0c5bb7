// Package builtin provides generated placeholder values.
//
// Available keys:
//   - fn.uuid: Random UUID v4
//   - fn.timestamp: Current Unix timestamp
//   - fn.timestampMs: Current Unix timestamp in milliseconds
//   - fn.now: Current time in RFC 3339
//   - fn.date: Current date as YYYY-MM-DD
//   - fn.randomInt.MIN.MAX: Random integer in [MIN, MAX], 0 to 100 by default
//   - fn.randomString.N: Random alphanumeric string, 16 characters by default
//   - fn.randomEmail: Random email address
//
// Arguments follow the function name separated by dots, so every key stays
// a valid placeholder token.
package builtin
