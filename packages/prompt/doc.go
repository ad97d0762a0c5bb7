// Package prompt asks the user for placeholder values on a terminal.
//
// Only keys declared under [input_params] are asked for. An empty answer
// leaves the key to the next value source.
package prompt
