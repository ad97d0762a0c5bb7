package parser

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// StdinPath is the path that makes ParseFile read standard input.
const StdinPath = "-"

// DefaultExtension is appended to paths that have no extension.
const DefaultExtension = ".toml"

// Parse decodes and validates a request document.
func Parse(content string) (*Document, error) {
	var tree map[string]any
	md, err := toml.Decode(content, &tree)
	if err != nil {
		return nil, syntaxError(err)
	}
	return decodeDocument(tree, newKeyOrder(md))
}

func ParseReader(r io.Reader) (*Document, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, &InvalidFileError{Path: StdinPath, Err: err}
	}
	return Parse(string(content))
}

// ParseFile reads and parses the document at path. A path without an
// extension gets ".toml" appended and "-" reads standard input.
func ParseFile(path string) (*Document, error) {
	if path == StdinPath {
		return ParseReader(os.Stdin)
	}
	path = ResolvePath(path)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &InvalidFileError{Path: path, Err: err}
	}
	return Parse(string(content))
}

// ResolvePath returns the file name ParseFile would read for path.
func ResolvePath(path string) string {
	if path == StdinPath || filepath.Ext(path) != "" {
		return path
	}
	return path + DefaultExtension
}

func syntaxError(err error) error {
	var perr toml.ParseError
	if !errors.As(err, &perr) {
		return &DeserializationError{Message: err.Error()}
	}
	return &DeserializationError{
		Message: perr.Message,
		Span: &Span{
			Line:   perr.Position.Line,
			Column: perr.Position.Col,
			Offset: perr.Position.Start,
			Length: perr.Position.Len,
		},
	}
}
