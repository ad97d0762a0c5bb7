package cmd

import (
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/reqspec/packages/core/parser"
	"github.com/abdul-hamid-achik/reqspec/packages/core/placeholders"
	"github.com/abdul-hamid-achik/reqspec/packages/http"
	"github.com/spf13/cobra"
)

// Exit codes for reqspec CLI
const (
	// ExitSuccess indicates the request was prepared and, unless dry run, sent
	ExitSuccess = 0

	// ExitRequestFailure indicates the request could not be rendered or sent
	ExitRequestFailure = 1

	// ExitParseError indicates a document parsing error
	ExitParseError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitUnresolved indicates placeholders no source could provide
	ExitUnresolved = 5

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

var (
	errUsage  = errors.New("usage")
	errConfig = errors.New("configuration")
)

func usageError(err error) error {
	return fmt.Errorf("%w: %w", errUsage, err)
}

func configError(err error) error {
	return fmt.Errorf("%w: %w", errConfig, err)
}

// usageArgs wraps a cobra argument validator so its failures map to
// ExitUsageError.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		unresolved  *placeholders.UnresolvedError
		deserialize *parser.DeserializationError
		missing     *parser.MissingFieldError
		invalidType *parser.InvalidTypeError
		invalidFile *parser.InvalidFileError
		requestErr  *http.RequestError
	)

	switch {
	case errors.Is(err, errUsage):
		return ExitUsageError
	case errors.Is(err, errConfig):
		return ExitConfigError
	case errors.As(err, &unresolved):
		return ExitUnresolved
	case errors.As(err, &deserialize), errors.As(err, &missing),
		errors.As(err, &invalidType), errors.As(err, &invalidFile):
		return ExitParseError
	case errors.As(err, &requestErr):
		switch requestErr.Kind {
		case http.ErrTimeout, http.ErrFailedConnection, http.ErrInvalidURL:
			return ExitNetworkError
		}
	}
	return ExitRequestFailure
}
