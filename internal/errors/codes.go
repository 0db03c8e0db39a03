package errors

// Error codes for the taco translator
// These codes are used in diagnostics and in the pipeline error taxonomy
// to provide consistent error identification across the toolchain.
//
// Error code ranges:
// T0001-T0099: Configuration errors
// T0100-T0199: Front-end (syntax) errors
// T0200-T0299: Translation errors
// T0300-T0399: Assembly errors
// T0400-T0499: Invariant synthesis errors
// T0500-T0599: Artifact I/O errors
// W0001-W0099: Warnings

const (
	// T0001: Mandatory configuration key missing
	ErrorMissingConfigKey = "T0001"

	// T0002: Configuration value out of range or malformed
	ErrorInvalidConfigValue = "T0002"

	// T0100: Syntax error in an annotated source file
	ErrorSyntax = "T0100"

	// T0101: Malformed assertion annotation
	ErrorAnnotationSyntax = "T0101"

	// T0200: Unsupported syntactic construct
	ErrorUnsupportedConstruct = "T0200"

	// T0201: Reference to an unknown identifier
	ErrorUnknownIdentifier = "T0201"

	// T0202: Integer literal does not fit the configured bit width
	ErrorLiteralOutOfRange = "T0202"

	// T0203: Intermediate text failed to re-parse or lost identifiers
	ErrorRoundTrip = "T0203"

	// T0204: Designated check target absent from lowered programs
	ErrorMethodNotFound = "T0204"

	// T0300: Arithmetic constraint index is missing an entry
	ErrorMissingArithmeticEntry = "T0300"

	// T0400: Marker expected by invariant synthesis is absent
	ErrorMissingMarker = "T0400"

	// T0500: Artifact could not be written, read or removed
	ErrorArtifactIO = "T0500"

	// W0001: Unit skipped after a translation failure
	WarningUnitSkipped = "W0001"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorMissingConfigKey:
		return "A mandatory configuration key is missing"
	case ErrorInvalidConfigValue:
		return "A configuration value is malformed or out of range"
	case ErrorSyntax:
		return "The annotated source could not be parsed"
	case ErrorAnnotationSyntax:
		return "An assertion annotation could not be parsed"
	case ErrorUnsupportedConstruct:
		return "The construct has no relational translation"
	case ErrorUnknownIdentifier:
		return "Identifier is not a field, parameter or local variable"
	case ErrorLiteralOutOfRange:
		return "Integer literal exceeds the configured bit width"
	case ErrorRoundTrip:
		return "Intermediate module did not survive its text round trip"
	case ErrorMethodNotFound:
		return "The method to check was not translated"
	case ErrorMissingArithmeticEntry:
		return "Arithmetic constraint index has no entry for an emitted identifier"
	case ErrorMissingMarker:
		return "Generated specification lacks a marker needed for invariant synthesis"
	case ErrorArtifactIO:
		return "Artifact file operation failed"
	case WarningUnitSkipped:
		return "Unit skipped after a translation failure"
	default:
		return "Unknown error code"
	}
}

// IsWarning returns true if the error code represents a warning rather than an error
func IsWarning(code string) bool {
	return code != "" && code[0] == 'W'
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code >= "T0001" && code < "T0100":
		return "Configuration"
	case code >= "T0100" && code < "T0200":
		return "Front End"
	case code >= "T0200" && code < "T0300":
		return "Translation"
	case code >= "T0300" && code < "T0400":
		return "Assembly"
	case code >= "T0400" && code < "T0500":
		return "Synthesis"
	case code >= "T0500" && code < "T0600":
		return "I/O"
	case IsWarning(code):
		return "Warning"
	default:
		return "Unknown"
	}
}
