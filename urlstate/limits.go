package urlstate

// Ceilings applied to every untrusted value. They are deliberately not
// configurable per call.
const (
	// MaxInputLength is the largest parameter value, in bytes, that the
	// tokenizer will look at.
	MaxInputLength = 1 << 20

	// MaxParseIterations caps tokenizer steps. A step is one delimiter match
	// or the end of the input.
	MaxParseIterations = 10000

	// MaxRecordLength caps the raw text of one record, in bytes.
	MaxRecordLength = 2048
)

// List defaults.
const (
	DefaultMaxItems  = 1000
	DefaultDelimiter = ";"
)

// MaxParams caps the number of key/value pairs read from one query string.
const MaxParams = 64
