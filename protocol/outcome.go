package protocol

import "bytes"

// FailurePrefix marks a serialized output as a failed remote execution.
// Outputs shorter than the prefix cannot carry it and are success by
// definition; an empty output is the canonical plain-value-transfer success.
var FailurePrefix = []byte{0xDE, 0xAD, 0xBE, 0xEF}

// Outcome is the classified result of a remote execution.
type Outcome struct {
	Failed  bool
	Payload []byte // schema-defined success payload, or failure detail bytes
}

// ParseOutcome classifies a serialized output. The prefix check runs before
// any schema-based interpretation of the payload.
func ParseOutcome(serializedOutput []byte) Outcome {
	if len(serializedOutput) >= len(FailurePrefix) &&
		bytes.Equal(serializedOutput[:len(FailurePrefix)], FailurePrefix) {
		return Outcome{
			Failed:  true,
			Payload: serializedOutput[len(FailurePrefix):],
		}
	}
	return Outcome{Payload: serializedOutput}
}
