package llm

import (
	"errors"
	"fmt"
)

// ErrAPIKeyMissing is returned before any network attempt when no API key is
// resolvable from the flag or the environment.
var ErrAPIKeyMissing = errors.New("OpenAI API key not provided: pass --api-key or set OPENAI_API_KEY")

// TransportError wraps a failed completion call (network, auth rejection,
// rate limit, quota). It is fatal at the stage it occurs and is never retried.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("completion request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
