package segment

import "fmt"

// wavHeaderSize is the length of a standard PCM WAV header.
const wavHeaderSize = 44

// FormatError reports audio that fails the minimal format gate. It is not
// retried; the utterance is rejected before any segment reaches a backend.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid audio format: %s", e.Reason)
}

// CheckWAV performs the minimal WAV format check on an inbound buffer:
// at least a full header, RIFF chunk ID and WAVE format signature.
// Anything deeper (sample rate, encoding) is the backend's business.
func CheckWAV(buf []byte) error {
	if len(buf) < wavHeaderSize {
		return &FormatError{Reason: fmt.Sprintf("buffer shorter than WAV header: %d bytes", len(buf))}
	}
	if string(buf[0:4]) != "RIFF" {
		return &FormatError{Reason: "missing RIFF chunk ID"}
	}
	if string(buf[8:12]) != "WAVE" {
		return &FormatError{Reason: "missing WAVE signature"}
	}
	return nil
}
