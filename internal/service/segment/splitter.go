// Package segment provides audio buffer segmentation, the minimal audio
// format gate, and segment ID generation.
package segment

// DefaultSizeBytes is the default segment size submitted to transcription.
const DefaultSizeBytes = 16 * 1024

// Splitter slices an audio buffer into bounded-size segments by byte offset.
// Segmentation is lossless: concatenating the segments in order reproduces
// the original buffer exactly.
type Splitter struct {
	size int
}

// NewSplitter creates a Splitter with the given segment size.
// Non-positive sizes fall back to DefaultSizeBytes.
func NewSplitter(size int) *Splitter {
	if size <= 0 {
		size = DefaultSizeBytes
	}
	return &Splitter{size: size}
}

// Size returns the configured segment size in bytes.
func (s *Splitter) Size() int {
	return s.size
}

// Split returns the ordered segments of buf. Every segment has the
// configured size except possibly the final one. An empty buffer yields
// zero segments. The returned slices alias buf and must not outlive the
// pipeline invocation that produced them.
func (s *Splitter) Split(buf []byte) [][]byte {
	if len(buf) == 0 {
		return nil
	}
	segments := make([][]byte, 0, (len(buf)+s.size-1)/s.size)
	for offset := 0; offset < len(buf); offset += s.size {
		end := offset + s.size
		if end > len(buf) {
			end = len(buf)
		}
		segments = append(segments, buf[offset:end])
	}
	return segments
}
