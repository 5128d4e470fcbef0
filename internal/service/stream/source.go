package stream

import (
	"errors"
	"io"
	"sync"
)

// DefaultChunkSize is the number of audio bytes sent per frame.
const DefaultChunkSize = 8192

// Source splits an audio reader into fixed-size chunks. An optional replay
// chunk is returned before anything is read from the reader.
type Source struct {
	r    io.Reader
	size int

	mu     sync.Mutex
	replay []byte
	last   []byte
	eof    bool
}

// NewSource returns a Source reading size bytes per chunk. A non-positive
// size selects DefaultChunkSize.
func NewSource(r io.Reader, size int) *Source {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &Source{r: r, size: size}
}

// Replay makes chunk the first chunk returned by Next. An empty chunk is
// ignored.
func (s *Source) Replay(chunk []byte) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(chunk) > 0 {
		s.replay = chunk
	}
	return s
}

// Next returns the next chunk. Every chunk is full length except possibly
// the last one before io.EOF.
func (s *Source) Next() ([]byte, error) {
	s.mu.Lock()
	if s.replay != nil {
		c := s.replay
		s.replay = nil
		s.last = c
		s.mu.Unlock()
		return c, nil
	}
	eof := s.eof
	s.mu.Unlock()

	if eof {
		return nil, io.EOF
	}

	buf := make([]byte, s.size)
	n, err := io.ReadFull(s.r, buf)
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		s.mu.Lock()
		s.eof = true
		s.last = buf[:n]
		s.mu.Unlock()
		return buf[:n], nil
	case err != nil:
		return nil, err
	}

	s.mu.Lock()
	s.last = buf
	s.mu.Unlock()
	return buf, nil
}

// Last returns the most recent chunk returned by Next, or nil.
func (s *Source) Last() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
