package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Segment is one ordered, size-bounded piece of a job's audio. Index is dense
// 0..N-1 within a job and decides the position of its transcript.
type Segment struct {
	Index int
	Codec string
	Size  int64
	Start time.Duration
	End   time.Duration

	write func(path string) error
}

// Export materializes the segment as a file inside dir and returns its path.
func (s Segment) Export(dir string) (string, error) {
	if s.write == nil {
		return "", fmt.Errorf("segment %d has no audio source", s.Index)
	}
	path := filepath.Join(dir, fmt.Sprintf("segment_%03d.%s", s.Index, s.Codec))
	if err := s.write(path); err != nil {
		return "", fmt.Errorf("export segment %d: %w", s.Index, err)
	}
	return path, nil
}

// NewFileSegment wraps an already encoded file. Export moves the file, so the
// segment can be exported once.
func NewFileSegment(index int, codec, path string, size int64, duration time.Duration) Segment {
	return Segment{
		Index: index,
		Codec: codec,
		Size:  size,
		End:   duration,
		write: func(dst string) error {
			return os.Rename(path, dst)
		},
	}
}

// NewBytesSegment wraps an in-memory blob.
func NewBytesSegment(index int, codec string, data []byte) Segment {
	return Segment{
		Index: index,
		Codec: codec,
		Size:  int64(len(data)),
		write: func(dst string) error {
			return os.WriteFile(dst, data, 0644)
		},
	}
}

func newBufferSegment(index int, src *Buffer, start, end int) Segment {
	view := src.Slice(start, end)
	return Segment{
		Index: index,
		Codec: "wav",
		Size:  view.EncodedSize(),
		Start: src.frameOffset(start),
		End:   src.frameOffset(end),
		write: view.WriteWAV,
	}
}
