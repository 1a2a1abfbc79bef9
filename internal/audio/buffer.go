// Package audio holds the decoded audio model and the size-bounded
// compression and segmentation strategies built on it.
package audio

import (
	"fmt"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Buffer is decoded PCM audio with interleaved samples. A Buffer is never
// mutated after decoding; Slice returns a new view.
type Buffer struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Samples    []int
}

// Frames returns the number of sample frames (samples per channel).
func (b *Buffer) Frames() int {
	if b == nil || b.Channels == 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Duration returns the playback length of the buffer.
func (b *Buffer) Duration() time.Duration {
	return b.frameOffset(b.Frames())
}

func (b *Buffer) frameOffset(frame int) time.Duration {
	if b == nil || b.SampleRate == 0 {
		return 0
	}
	return time.Duration(frame) * time.Second / time.Duration(b.SampleRate)
}

// Slice returns frames [start, end) as a new Buffer sharing read-only storage.
func (b *Buffer) Slice(start, end int) *Buffer {
	if start < 0 {
		start = 0
	}
	if end > b.Frames() {
		end = b.Frames()
	}
	if end < start {
		end = start
	}
	lo, hi := start*b.Channels, end*b.Channels
	return &Buffer{
		SampleRate: b.SampleRate,
		Channels:   b.Channels,
		BitDepth:   b.BitDepth,
		Samples:    b.Samples[lo:hi:hi],
	}
}

// EncodedSize is the exact size of the buffer written as a PCM WAV file.
func (b *Buffer) EncodedSize() int64 {
	return WAVSize(b.Frames(), b.Channels, b.BitDepth)
}

// DecodeWAV reads a PCM WAV file fully into memory.
func DecodeWAV(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("decode %s: not a valid wav file", path)
	}

	pcm, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return &Buffer{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		Samples:    pcm.Data,
	}, nil
}

// WriteWAV encodes the buffer as a PCM WAV file at path.
func (b *Buffer) WriteWAV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}

	enc := wav.NewEncoder(f, b.SampleRate, b.BitDepth, b.Channels, 1)
	pcm := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: b.Channels, SampleRate: b.SampleRate},
		Data:           b.Samples,
		SourceBitDepth: b.BitDepth,
	}
	if err := enc.Write(pcm); err != nil {
		f.Close()
		return fmt.Errorf("write wav samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize wav: %w", err)
	}
	return f.Close()
}
