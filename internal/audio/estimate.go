package audio

import "time"

// WAVHeaderSize is the canonical RIFF/fmt/data header written for PCM WAV.
const WAVHeaderSize = 44

// WAVSize returns the exact byte size of a PCM WAV file holding frames.
func WAVSize(frames, channels, bitDepth int) int64 {
	return WAVHeaderSize + int64(frames)*int64(channels)*int64(bitDepth/8)
}

// MaxFramesWithin returns how many frames fit in a PCM WAV file of at most
// budget bytes. Zero when even the header does not fit.
func MaxFramesWithin(budget int64, channels, bitDepth int) int {
	frameBytes := int64(channels) * int64(bitDepth/8)
	if frameBytes <= 0 || budget <= WAVHeaderSize {
		return 0
	}
	return int((budget - WAVHeaderSize) / frameBytes)
}

// EstimateEncodedSize approximates a constant-bitrate stream of length d.
// Container overhead is ignored.
func EstimateEncodedSize(bitrateKbps int, d time.Duration) int64 {
	bytesPerSecond := int64(bitrateKbps) * 1000 / 8
	return bytesPerSecond * int64(d) / int64(time.Second)
}
