package speech

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// ErrUnsupportedAudio marks uploads that are not a short 16-bit PCM WAV file.
var ErrUnsupportedAudio = errors.New("unsupported audio")

const (
	MaxDuration     = 60 * time.Second
	waveHeaderBytes = 44
	formatPCM       = 1
)

type waveHeader struct {
	RiffTag       [4]byte
	FileSize      uint32
	WaveTag       [4]byte
	FmtTag        [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataTag       [4]byte
	DataSize      uint32
}

// WaveFormat is what the recognizer needs to know about an upload.
type WaveFormat struct {
	SampleRate int32
	Channels   int32
	Duration   time.Duration
}

func parseWaveHeader(data []byte) (*waveHeader, error) {
	if len(data) < waveHeaderBytes {
		return nil, fmt.Errorf("%w: invalid WAV header length", ErrUnsupportedAudio)
	}
	var header waveHeader
	if err := binary.Read(bytes.NewReader(data[:waveHeaderBytes]), binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedAudio, err)
	}
	return &header, nil
}

// InspectWave checks that data is a canonical 16-bit PCM WAV no longer than MaxDuration.
func InspectWave(data []byte) (*WaveFormat, error) {
	h, err := parseWaveHeader(data)
	if err != nil {
		return nil, err
	}
	switch {
	case string(h.RiffTag[:]) != "RIFF" || string(h.WaveTag[:]) != "WAVE":
		return nil, fmt.Errorf("%w: not a RIFF/WAVE file", ErrUnsupportedAudio)
	case string(h.FmtTag[:]) != "fmt " || string(h.DataTag[:]) != "data":
		return nil, fmt.Errorf("%w: unexpected chunk layout", ErrUnsupportedAudio)
	case h.AudioFormat != formatPCM || h.BitsPerSample != 16:
		return nil, fmt.Errorf("%w: expected 16-bit PCM, got format %d with %d bits", ErrUnsupportedAudio, h.AudioFormat, h.BitsPerSample)
	case h.NumChannels == 0 || h.SampleRate == 0 || h.ByteRate == 0:
		return nil, fmt.Errorf("%w: empty format chunk", ErrUnsupportedAudio)
	}

	duration := time.Duration(float64(h.DataSize) / float64(h.ByteRate) * float64(time.Second))
	if duration > MaxDuration {
		return nil, fmt.Errorf("%w: %s exceeds the %s limit", ErrUnsupportedAudio, duration.Round(time.Second), MaxDuration)
	}
	return &WaveFormat{
		SampleRate: int32(h.SampleRate),
		Channels:   int32(h.NumChannels),
		Duration:   duration,
	}, nil
}
