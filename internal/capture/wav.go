package capture

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// EncodeWAV packages a PCM clip as a WAV container for the recognition
// backends and for serving to the interactive surface.
func EncodeWAV(clip *Clip) ([]byte, error) {
	if clip == nil {
		return nil, fmt.Errorf("encode wav: nil clip")
	}
	if len(clip.PCM)%2 != 0 {
		return nil, fmt.Errorf("encode wav: pcm payload not aligned")
	}

	samples := make([]int, len(clip.PCM)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(clip.PCM[i*2:])))
	}
	buffer := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: clip.Channels, SampleRate: clip.SampleRate},
		Data:   samples,
	}

	var out seekableBuffer
	enc := wav.NewEncoder(&out, clip.SampleRate, 16, clip.Channels, 1)
	if err := enc.Write(buffer); err != nil {
		return nil, fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close wav encoder: %w", err)
	}
	return out.data, nil
}

// DecodeWAV unpacks an uploaded WAV container into a PCM clip.
func DecodeWAV(data []byte) (*Clip, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	if dec.Err() != nil {
		return nil, fmt.Errorf("decode wav: %w", dec.Err())
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 || buf.Format.NumChannels <= 0 {
		return nil, fmt.Errorf("decode wav: missing format")
	}
	// Only s16le survives the conversion below; wider samples would wrap.
	if dec.BitDepth != 16 {
		return nil, fmt.Errorf("decode wav: unsupported bit depth %d, want 16", dec.BitDepth)
	}

	pcm := make([]byte, len(buf.Data)*2)
	for i, s := range buf.Data {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(s)))
	}
	return &Clip{
		PCM:        pcm,
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
	}, nil
}

// seekableBuffer satisfies the wav encoder's io.WriteSeeker so the header can
// be patched in place without a temp file.
type seekableBuffer struct {
	data []byte
	pos  int
}

func (b *seekableBuffer) Write(p []byte) (int, error) {
	if b.pos+len(p) > len(b.data) {
		grown := make([]byte, b.pos+len(p))
		copy(grown, b.data)
		b.data = grown
	}
	copy(b.data[b.pos:], p)
	b.pos += len(p)
	return len(p), nil
}

func (b *seekableBuffer) Seek(offset int64, whence int) (int64, error) {
	var next int
	switch whence {
	case 0:
		next = int(offset)
	case 1:
		next = b.pos + int(offset)
	case 2:
		next = len(b.data) + int(offset)
	default:
		return 0, fmt.Errorf("seek: invalid whence %d", whence)
	}
	if next < 0 {
		return 0, fmt.Errorf("seek: negative position")
	}
	b.pos = next
	return int64(next), nil
}
