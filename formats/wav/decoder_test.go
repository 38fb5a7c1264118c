// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/freequeue/audio"
)

// createWAVFile builds a canonical 44-byte header followed by data.
func createWAVFile(format, sampleRate, channels, bitsPerSample int, data []byte) []byte {
	buf := new(bytes.Buffer)

	blockAlign := uint16(channels * bitsPerSample / 8)
	byteRate := uint32(sampleRate) * uint32(blockAlign)

	// RIFF header
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVE")

	// fmt chunk
	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(format))
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, byteRate)
	_ = binary.Write(buf, binary.LittleEndian, blockAlign)
	_ = binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))

	// data chunk
	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)

	return buf.Bytes()
}

func pcm16(samples ...int16) []byte {
	buf := new(bytes.Buffer)
	for _, s := range samples {
		_ = binary.Write(buf, binary.LittleEndian, s)
	}
	return buf.Bytes()
}

// onlyReader hides Seek so Decode takes the buffering path.
type onlyReader struct{ io.Reader }

func TestDecoder_Metadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rate     int
		channels int
	}{
		{"mono 8k", 8000, 1},
		{"stereo 44.1k", 44100, 2},
		{"six channels", 48000, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := createWAVFile(formatPCM, tt.rate, tt.channels, 16, make([]byte, 2*tt.channels*4))
			src, err := Decoder{}.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("Decode() error = %v, want nil", err)
			}

			if src.SampleRate() != tt.rate {
				t.Errorf("SampleRate() = %d, want %d", src.SampleRate(), tt.rate)
			}
			if src.Channels() != tt.channels {
				t.Errorf("Channels() = %d, want %d", src.Channels(), tt.channels)
			}
		})
	}
}

func TestDecoder_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"not RIFF", []byte("NOT A WAV FILE DATA"), ErrNotWavFile},
		{"truncated", []byte("RIFF\x00"), ErrNotWavFile},
		{"bad WAVE marker", append([]byte("RIFF\x24\x00\x00\x00NOPE"), make([]byte, 32)...), ErrNotWavFile},
		{"IEEE float", createWAVFile(3, 8000, 1, 32, nil), ErrUnsupportedWavFormat},
		{"12-bit", createWAVFile(formatPCM, 8000, 1, 12, nil), ErrUnsupportedBitDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := (Decoder{}).Decode(bytes.NewReader(tt.data)); !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecoder_WithUnknownChunks(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(52))
	buf.WriteString("WAVE")

	// Custom chunk, skipped
	buf.WriteString("junk")
	_ = binary.Write(buf, binary.LittleEndian, uint32(4))
	buf.Write([]byte{0, 0, 0, 0})

	canonical := createWAVFile(formatPCM, 8000, 1, 16, pcm16(16384, -16384))
	buf.Write(canonical[12:])

	src, err := Decoder{}.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode() error = %v, want nil (should skip unknown chunks)", err)
	}

	dst := audio.NewPlanar(1, 4)
	n, _ := src.ReadFrames(dst)
	if n != 2 || dst[0][0] != 0.5 || dst[0][1] != -0.5 {
		t.Errorf("ReadFrames() = %d %v, want 2 [0.5 -0.5]", n, dst[0][:n])
	}
}

func TestSource_ReadFrames(t *testing.T) {
	t.Parallel()

	data := createWAVFile(formatPCM, 8000, 1, 16, pcm16(0, 16384, 32767, -16384, -32768))
	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	dst := audio.NewPlanar(1, 5)
	n, err := src.ReadFrames(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		t.Fatalf("ReadFrames() error = %v", err)
	}
	if n != 5 {
		t.Fatalf("ReadFrames() n = %d, want 5", n)
	}

	expected := []float32{0.0, 0.5, 1.0, -0.5, -1.0}
	for i := range n {
		if math.Abs(float64(dst[0][i]-expected[i])) > 0.0001 {
			t.Errorf("dst[%d] = %v, want ≈%v", i, dst[0][i], expected[i])
		}
	}
}

func TestSource_ReadFrames_StereoPlanes(t *testing.T) {
	t.Parallel()

	// L = 1000*f, R = -1000*f
	var samples []int16
	for f := range 10 {
		samples = append(samples, int16(1000*f), int16(-1000*f))
	}
	data := createWAVFile(formatPCM, 16000, 2, 16, pcm16(samples...))

	for _, r := range []io.Reader{bytes.NewReader(data), onlyReader{bytes.NewReader(data)}} {
		src, err := Decoder{}.Decode(r)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}

		// Three frames at a time leaves a final partial block.
		var left, right []float32
		dst := audio.NewPlanar(2, 3)
		for {
			n, err := src.ReadFrames(dst)
			left = append(left, dst[0][:n]...)
			right = append(right, dst[1][:n]...)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				t.Fatalf("ReadFrames() error = %v", err)
			}
		}

		if len(left) != 10 {
			t.Fatalf("read %d frames, want 10", len(left))
		}
		for f := range 10 {
			want := float32(1000*f) / 32768
			if left[f] != want || right[f] != -want {
				t.Errorf("frame %d = (%v, %v), want (%v, %v)", f, left[f], right[f], want, -want)
			}
		}
	}
}

func TestSource_ReadFrames_EOF(t *testing.T) {
	t.Parallel()

	data := createWAVFile(formatPCM, 8000, 1, 16, pcm16(100, 200))
	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	dst := audio.NewPlanar(1, 2)
	n1, err1 := src.ReadFrames(dst)
	if err1 != nil && !errors.Is(err1, io.EOF) {
		t.Errorf("ReadFrames() error = %v, want nil or io.EOF", err1)
	}
	if n1 != 2 {
		t.Errorf("ReadFrames() n = %d, want 2", n1)
	}

	// Subsequent reads always return EOF with 0 frames.
	for range 2 {
		n, err := src.ReadFrames(dst)
		if n != 0 || !errors.Is(err, io.EOF) {
			t.Errorf("ReadFrames() after end = %d, %v; want 0, io.EOF", n, err)
		}
	}
}

func TestSource_ReadFrames_BadDst(t *testing.T) {
	t.Parallel()

	data := createWAVFile(formatPCM, 8000, 2, 16, pcm16(1, 2, 3, 4))
	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if _, err := src.ReadFrames(audio.NewPlanar(1, 2)); !errors.Is(err, audio.ErrChannelCountMismatch) {
		t.Errorf("ReadFrames(mono) error = %v, want ErrChannelCountMismatch", err)
	}
	if n, err := src.ReadFrames(audio.NewPlanar(2, 0)); n != 0 || err != nil {
		t.Errorf("ReadFrames(empty) = %d, %v; want 0, nil", n, err)
	}
}

func BenchmarkSource_ReadFrames(b *testing.B) {
	samples := make([]int16, 2*48000)
	for i := range samples {
		samples[i] = int16(i)
	}
	data := createWAVFile(formatPCM, 48000, 2, 16, pcm16(samples...))
	dst := audio.NewPlanar(2, 1024)

	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	for b.Loop() {
		src, err := Decoder{}.Decode(bytes.NewReader(data))
		if err != nil {
			b.Fatal(err)
		}
		for {
			if _, err := src.ReadFrames(dst); err != nil {
				break
			}
		}
	}
}
