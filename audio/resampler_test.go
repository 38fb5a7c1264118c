// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"slices"
	"testing"

	"github.com/ik5/freequeue/internal/audiotest"
)

// readAll drains src in blocks of block frames.
func readAll(tb testing.TB, src Source, block int) [][]float32 {
	tb.Helper()

	out := make([][]float32, src.Channels())
	buf := NewPlanar(src.Channels(), block)
	for {
		n, err := src.ReadFrames(buf)
		for c := range out {
			out[c] = append(out[c], buf[c][:n]...)
		}
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			tb.Fatalf("ReadFrames() error = %v", err)
		}
	}
}

func TestNewResampler_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     Source
		dstRate int
		wantErr error
	}{
		{"zero dst rate", audiotest.NewSilentSource(44100, 1, 10), 0, ErrInvalidSampleRate},
		{"negative dst rate", audiotest.NewSilentSource(44100, 1, 10), -8000, ErrInvalidSampleRate},
		{"zero src rate", audiotest.NewSilentSource(0, 1, 10), 8000, ErrInvalidSampleRate},
		{"no channels", audiotest.NewSilentSource(44100, 0, 10), 8000, ErrInvalidChannelCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewResampler(tt.src, tt.dstRate); !errors.Is(err, tt.wantErr) {
				t.Errorf("NewResampler() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResampler_Metadata(t *testing.T) {
	t.Parallel()

	resampler, err := NewResampler(audiotest.NewSilentSource(44100, 2, 1000), 8000)
	if err != nil {
		t.Fatalf("NewResampler() error = %v", err)
	}

	if resampler.SampleRate() != 8000 {
		t.Errorf("Resampler.SampleRate() = %d, want 8000", resampler.SampleRate())
	}
	if resampler.Channels() != 2 {
		t.Errorf("Resampler.Channels() = %d, want 2", resampler.Channels())
	}
}

func TestResampler_SameRateIsExact(t *testing.T) {
	t.Parallel()

	src := audiotest.NewTaggedSource(8000, 2, 300)
	resampler, err := NewResampler(src, 8000)
	if err != nil {
		t.Fatalf("NewResampler() error = %v", err)
	}

	out := readAll(t, resampler, 64)
	if len(out[0]) != 300 {
		t.Fatalf("got %d frames, want 300", len(out[0]))
	}
	for c := range out {
		for f, v := range out[c] {
			if want := audiotest.Tag(f, c); v != want {
				t.Fatalf("frame %d channel %d = %v, want %v", f, c, v, want)
			}
		}
	}
}

func TestResampler_FrameCounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		srcRate int
		dstRate int
		frames  int
		want    int
	}{
		{"44.1k to 16k", 44100, 16000, 44100, 16000},
		{"44.1k to 8k", 44100, 8000, 44100, 8000},
		{"8k to 16k", 8000, 16000, 8000, 16000},
		{"16k to 48k", 16000, 48000, 16000, 48000},
		{"extreme down", 96000, 8000, 96000, 8000},
		{"extreme up", 8000, 96000, 800, 9600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewSineSource(tt.srcRate, 1, tt.frames, 440)
			resampler, err := NewResampler(src, tt.dstRate)
			if err != nil {
				t.Fatalf("NewResampler() error = %v", err)
			}

			got := len(readAll(t, resampler, 4096)[0])
			// The last output frame lands on or before the last input frame,
			// so upsampling loses up to one source frame's worth of output.
			lo := tt.want - int(math.Ceil(float64(tt.dstRate)/float64(tt.srcRate))) - 2
			if got < lo || got > tt.want+1 {
				t.Errorf("got %d frames, want about %d", got, tt.want)
			}
		})
	}
}

func TestResampler_SineStaysBounded(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSineSource(44100, 1, 44100, 440)
	resampler, err := NewResampler(src, 16000)
	if err != nil {
		t.Fatalf("NewResampler() error = %v", err)
	}

	var energy float64
	out := readAll(t, resampler, 1000)[0]
	for i, v := range out {
		if v < -1.1 || v > 1.1 {
			t.Fatalf("sample %d = %v, outside [-1.1, 1.1]", i, v)
		}
		energy += float64(v * v)
	}
	// A full-scale sine has an RMS near 0.707; the filter may attenuate a bit.
	if rms := math.Sqrt(energy / float64(len(out))); rms < 0.4 || rms > 0.8 {
		t.Errorf("RMS = %v, want roughly 0.7", rms)
	}
}

func TestResampler_ConstantChannelsPreserved(t *testing.T) {
	t.Parallel()

	levels := []float32{0.25, -0.75, 0.5}
	src := audiotest.NewMockSource(44100, 3, 5000, func(_ int, ch int) float32 {
		return levels[ch]
	})

	for _, dstRate := range []int{8000, 96000} {
		src.Reset()
		resampler, err := NewResampler(src, dstRate)
		if err != nil {
			t.Fatalf("NewResampler() error = %v", err)
		}

		out := readAll(t, resampler, 512)
		for c := range out {
			for f, v := range out[c] {
				if v != levels[c] {
					t.Fatalf("%d Hz: frame %d channel %d = %v, want %v", dstRate, f, c, v, levels[c])
				}
			}
		}
	}
}

func TestResampler_BlockSizeIndependent(t *testing.T) {
	t.Parallel()

	newResampler := func() *Resampler {
		r, err := NewResampler(audiotest.NewSineSource(44100, 2, 4410, 1000), 16000)
		if err != nil {
			t.Fatalf("NewResampler() error = %v", err)
		}
		return r
	}

	one := readAll(t, newResampler(), 1)
	big := readAll(t, newResampler(), 4096)
	for c := range one {
		if !slices.Equal(one[c], big[c]) {
			t.Fatalf("channel %d differs between block sizes", c)
		}
	}
}

func TestResampler_EOF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		frames int
		want   int
	}{
		{"empty", 0, 0},
		{"single frame", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resampler, err := NewResampler(audiotest.NewConstantSource(8000, 1, tt.frames, 0.5), 16000)
			if err != nil {
				t.Fatalf("NewResampler() error = %v", err)
			}

			buf := NewPlanar(1, 16)
			n, err := resampler.ReadFrames(buf)
			if n != tt.want || !errors.Is(err, io.EOF) {
				t.Fatalf("ReadFrames() = %d, %v; want %d, io.EOF", n, err, tt.want)
			}

			// Stays at EOF.
			if n, err := resampler.ReadFrames(buf); n != 0 || !errors.Is(err, io.EOF) {
				t.Errorf("ReadFrames() after EOF = %d, %v; want 0, io.EOF", n, err)
			}
		})
	}
}

func TestResampler_SourceError(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	src := audiotest.NewSilentSource(44100, 1, 100000).FailAfter(3000, errBoom)
	resampler, err := NewResampler(src, 16000)
	if err != nil {
		t.Fatalf("NewResampler() error = %v", err)
	}

	buf := NewPlanar(1, 256)
	for range 1000 {
		_, err = resampler.ReadFrames(buf)
		if err != nil {
			break
		}
	}
	if !errors.Is(err, errBoom) {
		t.Errorf("ReadFrames() error = %v, want %v", err, errBoom)
	}
}

func TestResampler_BadDst(t *testing.T) {
	t.Parallel()

	resampler, err := NewResampler(audiotest.NewSilentSource(44100, 2, 100), 8000)
	if err != nil {
		t.Fatalf("NewResampler() error = %v", err)
	}

	if _, err := resampler.ReadFrames(NewPlanar(1, 10)); !errors.Is(err, ErrChannelCountMismatch) {
		t.Errorf("ReadFrames(mono) error = %v, want ErrChannelCountMismatch", err)
	}
	uneven := [][]float32{make([]float32, 10), make([]float32, 5)}
	if _, err := resampler.ReadFrames(uneven); !errors.Is(err, ErrUnevenPlanes) {
		t.Errorf("ReadFrames(uneven) error = %v, want ErrUnevenPlanes", err)
	}
	if n, err := resampler.ReadFrames(NewPlanar(2, 0)); n != 0 || err != nil {
		t.Errorf("ReadFrames(empty) = %d, %v; want 0, nil", n, err)
	}
}

func TestResampler_Close(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(44100, 1, 100)
	resampler, err := NewResampler(src, 8000)
	if err != nil {
		t.Fatalf("NewResampler() error = %v", err)
	}

	if err := resampler.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !src.Closed() {
		t.Error("Close() did not close the source")
	}
}

func TestResampler_MinimalAllocs(t *testing.T) {
	src := audiotest.NewSilentSource(44100, 2, 1<<24)
	resampler, err := NewResampler(src, 16000)
	if err != nil {
		t.Fatalf("NewResampler() error = %v", err)
	}
	buf := NewPlanar(2, 256)

	// Warm up
	_, _ = resampler.ReadFrames(buf)

	allocs := testing.AllocsPerRun(100, func() {
		_, _ = resampler.ReadFrames(buf)
	})
	if allocs > 0 {
		t.Errorf("ReadFrames() allocs = %v, want 0", allocs)
	}
}

func BenchmarkResampler_Downsample(b *testing.B) {
	src := audiotest.NewSineSource(44100, 2, math.MaxInt32, 440)
	resampler, err := NewResampler(src, 16000)
	if err != nil {
		b.Fatal(err)
	}
	buf := NewPlanar(2, 4096)

	b.ReportAllocs()

	for b.Loop() {
		_, _ = resampler.ReadFrames(buf)
	}
}

func BenchmarkResampler_Upsample(b *testing.B) {
	src := audiotest.NewSineSource(16000, 2, math.MaxInt32, 440)
	resampler, err := NewResampler(src, 48000)
	if err != nil {
		b.Fatal(err)
	}
	buf := NewPlanar(2, 4096)

	b.ReportAllocs()

	for b.Loop() {
		_, _ = resampler.ReadFrames(buf)
	}
}
