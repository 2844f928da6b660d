package barge

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	mp3 "github.com/hajimehoshi/go-mp3"
	riff "github.com/youpy/go-riff"
	wav "github.com/youpy/go-wav"
)

// LoadSample reads the waveform at path, reduces it to its first channel,
// and resamples it to rate. WAV and MP3 containers are supported; the
// container is picked by file extension, defaulting to WAV.
//
// An empty file decodes to an empty buffer, which plays as immediate
// natural completion. Read or decode failures are returned to the caller
// and no playback session starts.
func LoadSample(path string, rate int) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sample %q: %w", path, err)
	}
	defer f.Close()

	var (
		samples []float32
		srcRate int
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		samples, srcRate, err = decodeMP3(f)
	default:
		samples, srcRate, err = decodeWAV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode sample %q: %w", path, err)
	}
	return resampleLinear(samples, srcRate, rate), nil
}

// decodeWAV reads a PCM WAV stream and returns the first channel as
// float32 samples in [-1, 1].
func decodeWAV(r riff.RIFFReader) ([]float32, int, error) {
	wr := wav.NewReader(r)
	format, err := wr.Format()
	if err != nil {
		return nil, 0, fmt.Errorf("wav format: %w", err)
	}
	if format.NumChannels < 1 || format.NumChannels > 2 {
		return nil, 0, fmt.Errorf("wav: only mono or stereo supported, got %d channels", format.NumChannels)
	}

	var out []float32
	for {
		frames, err := wr.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("wav samples: %w", err)
		}
		for _, s := range frames {
			// First channel only; the capture path is mono anyway.
			out = append(out, float32(wr.FloatValue(s, 0)))
		}
	}
	return out, int(format.SampleRate), nil
}

// decodeMP3 reads an MP3 stream. go-mp3 always emits 16-bit stereo
// little-endian PCM, so the left channel is taken.
func decodeMP3(r io.Reader) ([]float32, int, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, 0, fmt.Errorf("mp3 decoder: %w", err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, 0, fmt.Errorf("mp3 samples: %w", err)
	}
	// 4 bytes per stereo frame: left int16, right int16.
	n := len(raw) / 4
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int16(uint16(raw[i*4]) | uint16(raw[i*4+1])<<8)
		out[i] = float32(v) / 32768
	}
	return out, dec.SampleRate(), nil
}

// resampleLinear converts samples from inRate to outRate using linear
// interpolation over uniformly spaced query points. The output length is
// round(len(in) * outRate/inRate).
func resampleLinear(in []float32, inRate, outRate int) []float32 {
	if inRate == outRate || len(in) == 0 {
		return in
	}
	nOut := int(math.Round(float64(len(in)) * float64(outRate) / float64(inRate)))
	if nOut <= 0 {
		return nil
	}
	out := make([]float32, nOut)
	step := float64(len(in)) / float64(nOut)
	for i := range out {
		pos := float64(i) * step
		j := int(pos)
		if j >= len(in)-1 {
			out[i] = in[len(in)-1]
			continue
		}
		frac := float32(pos - float64(j))
		out[i] = in[j] + frac*(in[j+1]-in[j])
	}
	return out
}
