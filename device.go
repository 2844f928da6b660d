package barge

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gen2brain/malgo"
)

// StreamConfig describes one mono float32 device stream.
type StreamConfig struct {
	SampleRate   int
	PeriodFrames int // samples delivered or requested per callback
}

// Stream is an opened device stream. Callbacks begin after Start and end
// after Stop; Close releases the device. Stop and Close may block on the
// audio backend, so the engine bounds them with a teardown timeout.
type Stream interface {
	Start() error
	Stop() error
	Close() error
}

// Backend opens audio device streams. The production implementation sits
// on malgo (miniaudio); tests substitute a simulated backend that drives
// the two callbacks on independent clocks.
//
// Callbacks run in the backend's real-time context and must not block.
type Backend interface {
	// OpenPlayback opens the default output device. fill is invoked once
	// per period and must write len(out) samples.
	OpenPlayback(cfg StreamConfig, fill func(out []float32)) (Stream, error)

	// OpenCapture opens the default input device. frames receives fixed
	// PeriodFrames-sized slices of microphone samples; the slice is owned
	// by the callee.
	OpenCapture(cfg StreamConfig, frames func(in []float32)) (Stream, error)

	Close() error
}

// malgoBackend implements Backend on the default system devices.
type malgoBackend struct {
	ctx *malgo.AllocatedContext
}

func newMalgoBackend() (*malgoBackend, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("malgo init: %w", err)
	}
	return &malgoBackend{ctx: ctx}, nil
}

func (b *malgoBackend) Close() error {
	err := b.ctx.Uninit()
	b.ctx.Free()
	return err
}

func (b *malgoBackend) OpenPlayback(cfg StreamConfig, fill func(out []float32)) (Stream, error) {
	dc := malgo.DefaultDeviceConfig(malgo.Playback)
	dc.Playback.Format = malgo.FormatF32
	dc.Playback.Channels = 1
	dc.SampleRate = uint32(cfg.SampleRate)
	dc.PeriodSizeInFrames = uint32(cfg.PeriodFrames)
	dc.Alsa.NoMMap = 1

	buf := make([]float32, cfg.PeriodFrames)
	onSend := func(pOutput, _ []byte, framecount uint32) {
		n := int(framecount)
		if n > len(buf) {
			buf = make([]float32, n)
		}
		frame := buf[:n]
		fill(frame)
		floatsToBytes(pOutput, frame)
	}

	dev, err := malgo.InitDevice(b.ctx.Context, dc, malgo.DeviceCallbacks{Data: onSend})
	if err != nil {
		return nil, fmt.Errorf("open playback device: %w", err)
	}
	return &malgoStream{dev: dev}, nil
}

func (b *malgoBackend) OpenCapture(cfg StreamConfig, frames func(in []float32)) (Stream, error) {
	dc := malgo.DefaultDeviceConfig(malgo.Capture)
	dc.Capture.Format = malgo.FormatF32
	dc.Capture.Channels = 1
	dc.SampleRate = uint32(cfg.SampleRate)
	dc.PeriodSizeInFrames = uint32(cfg.PeriodFrames)
	dc.Alsa.NoMMap = 1

	// The device may deliver odd frame counts; regroup into fixed frames.
	var pending []float32
	onRecv := func(_, pSample []byte, framecount uint32) {
		n := int(framecount)
		for i := 0; i < n; i++ {
			pending = append(pending, float32FromBytes(pSample[i*4:]))
		}
		for len(pending) >= cfg.PeriodFrames {
			frame := make([]float32, cfg.PeriodFrames)
			copy(frame, pending[:cfg.PeriodFrames])
			pending = append(pending[:0], pending[cfg.PeriodFrames:]...)
			frames(frame)
		}
	}

	dev, err := malgo.InitDevice(b.ctx.Context, dc, malgo.DeviceCallbacks{Data: onRecv})
	if err != nil {
		return nil, fmt.Errorf("open capture device: %w", err)
	}
	return &malgoStream{dev: dev}, nil
}

type malgoStream struct {
	dev *malgo.Device
}

func (s *malgoStream) Start() error { return s.dev.Start() }

func (s *malgoStream) Stop() error {
	if !s.dev.IsStarted() {
		return nil
	}
	return s.dev.Stop()
}

func (s *malgoStream) Close() error {
	s.dev.Uninit()
	return nil
}

func float32FromBytes(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func floatsToBytes(dst []byte, src []float32) {
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}
