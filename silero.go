package barge

import (
	"errors"
	"time"

	ort "github.com/yalue/onnxruntime_go"
)

const (
	sileroWindowSamples  = 512
	sileroContextSamples = 64
	sileroInputSamples   = sileroContextSamples + sileroWindowSamples // 576
	sileroStateSize      = 2 * 1 * 128
	sileroResetInterval  = 5 * time.Second
)

// sileroClassifier is a stateful ONNX wrapper for Silero VAD. The model
// scores fixed 512-sample windows at 16 kHz; capture frames of any size
// are rolled into the most recent window, so a 20 ms frame cadence works
// against the model's 32 ms window. Not safe for concurrent use.
type sileroClassifier struct {
	session  *ort.AdvancedSession
	input    *ort.Tensor[float32] // (1, 576)
	state    *ort.Tensor[float32] // (2, 1, 128)
	sr       *ort.Tensor[int64]   // (1,) = 16000
	output   *ort.Tensor[float32] // (1, 1) speech prob
	stateOut *ort.Tensor[float32] // (2, 1, 128) new state

	frameSize int
	threshold float32

	window    [sileroWindowSamples]float32
	context   [sileroContextSamples]float32
	lastReset time.Time
}

func newSileroClassifier(modelPath string, frameSize int, threshold float32) (*sileroClassifier, error) {
	if frameSize <= 0 || frameSize > sileroWindowSamples {
		return nil, errors.New("silero: frame size must be in (0, 512]")
	}

	inputTensor, err := ort.NewTensor(ort.NewShape(1, sileroInputSamples), make([]float32, sileroInputSamples))
	if err != nil {
		return nil, err
	}
	stateTensor, err := ort.NewTensor(ort.NewShape(2, 1, 128), make([]float32, sileroStateSize))
	if err != nil {
		_ = inputTensor.Destroy()
		return nil, err
	}
	srTensor, err := ort.NewTensor(ort.NewShape(1), []int64{16000})
	if err != nil {
		_ = inputTensor.Destroy()
		_ = stateTensor.Destroy()
		return nil, err
	}
	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		_ = inputTensor.Destroy()
		_ = stateTensor.Destroy()
		_ = srTensor.Destroy()
		return nil, err
	}
	stateOutTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(2, 1, 128))
	if err != nil {
		_ = inputTensor.Destroy()
		_ = stateTensor.Destroy()
		_ = srTensor.Destroy()
		_ = outputTensor.Destroy()
		return nil, err
	}

	sess, err := ort.NewAdvancedSession(modelPath,
		[]string{"input", "state", "sr"},
		[]string{"output", "stateN"},
		[]ort.Value{inputTensor, stateTensor, srTensor},
		[]ort.Value{outputTensor, stateOutTensor},
		nil)
	if err != nil {
		_ = inputTensor.Destroy()
		_ = stateTensor.Destroy()
		_ = srTensor.Destroy()
		_ = outputTensor.Destroy()
		_ = stateOutTensor.Destroy()
		return nil, err
	}

	return &sileroClassifier{
		session:   sess,
		input:     inputTensor,
		state:     stateTensor,
		sr:        srTensor,
		output:    outputTensor,
		stateOut:  stateOutTensor,
		frameSize: frameSize,
		threshold: threshold,
		lastReset: time.Now(),
	}, nil
}

// Reset clears the rolling window, model context, and recurrent state.
func (c *sileroClassifier) Reset() {
	for i := range c.window {
		c.window[i] = 0
	}
	for i := range c.context {
		c.context[i] = 0
	}
	c.state.ZeroContents()
	c.lastReset = time.Now()
}

func (c *sileroClassifier) maybeReset() {
	if time.Since(c.lastReset) >= sileroResetInterval {
		c.Reset()
	}
}

// Classify rolls frame into the 512-sample window and returns whether
// the window's speech probability clears the sensitivity threshold.
// No allocations in the hot path; session tensors are reused.
func (c *sileroClassifier) Classify(frame []float32) (bool, error) {
	if len(frame) != c.frameSize {
		return false, errors.New("silero: unexpected frame size")
	}

	c.maybeReset()

	// Shift the window left by one frame and append the new samples.
	copy(c.window[:], c.window[len(frame):])
	copy(c.window[sileroWindowSamples-len(frame):], frame)

	inputData := c.input.GetData()
	copy(inputData[:sileroContextSamples], c.context[:])
	copy(inputData[sileroContextSamples:], c.window[:])

	// Carry the last 64 samples forward as next run's context.
	copy(c.context[:], inputData[sileroInputSamples-sileroContextSamples:])

	if err := c.session.Run(); err != nil {
		return false, err
	}

	prob := c.output.GetData()[0]
	copy(c.state.GetData(), c.stateOut.GetData())

	return prob > c.threshold, nil
}

func (c *sileroClassifier) Close() error {
	return c.session.Destroy()
}
