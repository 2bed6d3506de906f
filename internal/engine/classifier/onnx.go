package classifier

import (
	"fmt"
	"math"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/crimson-sun/panlogs/internal/engine/feature"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

// initORT initializes the ONNX Runtime environment. Safe to call multiple
// times; only the first call has any effect.
func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// ONNXScorer scores feature vectors with an exported forwarding model.
// Sessions are read-only after load; concurrent Score calls are safe.
type ONNXScorer struct {
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
	width      int
	labels     []string
}

// NewONNXScorer loads the ONNX model and creates an inference session.
// The model must take a single float tensor [batch, width] and produce a
// [batch, len(labels)] score tensor. The ONNX Runtime shared library is
// expected alongside the model file.
func NewONNXScorer(modelPath string, labels []string) (*ONNXScorer, error) {
	if len(labels) < 2 {
		return nil, fmt.Errorf("onnx: need at least two class labels, got %d", len(labels))
	}

	libPath := filepath.Join(filepath.Dir(modelPath), "libonnxruntime.so")
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}
	if len(inputs) != 1 {
		return nil, fmt.Errorf("onnx: expected a single input tensor, got %d", len(inputs))
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("onnx: model has no outputs")
	}

	inDims := inputs[0].Dimensions
	if len(inDims) != 2 {
		return nil, fmt.Errorf("onnx: expected 2D input tensor, got %v", inDims)
	}
	width := int(inDims[1])

	outDims := outputs[0].Dimensions
	if len(outDims) != 2 || int(outDims[1]) != len(labels) {
		return nil, fmt.Errorf("onnx: output shape %v does not match %d labels", outDims, len(labels))
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(2)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{inputs[0].Name},
		[]string{outputs[0].Name},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}

	return &ONNXScorer{
		session:    session,
		inputName:  inputs[0].Name,
		outputName: outputs[0].Name,
		width:      width,
		labels:     labels,
	}, nil
}

// Score runs one inference call and returns the top class with its
// probability.
func (s *ONNXScorer) Score(vec feature.Vector) (Result, error) {
	if len(vec.Values) != s.width {
		return Result{}, fmt.Errorf("onnx: vector width %d, model expects %d", len(vec.Values), s.width)
	}

	data := make([]float32, s.width)
	for i, v := range vec.Values {
		data[i] = float32(v)
	}

	in, err := ort.NewTensor(ort.NewShape(1, int64(s.width)), data)
	if err != nil {
		return Result{}, fmt.Errorf("onnx: failed to create input tensor: %w", err)
	}
	defer in.Destroy()

	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(s.labels))))
	if err != nil {
		return Result{}, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer out.Destroy()

	if err := s.session.Run([]ort.Value{in}, []ort.Value{out}); err != nil {
		return Result{}, fmt.Errorf("onnx: inference failed: %w", err)
	}

	probs := toProbabilities(out.GetData())
	if len(probs) != len(s.labels) {
		return Result{}, fmt.Errorf("onnx: got %d scores for %d labels", len(probs), len(s.labels))
	}

	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return Result{Label: s.labels[best], Confidence: probs[best]}, nil
}

// Close releases ONNX Runtime resources.
func (s *ONNXScorer) Close() error {
	if s.session != nil {
		return s.session.Destroy()
	}
	return nil
}

// toProbabilities converts raw model scores to probabilities. Models that
// already emit a probability distribution pass through; raw logits get a
// softmax.
func toProbabilities(scores []float32) []float64 {
	probs := make([]float64, len(scores))
	var sum float64
	inRange := true
	for i, v := range scores {
		probs[i] = float64(v)
		sum += probs[i]
		if probs[i] < 0 || probs[i] > 1 {
			inRange = false
		}
	}
	if inRange && math.Abs(sum-1) < 1e-3 {
		return probs
	}

	// Softmax with max subtraction for numerical stability.
	maxV := probs[0]
	for _, v := range probs[1:] {
		if v > maxV {
			maxV = v
		}
	}
	var expSum float64
	for i, v := range probs {
		probs[i] = math.Exp(v - maxV)
		expSum += probs[i]
	}
	for i := range probs {
		probs[i] /= expSum
	}
	return probs
}
