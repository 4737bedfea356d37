package embedding

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// ONNXOptions configures an exported encoder.
type ONNXOptions struct {
	// SharedLibrary is the onnxruntime library path; empty uses the
	// runtime's default search.
	SharedLibrary string
	// InputNames defaults to input_ids and attention_mask. token_type_ids
	// may be added for models that take it.
	InputNames []string
	// OutputName defaults to last_hidden_state.
	OutputName string
}

// ONNXModel runs an encoder exported to ONNX.
type ONNXModel struct {
	session *ort.DynamicAdvancedSession
	inputs  []string
}

func LoadONNXModel(path string, opts ONNXOptions) (*ONNXModel, error) {
	if opts.SharedLibrary != "" {
		ort.SetSharedLibraryPath(opts.SharedLibrary)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
		}
	}

	inputs := opts.InputNames
	if len(inputs) == 0 {
		inputs = []string{"input_ids", "attention_mask"}
	}
	output := opts.OutputName
	if output == "" {
		output = "last_hidden_state"
	}

	sessionOpts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer sessionOpts.Destroy()

	session, err := ort.NewDynamicAdvancedSession(path, inputs, []string{output}, sessionOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &ONNXModel{session: session, inputs: inputs}, nil
}

func (m *ONNXModel) Forward(tokens Tokens) (HiddenStates, error) {
	shape := ort.NewShape(1, int64(tokens.Len()))

	values := make([]ort.Value, 0, len(m.inputs))
	defer func() {
		for _, v := range values {
			v.Destroy()
		}
	}()
	for _, name := range m.inputs {
		var data []int64
		switch name {
		case "input_ids":
			data = tokens.IDs
		case "attention_mask":
			data = tokens.AttentionMask
		case "token_type_ids":
			data = tokens.TypeIDs
		default:
			return HiddenStates{}, fmt.Errorf("unsupported model input %q", name)
		}
		tensor, err := ort.NewTensor(shape, append([]int64(nil), data...))
		if err != nil {
			return HiddenStates{}, fmt.Errorf("failed to create %s tensor: %w", name, err)
		}
		values = append(values, tensor)
	}

	outputs := make([]ort.Value, 1)
	if err := m.session.Run(values, outputs); err != nil {
		return HiddenStates{}, err
	}
	defer outputs[0].Destroy()

	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return HiddenStates{}, fmt.Errorf("output tensor is not float32 type")
	}

	// Copy before the output tensor is destroyed.
	return HiddenStates{
		Shape: append([]int64(nil), out.GetShape()...),
		Data:  append([]float32(nil), out.GetData()...),
	}, nil
}

// Close releases the session and the ONNX environment.
func (m *ONNXModel) Close() error {
	if m.session != nil {
		m.session.Destroy()
		m.session = nil
	}
	return ort.DestroyEnvironment()
}
