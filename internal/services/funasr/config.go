package funasr

// Config captures runtime settings for FunASR recognition runs.
type Config struct {
	// PythonBinary is the interpreter inside the managed runtime.
	PythonBinary string
	// RunnerScript is the recognition entry point installed into the runtime.
	RunnerScript string
	// Model is the acoustic model (e.g. "paraformer-zh").
	Model string
	// VADModel segments speech from silence (e.g. "fsmn-vad").
	VADModel string
	// PuncModel restores punctuation (e.g. "ct-punc").
	PuncModel string
	// Device selects the compute device ("cuda" or "cpu").
	Device string
	// Language hints the recognizer language, empty for auto.
	Language string
	// BatchSizeSeconds bounds how much audio one batch covers.
	BatchSizeSeconds int
}

// FunASR configuration constants.
const (
	DefaultModel     = "paraformer-zh"
	DefaultVADModel  = "fsmn-vad"
	DefaultPuncModel = "ct-punc"
	CPUDevice        = "cpu"
	CUDADevice       = "cuda"
	DefaultBatchSize = 300
)
