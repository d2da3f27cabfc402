package core

// RootResponse is the payload of the root info endpoint.
type RootResponse struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// HealthResponse is the payload of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// PredictItem is one text to translate within a predict request.
// MaxLength, NumBeams and EarlyStopping override the generation
// defaults when set.
type PredictItem struct {
	Text          string `json:"text" binding:"required"`
	MaxLength     int    `json:"max_length,omitempty"`
	NumBeams      int    `json:"num_beams,omitempty"`
	EarlyStopping *bool  `json:"early_stopping,omitempty"`
}

// PredictRequest is the body of the predict endpoint. A single item
// means an individual translation, multiple items a batch.
type PredictRequest struct {
	Items []PredictItem `json:"items" binding:"required"`
}

// PredictResult is one successful translation, tagged with the position
// of its input item so partial batch failures stay attributable.
type PredictResult struct {
	Position int    `json:"position"`
	Result   string `json:"result"`
}

// PredictResponse is the predict endpoint response.
type PredictResponse struct {
	Results []PredictResult `json:"results"`
}

// ModelDetail describes one translation pair in the models endpoint.
type ModelDetail struct {
	ModelName      string         `json:"model_name"`
	FileType       string         `json:"file_type"`
	SourceLanguage string         `json:"source_language,omitempty"`
	TargetLanguage string         `json:"target_language,omitempty"`
	Loaded         bool           `json:"loaded"`
	Config         map[string]any `json:"config,omitempty"`
}

// ModelsResponse is the models endpoint response, keyed by pair.
type ModelsResponse struct {
	Models map[string]ModelDetail `json:"models"`
}

// ErrorResponse is the generic error payload.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
