// Package runtime talks to the external model-serving daemon that
// performs the actual translation inference.
package runtime

// loadRequest asks the daemon to load a model from a local artifact
// directory.
type loadRequest struct {
	Model string `json:"model"`
	Path  string `json:"path"`
}

type loadResponse struct {
	Ref string `json:"ref"`
}

// translateRequest is the daemon's inference request shape.
type translateRequest struct {
	Model         string `json:"model"`
	Text          string `json:"text"`
	MaxLength     int    `json:"max_length"`
	NumBeams      int    `json:"num_beams"`
	EarlyStopping bool   `json:"early_stopping"`
}

type translateResponse struct {
	Translation string `json:"translation"`
}

type unloadRequest struct {
	Model string `json:"model"`
}
