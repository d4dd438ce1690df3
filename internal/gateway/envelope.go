package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"ouroz/internal/domain"
)

// Result is the operation-specific payload of a successful envelope.
type Result interface {
	isResult()
}

// ImageResult carries a base64 image, or nil when the provider returned none.
type ImageResult struct {
	Image *string `json:"image"`
}

// VideoResult carries a data URL of the generated video.
type VideoResult struct {
	Video string `json:"video"`
}

// Source is a grounding citation copied from the provider.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

type GroundedResult struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}

type TextResult struct {
	Text string `json:"text"`
}

// AudioResult carries base64 audio; the field is omitted when absent.
type AudioResult struct {
	Audio *string `json:"audio,omitempty"`
}

func (ImageResult) isResult()    {}
func (VideoResult) isResult()    {}
func (GroundedResult) isResult() {}
func (TextResult) isResult()     {}
func (AudioResult) isResult()    {}

// Envelope is the uniform reply of every operation. Data and Error are never
// both set.
type Envelope struct {
	Success bool
	Data    Result
	Error   string

	cause error
}

// Succeeded wraps a result in a success envelope.
func Succeeded(data Result) Envelope {
	return Envelope{Success: true, Data: data}
}

// Failed wraps err in a failure envelope.
func Failed(err error) Envelope {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Envelope{Success: false, Error: msg, cause: err}
}

// Err returns the error a failure envelope was built from.
func (e Envelope) Err() error {
	return e.cause
}

// StatusCode maps the envelope to its HTTP status.
func (e Envelope) StatusCode() int {
	switch {
	case e.Success:
		return http.StatusOK
	case errors.Is(e.cause, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// MarshalJSON renders the result's fields beside "success".
func (e Envelope) MarshalJSON() ([]byte, error) {
	if !e.Success {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{Success: false, Error: e.Error})
	}
	if e.Data == nil {
		return []byte(`{"success":true}`), nil
	}
	body, err := json.Marshal(e.Data)
	if err != nil {
		return nil, err
	}
	body = bytes.TrimSpace(body)
	if len(body) < 2 || body[0] != '{' {
		return nil, errors.New("gateway: result must encode as a JSON object")
	}
	var buf bytes.Buffer
	buf.WriteString(`{"success":true`)
	if inner := bytes.TrimSpace(body[1 : len(body)-1]); len(inner) > 0 {
		buf.WriteByte(',')
		buf.Write(inner)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
