package gateway

import (
	"context"
	"fmt"
	"strings"

	"ouroz/internal/domain"
)

// Operation names one of the gateway's generative operations.
type Operation string

const (
	OpImageGenerate     Operation = "image-generate"
	OpImageEdit         Operation = "image-edit"
	OpVideoGenerate     Operation = "video-generate"
	OpGroundedQuery     Operation = "grounded-query"
	OpTranscribe        Operation = "transcribe"
	OpNegotiationAdvice Operation = "negotiation-advice"
	OpAnalyzeDocument   Operation = "analyze-document"
	OpAnalyzeVisual     Operation = "analyze-visual"
	OpTextToSpeech      Operation = "text-to-speech"
)

// Operations lists every operation in route order.
var Operations = []Operation{
	OpImageGenerate,
	OpImageEdit,
	OpVideoGenerate,
	OpGroundedQuery,
	OpTranscribe,
	OpNegotiationAdvice,
	OpAnalyzeDocument,
	OpAnalyzeVisual,
	OpTextToSpeech,
}

// Route is the HTTP path segment the operation is served under.
func (op Operation) Route() string {
	switch op {
	case OpImageGenerate:
		return "generate-image"
	case OpImageEdit:
		return "edit-image"
	case OpVideoGenerate:
		return "generate-video"
	}
	return string(op)
}

// Request is the closed set of operation payloads the gateway accepts. The
// unexported methods keep the set inside this package: every variant must
// name its model and its execution path.
type Request interface {
	Operation() Operation
	Validate() error

	model(g *Gateway) string
	run(ctx context.Context, g *Gateway) (Result, error)
}

// ImageSize selects the output resolution for image generation.
type ImageSize string

const (
	ImageSize1K ImageSize = "1K"
	ImageSize2K ImageSize = "2K"
	ImageSize4K ImageSize = "4K"
)

// LatLng is a WGS84 coordinate pair used to ground map results.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether both coordinates are in range.
func (l LatLng) Valid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

type ImageGenerateRequest struct {
	Prompt string    `json:"prompt"`
	Size   ImageSize `json:"size,omitempty"`
}

type ImageEditRequest struct {
	Base64Image string `json:"base64Image"`
	Prompt      string `json:"prompt"`
}

type VideoGenerateRequest struct {
	Prompt      string `json:"prompt"`
	ImageBase64 string `json:"imageBase64,omitempty"`
	IsPortrait  bool   `json:"isPortrait,omitempty"`
}

type GroundedQueryRequest struct {
	Query       string  `json:"query"`
	UseThinking bool    `json:"useThinking,omitempty"`
	LatLng      *LatLng `json:"latLng,omitempty"`
}

type TranscribeRequest struct {
	Base64Audio string `json:"base64Audio"`
}

type NegotiationAdviceRequest struct {
	History string `json:"history"`
	Draft   string `json:"draft"`
}

type AnalyzeDocumentRequest struct {
	Base64   string `json:"base64"`
	MimeType string `json:"mimeType"`
}

type AnalyzeVisualRequest struct {
	Base64   string `json:"base64"`
	MimeType string `json:"mimeType"`
}

type TextToSpeechRequest struct {
	Text string `json:"text"`
}

func (ImageGenerateRequest) Operation() Operation     { return OpImageGenerate }
func (ImageEditRequest) Operation() Operation         { return OpImageEdit }
func (VideoGenerateRequest) Operation() Operation     { return OpVideoGenerate }
func (GroundedQueryRequest) Operation() Operation     { return OpGroundedQuery }
func (TranscribeRequest) Operation() Operation        { return OpTranscribe }
func (NegotiationAdviceRequest) Operation() Operation { return OpNegotiationAdvice }
func (AnalyzeDocumentRequest) Operation() Operation   { return OpAnalyzeDocument }
func (AnalyzeVisualRequest) Operation() Operation     { return OpAnalyzeVisual }
func (TextToSpeechRequest) Operation() Operation      { return OpTextToSpeech }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidRequest, fmt.Sprintf(format, args...))
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid("%s is required", field)
	}
	return nil
}

func (r ImageGenerateRequest) Validate() error {
	if err := required("prompt", r.Prompt); err != nil {
		return err
	}
	switch r.Size {
	case "", ImageSize1K, ImageSize2K, ImageSize4K:
		return nil
	default:
		return invalid("size must be one of 1K, 2K, 4K")
	}
}

func (r ImageEditRequest) Validate() error {
	if err := required("prompt", r.Prompt); err != nil {
		return err
	}
	_, _, err := decodeMedia("base64Image", r.Base64Image)
	return err
}

func (r VideoGenerateRequest) Validate() error {
	if err := required("prompt", r.Prompt); err != nil {
		return err
	}
	if strings.TrimSpace(r.ImageBase64) == "" {
		return nil
	}
	_, _, err := decodeMedia("imageBase64", r.ImageBase64)
	return err
}

func (r GroundedQueryRequest) Validate() error {
	if err := required("query", r.Query); err != nil {
		return err
	}
	if r.LatLng != nil && !r.LatLng.Valid() {
		return invalid("latLng out of range")
	}
	return nil
}

func (r TranscribeRequest) Validate() error {
	_, _, err := decodeMedia("base64Audio", r.Base64Audio)
	return err
}

func (r NegotiationAdviceRequest) Validate() error {
	if strings.TrimSpace(r.History) == "" && strings.TrimSpace(r.Draft) == "" {
		return invalid("history or draft is required")
	}
	return nil
}

func (r AnalyzeDocumentRequest) Validate() error {
	if err := required("mimeType", r.MimeType); err != nil {
		return err
	}
	_, _, err := decodeMedia("base64", r.Base64)
	return err
}

func (r AnalyzeVisualRequest) Validate() error {
	if err := required("mimeType", r.MimeType); err != nil {
		return err
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(r.MimeType)), "image/") {
		return invalid("mimeType must be an image type")
	}
	_, _, err := decodeMedia("base64", r.Base64)
	return err
}

func (r TextToSpeechRequest) Validate() error {
	return required("text", r.Text)
}

func (ImageGenerateRequest) model(g *Gateway) string     { return g.models.Image }
func (ImageEditRequest) model(g *Gateway) string         { return g.models.Edit }
func (VideoGenerateRequest) model(g *Gateway) string     { return g.models.Video }
func (TranscribeRequest) model(g *Gateway) string        { return g.models.Text }
func (NegotiationAdviceRequest) model(g *Gateway) string { return g.models.Text }
func (AnalyzeDocumentRequest) model(g *Gateway) string   { return g.models.Text }
func (AnalyzeVisualRequest) model(g *Gateway) string     { return g.models.Text }
func (TextToSpeechRequest) model(g *Gateway) string      { return g.models.TTS }

func (r GroundedQueryRequest) model(g *Gateway) string {
	if r.UseThinking {
		return g.models.Reasoning
	}
	return g.models.Text
}

func (r ImageGenerateRequest) run(ctx context.Context, g *Gateway) (Result, error) {
	return g.generateImage(ctx, r)
}

func (r ImageEditRequest) run(ctx context.Context, g *Gateway) (Result, error) {
	return g.editImage(ctx, r)
}

func (r VideoGenerateRequest) run(ctx context.Context, g *Gateway) (Result, error) {
	return g.generateVideo(ctx, r)
}

func (r GroundedQueryRequest) run(ctx context.Context, g *Gateway) (Result, error) {
	return g.groundedQuery(ctx, r)
}

func (r TranscribeRequest) run(ctx context.Context, g *Gateway) (Result, error) {
	return g.transcribe(ctx, r)
}

func (r NegotiationAdviceRequest) run(ctx context.Context, g *Gateway) (Result, error) {
	return g.negotiationAdvice(ctx, r)
}

func (r AnalyzeDocumentRequest) run(ctx context.Context, g *Gateway) (Result, error) {
	return g.analyzeDocument(ctx, r)
}

func (r AnalyzeVisualRequest) run(ctx context.Context, g *Gateway) (Result, error) {
	return g.analyzeVisual(ctx, r)
}

func (r TextToSpeechRequest) run(ctx context.Context, g *Gateway) (Result, error) {
	return g.textToSpeech(ctx, r)
}
