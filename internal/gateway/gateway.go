package gateway

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	sdk "google.golang.org/genai"

	"ouroz/internal/domain"
	"ouroz/internal/infra"
)

// Provider is the outbound generative-AI contract. *genai.Client satisfies it.
type Provider interface {
	GenerateContent(ctx context.Context, model string, contents []*sdk.Content, config *sdk.GenerateContentConfig) (*sdk.GenerateContentResponse, error)
	GenerateVideos(ctx context.Context, model, prompt string, image *sdk.Image, config *sdk.GenerateVideosConfig) (*sdk.GenerateVideosOperation, error)
	GetVideosOperation(ctx context.Context, op *sdk.GenerateVideosOperation) (*sdk.GenerateVideosOperation, error)
	FetchMedia(ctx context.Context, uri string) ([]byte, string, error)
}

// Recorder receives one ledger event per Execute call.
type Recorder interface {
	Record(ctx context.Context, event domain.GenerationEvent) error
}

// Models names the provider model used by each operation family.
type Models struct {
	Text      string
	Reasoning string
	Image     string
	Edit      string
	Video     string
	TTS       string
}

// DefaultModels returns the stock model names.
func DefaultModels() Models {
	return Models{
		Text:      "gemini-2.5-flash",
		Reasoning: "gemini-2.5-pro",
		Image:     "gemini-3-pro-image-preview",
		Edit:      "gemini-2.5-flash-image",
		Video:     "veo-3.1-fast-generate-preview",
		TTS:       "gemini-2.5-flash-preview-tts",
	}
}

func (m Models) withDefaults() Models {
	d := DefaultModels()
	if m.Text == "" {
		m.Text = d.Text
	}
	if m.Reasoning == "" {
		m.Reasoning = d.Reasoning
	}
	if m.Image == "" {
		m.Image = d.Image
	}
	if m.Edit == "" {
		m.Edit = d.Edit
	}
	if m.Video == "" {
		m.Video = d.Video
	}
	if m.TTS == "" {
		m.TTS = d.TTS
	}
	return m
}

const (
	defaultVoice          = "Kore"
	defaultThinkingBudget = 32768
	ledgerTimeout         = 5 * time.Second
)

// Options configures a Gateway. Zero values fall back to defaults.
type Options struct {
	Models         Models
	Voice          string
	ThinkingBudget int32 // 0 means default; -1 asks for dynamic thinking
	Poll           PollPolicy
	Sleeper        Sleeper
	Observer       JobObserver
	Ledger         Recorder
	Tracer         trace.Tracer
	Logger         *infra.Logger
}

// Gateway shapes operation requests for the provider and reduces responses
// to envelopes.
type Gateway struct {
	provider       Provider
	models         Models
	voice          string
	thinkingBudget int32
	poll           PollPolicy
	sleep          Sleeper
	observe        JobObserver
	ledger         Recorder
	tracer         trace.Tracer
	logger         *infra.Logger
}

// New builds a gateway around provider.
func New(provider Provider, opts Options) *Gateway {
	g := &Gateway{
		provider:       provider,
		models:         opts.Models.withDefaults(),
		voice:          opts.Voice,
		thinkingBudget: opts.ThinkingBudget,
		poll:           opts.Poll.withDefaults(),
		sleep:          opts.Sleeper,
		observe:        opts.Observer,
		ledger:         opts.Ledger,
		tracer:         opts.Tracer,
		logger:         infra.LoggerOrDiscard(opts.Logger),
	}
	if g.voice == "" {
		g.voice = defaultVoice
	}
	if g.thinkingBudget == 0 {
		g.thinkingBudget = defaultThinkingBudget
	}
	if g.sleep == nil {
		g.sleep = SleepContext
	}
	if g.tracer == nil {
		g.tracer = otel.Tracer("ouroz/internal/gateway")
	}
	return g
}

// Models returns the resolved model names.
func (g *Gateway) Models() Models {
	return g.models
}

// Execute validates and runs req. Every failure, including a panic inside the
// provider path, is returned as a failure envelope.
func (g *Gateway) Execute(ctx context.Context, req Request) (env Envelope) {
	if req == nil {
		return Failed(invalid("request is required"))
	}
	op := req.Operation()
	model := req.model(g)
	info := CallInfoFrom(ctx)

	ctx, span := g.tracer.Start(ctx, "gateway."+string(op), trace.WithAttributes(
		attribute.String("ouroz.operation", string(op)),
		attribute.String("ouroz.model", model),
	))
	defer span.End()
	if info.RequestID != "" {
		span.SetAttributes(attribute.String("ouroz.request_id", info.RequestID))
	}

	start := time.Now()
	var (
		result Result
		err    error
	)
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: panic: %v", domain.ErrProviderFailure, rec)
			result = nil
		}
		latency := time.Since(start)
		g.record(ctx, info, op, model, latency, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			g.logger.Error().
				Err(err).
				Str("operation", string(op)).
				Str("model", model).
				Str("request_id", info.RequestID).
				Dur("latency", latency).
				Msg("gateway: operation failed")
			env = Failed(err)
			return
		}
		span.SetStatus(codes.Ok, "")
		g.logger.Info().
			Str("operation", string(op)).
			Str("model", model).
			Str("request_id", info.RequestID).
			Dur("latency", latency).
			Msg("gateway: operation succeeded")
		env = Succeeded(result)
	}()

	if err = req.Validate(); err != nil {
		return
	}
	result, err = req.run(ctx, g)
	return
}

func (g *Gateway) record(ctx context.Context, info CallInfo, op Operation, model string, latency time.Duration, opErr error) {
	if g.ledger == nil {
		return
	}
	event := domain.GenerationEvent{
		RequestID: info.RequestID,
		Operation: string(op),
		Model:     model,
		Success:   opErr == nil,
		Latency:   latency,
		Locale:    info.Locale,
		CreatedAt: time.Now().UTC(),
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ledgerTimeout)
	defer cancel()
	if err := g.ledger.Record(recordCtx, event); err != nil {
		g.logger.Warn().Err(err).Str("operation", string(op)).Msg("gateway: ledger write failed")
	}
}

// CallInfo carries per-request metadata from the HTTP layer.
type CallInfo struct {
	RequestID string
	Locale    string
	Location  *LatLng
}

type callInfoKey struct{}

// WithCallInfo attaches info to ctx.
func WithCallInfo(ctx context.Context, info CallInfo) context.Context {
	return context.WithValue(ctx, callInfoKey{}, info)
}

// CallInfoFrom returns the info attached to ctx, if any.
func CallInfoFrom(ctx context.Context) CallInfo {
	if info, ok := ctx.Value(callInfoKey{}).(CallInfo); ok {
		return info
	}
	return CallInfo{}
}
