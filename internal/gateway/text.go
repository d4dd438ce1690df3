package gateway

import (
	"context"
	"strings"

	sdk "google.golang.org/genai"
)

const transcriptionMIME = "audio/pcm;rate=16000"

func (g *Gateway) groundedQuery(ctx context.Context, r GroundedQueryRequest) (Result, error) {
	info := CallInfoFrom(ctx)
	config := &sdk.GenerateContentConfig{
		Tools: []*sdk.Tool{
			{GoogleSearch: &sdk.GoogleSearch{}},
			{GoogleMaps: &sdk.GoogleMaps{}},
		},
	}

	location := r.LatLng
	if location == nil {
		location = info.Location
	}
	if location != nil {
		config.ToolConfig = &sdk.ToolConfig{
			RetrievalConfig: &sdk.RetrievalConfig{
				LatLng: &sdk.LatLng{
					Latitude:  sdk.Ptr(location.Latitude),
					Longitude: sdk.Ptr(location.Longitude),
				},
				LanguageCode: info.Locale,
			},
		}
	}
	if r.UseThinking {
		config.ThinkingConfig = &sdk.ThinkingConfig{ThinkingBudget: sdk.Ptr(g.thinkingBudget)}
	}

	resp, err := g.provider.GenerateContent(ctx, r.model(g), sdk.Text(strings.TrimSpace(r.Query)), config)
	if err != nil {
		return nil, err
	}
	return GroundedResult{Text: collectText(resp), Sources: groundingSources(resp)}, nil
}

// groundingSources lists web and maps chunks of the first candidate in
// provider order. Duplicates are kept as the provider sent them.
func groundingSources(resp *sdk.GenerateContentResponse) []Source {
	sources := []Source{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return sources
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return sources
	}
	for _, chunk := range meta.GroundingChunks {
		switch {
		case chunk == nil:
		case chunk.Web != nil:
			sources = append(sources, Source{Title: chunk.Web.Title, URI: chunk.Web.URI})
		case chunk.Maps != nil:
			sources = append(sources, Source{Title: chunk.Maps.Title, URI: chunk.Maps.URI})
		}
	}
	return sources
}

func (g *Gateway) transcribe(ctx context.Context, r TranscribeRequest) (Result, error) {
	audio, _, err := decodeMedia("base64Audio", r.Base64Audio)
	if err != nil {
		return nil, err
	}
	contents := []*sdk.Content{sdk.NewContentFromParts([]*sdk.Part{
		sdk.NewPartFromBytes(audio, transcriptionMIME),
		sdk.NewPartFromText(transcribeInstruction),
	}, sdk.RoleUser)}
	return g.generateText(ctx, g.models.Text, contents, nil)
}

func (g *Gateway) negotiationAdvice(ctx context.Context, r NegotiationAdviceRequest) (Result, error) {
	locale := CallInfoFrom(ctx).Locale
	config := &sdk.GenerateContentConfig{
		SystemInstruction: sdk.NewContentFromText(withLanguageHint(negotiationInstruction, locale), sdk.RoleUser),
	}
	return g.generateText(ctx, g.models.Text, sdk.Text(negotiationPrompt(r.History, r.Draft)), config)
}

func (g *Gateway) analyzeDocument(ctx context.Context, r AnalyzeDocumentRequest) (Result, error) {
	return g.analyzeInline(ctx, r.Base64, r.MimeType, documentInstruction)
}

func (g *Gateway) analyzeVisual(ctx context.Context, r AnalyzeVisualRequest) (Result, error) {
	return g.analyzeInline(ctx, r.Base64, r.MimeType, visualInstruction)
}

func (g *Gateway) analyzeInline(ctx context.Context, payload, mimeType, instruction string) (Result, error) {
	data, _, err := decodeMedia("base64", payload)
	if err != nil {
		return nil, err
	}
	locale := CallInfoFrom(ctx).Locale
	contents := []*sdk.Content{sdk.NewContentFromParts([]*sdk.Part{
		sdk.NewPartFromBytes(data, baseMIME(mimeType)),
		sdk.NewPartFromText(withLanguageHint(instruction, locale)),
	}, sdk.RoleUser)}
	return g.generateText(ctx, g.models.Text, contents, nil)
}

func (g *Gateway) generateText(ctx context.Context, model string, contents []*sdk.Content, config *sdk.GenerateContentConfig) (Result, error) {
	resp, err := g.provider.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, err
	}
	return TextResult{Text: collectText(resp)}, nil
}

func (g *Gateway) textToSpeech(ctx context.Context, r TextToSpeechRequest) (Result, error) {
	config := &sdk.GenerateContentConfig{
		ResponseModalities: []string{string(sdk.ModalityAudio)},
		SpeechConfig: &sdk.SpeechConfig{
			VoiceConfig: &sdk.VoiceConfig{
				PrebuiltVoiceConfig: &sdk.PrebuiltVoiceConfig{VoiceName: g.voice},
			},
		},
	}
	resp, err := g.provider.GenerateContent(ctx, g.models.TTS, sdk.Text(strings.TrimSpace(r.Text)), config)
	if err != nil {
		return nil, err
	}
	return AudioResult{Audio: firstInlineBase64(resp)}, nil
}
