package gateway

import (
	"context"
	"strings"

	sdk "google.golang.org/genai"
)

var imageModalities = []string{string(sdk.ModalityImage), string(sdk.ModalityText)}

func (g *Gateway) generateImage(ctx context.Context, r ImageGenerateRequest) (Result, error) {
	size := r.Size
	if size == "" {
		size = ImageSize1K
	}
	config := &sdk.GenerateContentConfig{
		ResponseModalities: imageModalities,
		ImageConfig: &sdk.ImageConfig{
			AspectRatio: "1:1",
			ImageSize:   string(size),
		},
	}
	resp, err := g.provider.GenerateContent(ctx, g.models.Image, sdk.Text(strings.TrimSpace(r.Prompt)), config)
	if err != nil {
		return nil, err
	}
	return ImageResult{Image: firstInlineBase64(resp)}, nil
}

func (g *Gateway) editImage(ctx context.Context, r ImageEditRequest) (Result, error) {
	data, declared, err := decodeMedia("base64Image", r.Base64Image)
	if err != nil {
		return nil, err
	}
	contents := []*sdk.Content{sdk.NewContentFromParts([]*sdk.Part{
		sdk.NewPartFromBytes(data, mediaType(declared, data)),
		sdk.NewPartFromText(editPrompt(r.Prompt)),
	}, sdk.RoleUser)}
	config := &sdk.GenerateContentConfig{ResponseModalities: imageModalities}

	resp, err := g.provider.GenerateContent(ctx, g.models.Edit, contents, config)
	if err != nil {
		return nil, err
	}
	return ImageResult{Image: firstInlineBase64(resp)}, nil
}

// firstInlineBase64 encodes the first inline-data part of the first candidate.
func firstInlineBase64(resp *sdk.GenerateContentResponse) *string {
	for _, part := range firstCandidateParts(resp) {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		encoded := encodeBase64(part.InlineData.Data)
		return &encoded
	}
	return nil
}

func firstCandidateParts(resp *sdk.GenerateContentResponse) []*sdk.Part {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return nil
	}
	return c.Content.Parts
}

// collectText joins the non-thought text parts of the first candidate.
func collectText(resp *sdk.GenerateContentResponse) string {
	var b strings.Builder
	for _, part := range firstCandidateParts(resp) {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}
