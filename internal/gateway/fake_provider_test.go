package gateway

import (
	"context"
	"sync"
	"time"

	sdk "google.golang.org/genai"
)

type contentCall struct {
	model    string
	contents []*sdk.Content
	config   *sdk.GenerateContentConfig
}

type videoCall struct {
	model  string
	prompt string
	image  *sdk.Image
	config *sdk.GenerateVideosConfig
}

type fakeProvider struct {
	mu sync.Mutex

	contentResp  *sdk.GenerateContentResponse
	contentErr   error
	contentPanic bool
	contentCalls []contentCall

	submitOp    *sdk.GenerateVideosOperation
	submitErr   error
	videoCalls  []videoCall
	statuses    []*sdk.GenerateVideosOperation
	statusErr   error
	statusCalls int

	media      []byte
	mediaType  string
	mediaErr   error
	fetchCalls []string
}

func (f *fakeProvider) GenerateContent(_ context.Context, model string, contents []*sdk.Content, config *sdk.GenerateContentConfig) (*sdk.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contentCalls = append(f.contentCalls, contentCall{model: model, contents: contents, config: config})
	if f.contentPanic {
		panic("nil candidate")
	}
	if f.contentErr != nil {
		return nil, f.contentErr
	}
	return f.contentResp, nil
}

func (f *fakeProvider) GenerateVideos(_ context.Context, model, prompt string, image *sdk.Image, config *sdk.GenerateVideosConfig) (*sdk.GenerateVideosOperation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.videoCalls = append(f.videoCalls, videoCall{model: model, prompt: prompt, image: image, config: config})
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	if f.submitOp != nil {
		return f.submitOp, nil
	}
	return &sdk.GenerateVideosOperation{Name: "operations/test"}, nil
}

func (f *fakeProvider) GetVideosOperation(_ context.Context, op *sdk.GenerateVideosOperation) (*sdk.GenerateVideosOperation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	if len(f.statuses) == 0 {
		return op, nil
	}
	idx := f.statusCalls - 1
	if idx >= len(f.statuses) {
		idx = len(f.statuses) - 1
	}
	return f.statuses[idx], nil
}

func (f *fakeProvider) FetchMedia(_ context.Context, uri string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls = append(f.fetchCalls, uri)
	if f.mediaErr != nil {
		return nil, "", f.mediaErr
	}
	return f.media, f.mediaType, nil
}

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.contentCalls) + len(f.videoCalls) + f.statusCalls + len(f.fetchCalls)
}

type recordingSleeper struct {
	waits []time.Duration
	hook  func(n int) error
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	if s.hook != nil {
		if err := s.hook(len(s.waits)); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func textResponse(parts ...*sdk.Part) *sdk.GenerateContentResponse {
	return &sdk.GenerateContentResponse{
		Candidates: []*sdk.Candidate{{Content: &sdk.Content{Role: "model", Parts: parts}}},
	}
}

func pending(name string) *sdk.GenerateVideosOperation {
	return &sdk.GenerateVideosOperation{Name: name}
}

func finished(name, uri string) *sdk.GenerateVideosOperation {
	return &sdk.GenerateVideosOperation{
		Name: name,
		Done: true,
		Response: &sdk.GenerateVideosResponse{
			GeneratedVideos: []*sdk.GeneratedVideo{{Video: &sdk.Video{URI: uri}}},
		},
	}
}
