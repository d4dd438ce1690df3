package gateway

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	sdk "google.golang.org/genai"

	"ouroz/internal/domain"
)

// JobState is a state of the video job machine.
type JobState string

const (
	JobSubmitted JobState = "submitted"
	JobPolling   JobState = "polling"
	JobDone      JobState = "done"
	JobFetched   JobState = "fetched"
	JobFailed    JobState = "failed"
	JobExhausted JobState = "exhausted"
	JobTimedOut  JobState = "timed_out"
	JobCancelled JobState = "cancelled"
)

// Terminal reports whether no further transition can follow s.
func (s JobState) Terminal() bool {
	switch s {
	case JobFetched, JobFailed, JobExhausted, JobTimedOut, JobCancelled:
		return true
	}
	return false
}

// PollPolicy bounds the status checks of a video job.
type PollPolicy struct {
	Interval    time.Duration
	Multiplier  float64
	MaxInterval time.Duration
	MaxAttempts int
	Timeout     time.Duration
}

// DefaultPollPolicy starts at 8s, backs off by 1.5x up to 30s, and gives up
// after 40 checks or 10 minutes.
func DefaultPollPolicy() PollPolicy {
	return PollPolicy{
		Interval:    8 * time.Second,
		Multiplier:  1.5,
		MaxInterval: 30 * time.Second,
		MaxAttempts: 40,
		Timeout:     10 * time.Minute,
	}
}

func (p PollPolicy) withDefaults() PollPolicy {
	d := DefaultPollPolicy()
	if p.Interval <= 0 {
		p.Interval = d.Interval
	}
	if p.Multiplier < 1 {
		p.Multiplier = d.Multiplier
	}
	if p.MaxInterval < p.Interval {
		p.MaxInterval = max(p.Interval, d.MaxInterval)
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.Timeout <= 0 {
		p.Timeout = d.Timeout
	}
	return p
}

// Next returns the wait that follows current.
func (p PollPolicy) Next(current time.Duration) time.Duration {
	next := time.Duration(math.Round(float64(current) * p.Multiplier))
	if next > p.MaxInterval {
		return p.MaxInterval
	}
	return next
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the production Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// JobEvent reports one state transition of a video job.
type JobEvent struct {
	Operation string
	State     JobState
	Attempt   int
	Wait      time.Duration
	Err       error
}

// JobObserver is notified of every transition.
type JobObserver func(JobEvent)

type videoJob struct {
	g        *Gateway
	parent   context.Context
	name     string
	state    JobState
	attempts int
}

func (j *videoJob) transition(state JobState, wait time.Duration, err error) {
	j.state = state
	ev := j.g.logger.Debug().
		Str("job", j.name).
		Str("state", string(state)).
		Int("attempt", j.attempts)
	if wait > 0 {
		ev = ev.Dur("wait", wait)
	}
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("gateway: video job transition")
	if j.g.observe != nil {
		j.g.observe(JobEvent{Operation: j.name, State: state, Attempt: j.attempts, Wait: wait, Err: err})
	}
}

// interrupted classifies a context stop: the caller's own cancellation wins
// over the job's wall-clock budget.
func (j *videoJob) interrupted(ctx context.Context, cause error) error {
	if perr := j.parent.Err(); perr != nil {
		j.transition(JobCancelled, 0, perr)
		return perr
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err := fmt.Errorf("%w after %s", domain.ErrPollTimeout, j.g.poll.Timeout)
		j.transition(JobTimedOut, 0, err)
		return err
	}
	j.transition(JobFailed, 0, cause)
	return cause
}

func (g *Gateway) generateVideo(parent context.Context, r VideoGenerateRequest) (Result, error) {
	var seed *sdk.Image
	if strings.TrimSpace(r.ImageBase64) != "" {
		data, declared, err := decodeMedia("imageBase64", r.ImageBase64)
		if err != nil {
			return nil, err
		}
		seed = &sdk.Image{ImageBytes: data, MIMEType: mediaType(declared, data)}
	}
	aspect := "16:9"
	if r.IsPortrait {
		aspect = "9:16"
	}
	config := &sdk.GenerateVideosConfig{
		NumberOfVideos: 1,
		AspectRatio:    aspect,
		Resolution:     "720p",
	}

	ctx, cancel := context.WithTimeout(parent, g.poll.Timeout)
	defer cancel()

	job := &videoJob{g: g, parent: parent}
	op, err := g.provider.GenerateVideos(ctx, g.models.Video, strings.TrimSpace(r.Prompt), seed, config)
	if err != nil {
		if ctx.Err() != nil {
			return nil, job.interrupted(ctx, err)
		}
		job.transition(JobFailed, 0, err)
		return nil, err
	}
	if op == nil {
		err := fmt.Errorf("%w: empty video operation", domain.ErrProviderFailure)
		job.transition(JobFailed, 0, err)
		return nil, err
	}
	job.name = op.Name
	job.transition(JobSubmitted, 0, nil)

	delay := g.poll.Interval
	for !op.Done {
		if job.attempts >= g.poll.MaxAttempts {
			err := fmt.Errorf("%w after %d status checks", domain.ErrPollExhausted, job.attempts)
			job.transition(JobExhausted, 0, err)
			return nil, err
		}
		job.transition(JobPolling, delay, nil)
		if err := g.sleep(ctx, delay); err != nil {
			return nil, job.interrupted(ctx, err)
		}
		if err := ctx.Err(); err != nil {
			return nil, job.interrupted(ctx, err)
		}

		job.attempts++
		next, err := g.provider.GetVideosOperation(ctx, op)
		if err != nil {
			if ctx.Err() != nil {
				return nil, job.interrupted(ctx, err)
			}
			job.transition(JobFailed, 0, err)
			return nil, err
		}
		if next == nil {
			err := fmt.Errorf("%w: empty video operation", domain.ErrProviderFailure)
			job.transition(JobFailed, 0, err)
			return nil, err
		}
		op = next
		delay = g.poll.Next(delay)
	}

	if len(op.Error) > 0 {
		err := fmt.Errorf("%w: %s", domain.ErrProviderFailure, operationErrorMessage(op.Error))
		job.transition(JobFailed, 0, err)
		return nil, err
	}
	video := firstVideo(op)
	if video == nil || (video.URI == "" && len(video.VideoBytes) == 0) {
		job.transition(JobFailed, 0, domain.ErrNoVideo)
		return nil, domain.ErrNoVideo
	}
	job.transition(JobDone, 0, nil)

	data, mime := video.VideoBytes, video.MIMEType
	if len(data) == 0 {
		fetched, contentType, err := g.provider.FetchMedia(ctx, video.URI)
		if err != nil {
			if ctx.Err() != nil {
				return nil, job.interrupted(ctx, err)
			}
			job.transition(JobFailed, 0, err)
			return nil, err
		}
		if len(fetched) == 0 {
			job.transition(JobFailed, 0, domain.ErrNoVideo)
			return nil, domain.ErrNoVideo
		}
		data = fetched
		if mime == "" {
			mime = contentType
		}
	}
	mime = mediaType(mime, data)
	job.transition(JobFetched, 0, nil)
	return VideoResult{Video: dataURL(mime, data)}, nil
}

func firstVideo(op *sdk.GenerateVideosOperation) *sdk.Video {
	if op.Response == nil {
		return nil
	}
	for _, gv := range op.Response.GeneratedVideos {
		if gv != nil && gv.Video != nil {
			return gv.Video
		}
	}
	return nil
}

func operationErrorMessage(raw map[string]any) string {
	if msg, ok := raw["message"].(string); ok && msg != "" {
		return msg
	}
	return fmt.Sprintf("%v", raw)
}
