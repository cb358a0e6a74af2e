package studio

import (
	"context"
	"errors"
	"image"

	"github.com/cristianadrielbraun/qrdesigner/internal/compose"
)

// ErrLogoSuperseded is reported by a LogoTask whose decode finished after a
// newer upload was started. Its result was discarded.
var ErrLogoSuperseded = errors.New("logo upload superseded by a newer one")

// LogoDecoder turns a data URL into an image.
type LogoDecoder interface {
	Decode(ctx context.Context, dataURL string) (image.Image, error)
}

// DecoderFunc adapts a function to LogoDecoder.
type DecoderFunc func(ctx context.Context, dataURL string) (image.Image, error)

func (f DecoderFunc) Decode(ctx context.Context, dataURL string) (image.Image, error) {
	return f(ctx, dataURL)
}

// DataURLDecoder decodes with compose.DecodeDataURL, honouring cancellation
// before and after the decode.
var DataURLDecoder LogoDecoder = DecoderFunc(func(ctx context.Context, dataURL string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := compose.DecodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return img, nil
})

// LogoTask tracks one asynchronous logo decode.
type LogoTask struct {
	generation uint64
	done       chan struct{}
	err        error
}

func newLogoTask(generation uint64) *LogoTask {
	return &LogoTask{generation: generation, done: make(chan struct{})}
}

func completedLogoTask(generation uint64, err error) *LogoTask {
	t := newLogoTask(generation)
	t.finish(err)
	return t
}

func (t *LogoTask) finish(err error) {
	t.err = err
	close(t.done)
}

// Generation is the upload number this task belongs to.
func (t *LogoTask) Generation() uint64 {
	return t.generation
}

// Done is closed once the decode has been applied, rejected or discarded.
func (t *LogoTask) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task completes or ctx ends. It returns the decode
// error, ErrLogoSuperseded for a stale result, or nil when the logo was applied.
func (t *LogoTask) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
