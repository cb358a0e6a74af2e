// Package render owns the live QR encoder and paints it onto a Surface.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/yeqown/go-qrcode/v2"
)

var (
	// ErrEmptyValue is returned when asked to encode an empty string.
	ErrEmptyValue = errors.New("qr value is empty")
	// ErrSizeTooSmall is returned when Size leaves less than one pixel per module.
	ErrSizeTooSmall = errors.New("qr size too small for value")
)

// Options are the encoder parameters a render may change.
type Options struct {
	Value      string
	Size       int
	Foreground color.RGBA
	// Background nil means a transparent raster.
	Background *color.RGBA
	QuietZone  int
}

// Adapter binds a single encoder instance to one surface. The encoder is
// created on the first render and updated in place afterwards.
type Adapter struct {
	surface *Surface
	enc     *encoder
}

func NewAdapter(surface *Surface) *Adapter {
	return &Adapter{surface: surface}
}

// Surface returns the bound surface.
func (a *Adapter) Surface() *Surface {
	return a.surface
}

// Rendered reports whether a render has happened.
func (a *Adapter) Rendered() bool {
	return a.enc != nil
}

// QuietZone returns the padding of the live encoder, 0 before the first render.
func (a *Adapter) QuietZone() int {
	if a.enc == nil {
		return 0
	}
	return a.enc.opts.QuietZone
}

// RenderOrUpdate redraws the surface with opts. All previous pixels,
// including any composited logo, are overwritten.
func (a *Adapter) RenderOrUpdate(opts Options) error {
	if opts.Value == "" {
		return ErrEmptyValue
	}
	if opts.Size <= 0 {
		return fmt.Errorf("invalid qr size %d", opts.Size)
	}
	if opts.QuietZone < 0 {
		opts.QuietZone = 0
	}

	if a.enc == nil {
		enc, err := newEncoder(opts)
		if err != nil {
			return err
		}
		a.enc = enc
	} else if err := a.enc.set(opts); err != nil {
		return err
	}

	a.enc.draw(a.surface)
	return nil
}

// encoder keeps the module matrix for the current value.
type encoder struct {
	opts    Options
	modules [][]bool
}

func newEncoder(opts Options) (*encoder, error) {
	e := &encoder{}
	if err := e.set(opts); err != nil {
		return nil, err
	}
	return e, nil
}

// set applies opts; the symbol is re-encoded only when the value changes.
// Nothing changes when opts are rejected.
func (e *encoder) set(opts Options) error {
	modules := e.modules
	if modules == nil || opts.Value != e.opts.Value {
		var err error
		if modules, err = encodeModules(opts.Value); err != nil {
			return err
		}
	}
	if opts.Size < len(modules) {
		return fmt.Errorf("%w: %d px for %d modules", ErrSizeTooSmall, opts.Size, len(modules))
	}
	e.modules = modules
	e.opts = opts
	return nil
}

func encodeModules(value string) ([][]bool, error) {
	qrc, err := qrcode.NewWith(value,
		qrcode.WithEncodingMode(qrcode.EncModeByte),
		qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest),
	)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	w := &matrixWriter{}
	if err := qrc.Save(w); err != nil {
		return nil, fmt.Errorf("read qr matrix: %w", err)
	}
	return w.modules, nil
}

// draw paints the symbol: a Size×Size module area centred in a square of
// Size + 2*QuietZone pixels. Module edges are placed at floor(i*Size/n) so
// the modules tile the area exactly.
func (e *encoder) draw(s *Surface) {
	qz := e.opts.QuietZone
	size := e.opts.Size
	s.resize(size + 2*qz)
	dst := s.RGBA()

	var bg image.Image = image.Transparent
	if e.opts.Background != nil {
		bg = image.NewUniform(*e.opts.Background)
	}
	draw.Draw(dst, dst.Bounds(), bg, image.Point{}, draw.Src)

	n := len(e.modules)
	if n == 0 {
		return
	}
	fg := image.NewUniform(e.opts.Foreground)
	edge := func(i int) int { return qz + i*size/n }

	for y, row := range e.modules {
		for x, set := range row {
			if !set {
				continue
			}
			r := image.Rect(edge(x), edge(y), edge(x+1), edge(y+1))
			draw.Draw(dst, r, fg, image.Point{}, draw.Src)
		}
	}
}

// matrixWriter captures the module matrix from the encoder.
type matrixWriter struct {
	modules [][]bool
}

func (w *matrixWriter) Write(mat qrcode.Matrix) error {
	modules := make([][]bool, mat.Height())
	for y := range modules {
		modules[y] = make([]bool, mat.Width())
	}
	mat.Iterate(qrcode.IterDirection_ROW, func(x, y int, v qrcode.QRValue) {
		if y < len(modules) && x < len(modules[y]) {
			modules[y][x] = v.IsSet()
		}
	})
	w.modules = modules
	return nil
}

func (w *matrixWriter) Close() error { return nil }
