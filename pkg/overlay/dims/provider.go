// Package dims resolves chart container and axis pixel sizes from a live
// chart handle, with retry support for the window right after mount when the
// rendering surface still reports zero sizes, and fixed fallbacks for when no
// real measurement can be obtained at all.
package dims

import (
	"context"
	"time"

	"github.com/jpillora/backoff"
	"github.com/raykavin/chartoverlay/pkg/chart"
	"github.com/raykavin/chartoverlay/pkg/logger"
	"github.com/raykavin/chartoverlay/pkg/overlay"
)

// Fallback dimensions, matching the sizes the charting surface uses before
// any real measurement arrives.
const (
	DefaultWidth  = 800
	DefaultHeight = 600

	DefaultTimeScaleHeight = 28
	DefaultPriceScaleWidth = 70

	// MinDimension is the smallest container side considered "ready".
	MinDimension = 50
)

// RetryOptions tunes ContainerDimensionsWithRetry.
type RetryOptions struct {
	MinWidth    float64
	MinHeight   float64
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryOptions returns the retry policy used when callers pass the
// zero value.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MinWidth:    MinDimension,
		MinHeight:   MinDimension,
		MaxAttempts: 5,
		BaseDelay:   50 * time.Millisecond,
	}
}

// AxisDimensions groups the sizes of the two chart axes.
type AxisDimensions struct {
	TimeScale  overlay.Dimensions `json:"timeScale"`
	PriceScale overlay.Dimensions `json:"priceScale"`
}

// Provider reads dimensions from a chart handle.
type Provider struct {
	minWidth  float64
	minHeight float64
	log       logger.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithMinimums overrides the smallest container size treated as ready.
func WithMinimums(width, height float64) Option {
	return func(p *Provider) {
		p.minWidth = width
		p.minHeight = height
	}
}

// NewProvider creates a dimension provider.
func NewProvider(log logger.Logger, options ...Option) *Provider {
	provider := &Provider{
		minWidth:  MinDimension,
		minHeight: MinDimension,
		log:       log,
	}

	for _, option := range options {
		option(provider)
	}

	return provider
}

// ContainerDimensions reads the chart container's current size. It returns
// nil when the handle is missing or the reported box is below the configured
// minimums; nil means "not ready yet", not "zero-sized".
func (p *Provider) ContainerDimensions(handle chart.Handle) *overlay.Dimensions {
	if handle == nil {
		return nil
	}

	dimensions, ok := handle.ContainerDimensions()
	if !ok {
		return nil
	}

	if dimensions.Width < p.minWidth || dimensions.Height < p.minHeight {
		return nil
	}

	return &dimensions
}

// ContainerDimensionsWithRetry polls the container size until it meets the
// given minimums, backing off exponentially between attempts. It returns nil
// when every attempt fails or the context is canceled; callers treat nil as
// "retry later", never as an error.
func (p *Provider) ContainerDimensionsWithRetry(ctx context.Context, handle chart.Handle, opts RetryOptions) *overlay.Dimensions {
	if opts.MaxAttempts <= 0 {
		opts = DefaultRetryOptions()
	}

	wait := &backoff.Backoff{
		Min:    opts.BaseDelay,
		Max:    opts.BaseDelay * time.Duration(1<<uint(opts.MaxAttempts)),
		Factor: 2,
	}

	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		if handle != nil {
			if dimensions, ok := handle.ContainerDimensions(); ok &&
				dimensions.Width >= opts.MinWidth && dimensions.Height >= opts.MinHeight {
				return &dimensions
			}
		}

		if attempt == opts.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait.Duration()):
		}
	}

	p.log.WithFields(map[string]any{
		"attempts": opts.MaxAttempts,
	}).Debug("container dimensions not ready, giving up")

	return nil
}

// AxisDimensions reads the time-scale and price-scale sizes, substituting the
// fixed defaults for whichever axis cannot be measured. It never fails.
func (p *Provider) AxisDimensions(handle chart.Handle) AxisDimensions {
	axes := AxisDimensions{
		TimeScale:  overlay.Dimensions{Width: DefaultWidth, Height: DefaultTimeScaleHeight},
		PriceScale: overlay.Dimensions{Width: DefaultPriceScaleWidth, Height: DefaultHeight},
	}

	if handle == nil {
		return axes
	}

	if timeScale, ok := handle.TimeScaleDimensions(); ok {
		axes.TimeScale = timeScale
	}
	if priceScale, ok := handle.PriceScaleDimensions(); ok {
		axes.PriceScale = priceScale
	}

	return axes
}

// DefaultDimensions is the hard-coded container fallback used when no real
// measurement is obtainable at all.
func DefaultDimensions() overlay.Dimensions {
	return overlay.Dimensions{Width: DefaultWidth, Height: DefaultHeight}
}
