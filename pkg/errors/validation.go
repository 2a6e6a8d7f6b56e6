package errors

// Option bounds shared by the CLI and the pipeline.
const (
	MinScale = 0.01
	MaxScale = 100.0
	MinDPI   = 72
	MaxDPI   = 2400
)

// ValidateScale validates a picture scale factor.
func ValidateScale(scale float64) error {
	if scale < MinScale || scale > MaxScale {
		return New(ErrCodeInvalidScale, "scale must be in %v .. %v, got %v", MinScale, MaxScale, scale)
	}
	return nil
}

// ValidateDPI validates a PNG rasterization resolution.
func ValidateDPI(dpi int) error {
	if dpi < MinDPI || dpi > MaxDPI {
		return New(ErrCodeInvalidDPI, "dpi must be in %d .. %d, got %d", MinDPI, MaxDPI, dpi)
	}
	return nil
}
