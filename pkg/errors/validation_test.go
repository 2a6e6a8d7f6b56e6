package errors

import "testing"

func TestValidateScale(t *testing.T) {
	tests := []struct {
		name    string
		scale   float64
		wantErr bool
	}{
		{"default", 1.0, false},
		{"minimum", 0.01, false},
		{"maximum", 100, false},
		{"too small", 0.001, true},
		{"too large", 101, true},
		{"zero", 0, true},
		{"negative", -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScale(tt.scale)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateScale(%v) error = %v, wantErr %v", tt.scale, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidScale) {
				t.Errorf("ValidateScale(%v) code = %v, want %v", tt.scale, GetCode(err), ErrCodeInvalidScale)
			}
		})
	}
}

func TestValidateDPI(t *testing.T) {
	tests := []struct {
		name    string
		dpi     int
		wantErr bool
	}{
		{"default", 300, false},
		{"minimum", 72, false},
		{"maximum", 2400, false},
		{"too low", 71, true},
		{"too high", 2401, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDPI(tt.dpi)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDPI(%d) error = %v, wantErr %v", tt.dpi, err, tt.wantErr)
			}
		})
	}
}
