package assets

import (
	"errors"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "simple name", input: "datasheet"},
		{name: "name with hyphen", input: "quick-start"},
		{name: "name with underscore", input: "data_sheet"},
		{name: "mixed case", input: "DataSheet"},
		{name: "empty", input: "", wantErr: ErrInvalidAssetName},
		{name: "forward slash", input: "a/b", wantErr: ErrInvalidAssetName},
		{name: "backslash", input: `a\b`, wantErr: ErrInvalidAssetName},
		{name: "traversal", input: "..", wantErr: ErrInvalidAssetName},
		{name: "extension", input: "datasheet.tex", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAssetName(%q) = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateImageName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		wantErr error
	}{
		{"pinout.png", nil},
		{"block-diagram_v2.svg", nil},
		{"", ErrInvalidAssetName},
		{".hidden.png", ErrInvalidAssetName},
		{"../escape.png", ErrInvalidAssetName},
		{"sub/dir.png", ErrInvalidAssetName},
		{`sub\dir.png`, ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			err := ValidateImageName(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateImageName(%q) = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
