package output

import "testing"

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"yaml", FormatYAML, false},
		{"json", FormatJSON, false},
		{" YAML ", FormatYAML, false},
		{"JSON", FormatJSON, false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseFormat(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatString(t *testing.T) {
	if FormatYAML.String() != "yaml" {
		t.Errorf("String() = %q, want \"yaml\"", FormatYAML.String())
	}
}

func TestValidateFormat(t *testing.T) {
	valid := []Format{FormatText, FormatYAML, FormatJSON}
	for _, f := range valid {
		if !ValidateFormat(f) {
			t.Errorf("ValidateFormat(%v) = false, want true", f)
		}
	}
	if ValidateFormat(Format("csv")) {
		t.Error("ValidateFormat(csv) = true, want false")
	}
	if ValidateFormat(Format("")) {
		t.Error("ValidateFormat(empty) = true, want false")
	}
}

func TestDefaultFormat(t *testing.T) {
	if DefaultFormat != FormatText {
		t.Errorf("DefaultFormat = %v, want text", DefaultFormat)
	}
}
