package middleware

import "testing"

func TestValidateChannelID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantID  string
		wantErr bool
	}{
		{"valid channel id", "UCX6OQ3DkcsbYNE6H8uQQuVA", "UCX6OQ3DkcsbYNE6H8uQQuVA", false},
		{"valid with dash", "UC-lHJZR3Gqxm24_Vd_AJ5Yw", "UC-lHJZR3Gqxm24_Vd_AJ5Yw", false},
		{"trims whitespace", "  UCabc  ", "UCabc", false},
		{"empty", "", "", true},
		{"too long", "UC123456789012345678901234567890X", "", true},
		{"invalid chars", "UC abc", "", true},
		{"sql injection", "UC'; DROP--", "", true},
		{"unicode", "UCabcé", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateChannelID(tt.input)
			if (errMsg != "") != tt.wantErr {
				t.Errorf("ValidateChannelID(%q) errMsg = %q, wantErr %v", tt.input, errMsg, tt.wantErr)
			}
			if got != tt.wantID {
				t.Errorf("ValidateChannelID(%q) = %q, want %q", tt.input, got, tt.wantID)
			}
		})
	}
}

func TestValidateQueryText(t *testing.T) {
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "freelance designer vlog", "freelance designer vlog", false},
		{"trims whitespace", "  vlog  ", "vlog", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"too long", string(long), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateQueryText(tt.input)
			if (errMsg != "") != tt.wantErr {
				t.Errorf("ValidateQueryText errMsg = %q, wantErr %v", errMsg, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateQueryText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateRegionCode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid uppercase", "US", "US", false},
		{"lowercase normalized", "in", "IN", false},
		{"empty is allowed", "", "", false},
		{"too long", "USA", "", true},
		{"single letter", "U", "", true},
		{"digits", "U1", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateRegionCode(tt.input)
			if (errMsg != "") != tt.wantErr {
				t.Errorf("ValidateRegionCode(%q) errMsg = %q, wantErr %v", tt.input, errMsg, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateRegionCode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClampPageLimit(t *testing.T) {
	tests := []struct {
		name  string
		input int
		want  int
	}{
		{"zero uses default", 0, DefaultPageLimit},
		{"negative uses default", -5, DefaultPageLimit},
		{"within range", 100, 100},
		{"above max clamped", 5000, MaxPageLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampPageLimit(tt.input); got != tt.want {
				t.Errorf("ClampPageLimit(%d) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
