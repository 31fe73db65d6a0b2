package engine

import "testing"

func TestResolveFact(t *testing.T) {
	facts := map[string]any{
		"employeeCount": float64(5),
		"location": map[string]any{
			"state": "CA",
			"city":  "San Jose",
		},
		"activities": map[string]any{
			"servesFood": true,
		},
		"nulled": nil,
	}

	tests := []struct {
		name      string
		path      string
		want      any
		wantFound bool
	}{
		{"top-level value", "employeeCount", float64(5), true},
		{"nested value", "location.state", "CA", true},
		{"nested bool", "activities.servesFood", true, true},
		{"explicit null resolves as present", "nulled", nil, true},
		{"missing top-level key", "industry", nil, false},
		{"missing nested key", "location.zip", nil, false},
		{"missing intermediate map", "industry.naicsCode", nil, false},
		{"path through a leaf value", "employeeCount.nested", nil, false},
		{"path through null", "nulled.inner", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := resolveFact(facts, tt.path)
			if found != tt.wantFound {
				t.Fatalf("resolveFact(%q) found = %v, want %v", tt.path, found, tt.wantFound)
			}
			if got != tt.want {
				t.Errorf("resolveFact(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
