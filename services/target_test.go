package services

import "testing"

func TestNextTarget(t *testing.T) {
	tests := []struct {
		lastScore string
		want      float64
		ok        bool
	}{
		{"4.0", 5.0, true},
		{"9.6", 10.0, true},
		{"10", 10.0, true},
		{ScoreUnknown, 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := NextTarget(tt.lastScore)
		if ok != tt.ok || got != tt.want {
			t.Errorf("NextTarget(%q) = (%v, %v), want (%v, %v)", tt.lastScore, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTargetMessage(t *testing.T) {
	if got := TargetMessage("8.5"); got != "Beat your 8.5! Aim for 9.5." {
		t.Errorf("TargetMessage(8.5) = %q", got)
	}
	if got := TargetMessage(ScoreUnknown); got != "Ready for another round?" {
		t.Errorf("TargetMessage(unknown) = %q, want generic fallback", got)
	}
}
