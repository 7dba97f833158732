package services

import (
	"fmt"
	"strconv"
)

// NextTarget computes the "beat this" goal from the last recorded score:
// last + 1.0, clamped to 10.0. The second return is false when the last
// score is the unknown sentinel or otherwise unparseable.
func NextTarget(lastScore string) (float64, bool) {
	value, err := strconv.ParseFloat(lastScore, 64)
	if err != nil {
		return 0, false
	}
	target := value + 1.0
	if target > 10.0 {
		target = 10.0
	}
	return target, true
}

// TargetMessage renders the next-round encouragement. Unparseable last
// scores fall back to a generic prompt instead of failing the render.
func TargetMessage(lastScore string) string {
	target, ok := NextTarget(lastScore)
	if !ok {
		return "Ready for another round?"
	}
	return fmt.Sprintf("Beat your %s! Aim for %.1f.", lastScore, target)
}
