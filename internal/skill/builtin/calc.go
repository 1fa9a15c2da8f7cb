package builtin

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/sandevgo/harvey/internal/core"
)

// Calculator performs basic arithmetic over the operand list extracted from
// the utterance. Each arithmetic intent maps to one operation; the last
// result is kept in the conversation context under "last_result" so a
// follow-up can chain on it.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

func (s *Calculator) Name() string        { return "calculator" }
func (s *Calculator) Description() string { return "Adds, subtracts, multiplies and divides." }
func (s *Calculator) Priority() int       { return 0 }

func (s *Calculator) Intents() []string {
	return []string{"calculate", "subtract", "multiply", "divide"}
}

func (s *Calculator) Execute(ctx context.Context, intent string, entities map[string]core.EntityValue, convo *core.Context) (string, error) {
	operands := s.operands(entities, convo)
	if len(operands) < 2 {
		return "", fmt.Errorf("need at least two numbers, got %d", len(operands))
	}

	result := operands[0]
	for _, n := range operands[1:] {
		switch intent {
		case "calculate":
			result += n
		case "subtract":
			result -= n
		case "multiply":
			result *= n
		case "divide":
			if n == 0 {
				return "", fmt.Errorf("division by zero")
			}
			result /= n
		default:
			return "", fmt.Errorf("unsupported operation %q", intent)
		}
	}

	convo.Set("last_result", formatNumber(result))
	return "That makes " + formatNumber(result) + ".", nil
}

// operands prefers the extracted number list; a single extracted number is
// combined with the previous result when one exists.
func (s *Calculator) operands(entities map[string]core.EntityValue, convo *core.Context) []float64 {
	if ev, ok := entities["numbers"]; ok && len(ev.Numbers) > 0 {
		if len(ev.Numbers) >= 2 {
			return ev.Numbers
		}
		if prev, ok := convo.Get("last_result"); ok {
			if p, err := strconv.ParseFloat(prev, 64); err == nil {
				return []float64{p, ev.Numbers[0]}
			}
		}
		return ev.Numbers
	}
	return nil
}

func formatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatFloat(n, 'f', 0, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
