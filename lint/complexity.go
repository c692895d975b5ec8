// Copyright © 2026 The FXLINT authors

package lint

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/luthersystems/fxlint/parser"
)

// Complexity classifies how hard a statement is to read.
type Complexity int

const (
	Simple Complexity = iota
	Moderate
	Complex
	VeryComplex
)

func (c Complexity) String() string {
	switch c {
	case Simple:
		return "Simple"
	case Moderate:
		return "Moderate"
	case Complex:
		return "Complex"
	case VeryComplex:
		return "Very Complex"
	}
	return fmt.Sprintf("Complexity(%d)", int(c))
}

// MarshalJSON serializes the complexity as a JSON string.
func (c Complexity) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON deserializes a complexity from a JSON string.
func (c *Complexity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	for _, v := range []Complexity{Simple, Moderate, Complex, VeryComplex} {
		if v.String() == str {
			*c = v
			return nil
		}
	}
	return fmt.Errorf("unknown complexity: %q", str)
}

// Thresholds are the exclusive lower bounds of the scores classified as
// Moderate, Complex and VeryComplex.
type Thresholds struct {
	Moderate    int `mapstructure:"moderate"`
	Complex     int `mapstructure:"complex"`
	VeryComplex int `mapstructure:"very-complex"`
}

// DefaultThresholds are the standard complexity thresholds.
var DefaultThresholds = Thresholds{Moderate: 30, Complex: 60, VeryComplex: 75}

// Validate checks that the thresholds are increasing.
func (t Thresholds) Validate() error {
	if t.Moderate < 0 || t.Moderate >= t.Complex || t.Complex >= t.VeryComplex {
		return fmt.Errorf("complexity thresholds must be increasing: %d, %d, %d", t.Moderate, t.Complex, t.VeryComplex)
	}
	return nil
}

// Classify returns the complexity of a score.
func (t Thresholds) Classify(score int) Complexity {
	switch {
	case score > t.VeryComplex:
		return VeryComplex
	case score > t.Complex:
		return Complex
	case score > t.Moderate:
		return Moderate
	}
	return Simple
}

// Classify returns the complexity of a score under DefaultThresholds.
func Classify(score int) Complexity {
	return DefaultThresholds.Classify(score)
}

// scoredOperators are the operator characters that add to a score.
const scoredOperators = "+-*/&|=<>!"

// ScoreComplexity scores a scanned statement over its raw text.  Each
// opening parenthesis counts two and each scored operator character counts
// one, wherever it appears, including string literals and comments.
func ScoreComplexity(s *parser.Scan) int {
	score := 0
	for _, r := range s.Text() {
		switch {
		case r == '(':
			score += 2
		case strings.ContainsRune(scoredOperators, r):
			score++
		}
	}
	return score
}
