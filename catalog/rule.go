// Copyright © 2026 The FXLINT authors

package catalog

import (
	"encoding/json"
	"fmt"
)

// Unbounded is the MaxArity of a variadic rule.
const Unbounded = -1

// Fixity describes where an operator's operands appear.
type Fixity string

const (
	Infix   Fixity = "infix"
	Prefix  Fixity = "prefix"
	Postfix Fixity = "postfix"
)

// Param describes one formal parameter of a function.
type Param struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required,omitempty"`
}

// Rule is the contract of a function or operator.  Function rules are keyed
// by Name and operator rules by Token.
type Rule struct {
	Name        string   `json:"name"`
	Token       string   `json:"token,omitempty"`
	Syntax      string   `json:"syntax,omitempty"`
	Description string   `json:"description,omitempty"`
	Parameters  []Param  `json:"parameters,omitempty"`
	Returns     string   `json:"returns,omitempty"`
	MinArity    int      `json:"minArity"`
	MaxArity    int      `json:"-"`
	Parity      string   `json:"parity,omitempty"`
	Validators  []string `json:"validators,omitempty"`
	Message     string   `json:"message,omitempty"`
	Examples    []string `json:"examples,omitempty"`
	Numeric     bool     `json:"numeric,omitempty"`
	Fixity      Fixity   `json:"fixity,omitempty"`
	Docs        string   `json:"docs,omitempty"`
}

type plainRule Rule

// UnmarshalJSON decodes a rule.  An absent maxArity means the rule is
// variadic.
func (r *Rule) UnmarshalJSON(b []byte) error {
	aux := struct {
		*plainRule
		MaxArity *int `json:"maxArity"`
	}{plainRule: (*plainRule)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.MaxArity = Unbounded
	if aux.MaxArity != nil {
		r.MaxArity = *aux.MaxArity
	}
	return nil
}

// MarshalJSON encodes a rule, omitting maxArity for variadic rules.
func (r *Rule) MarshalJSON() ([]byte, error) {
	aux := struct {
		*plainRule
		MaxArity *int `json:"maxArity,omitempty"`
	}{plainRule: (*plainRule)(r)}
	if r.MaxArity != Unbounded {
		n := r.MaxArity
		aux.MaxArity = &n
	}
	return json.Marshal(aux)
}

// Outcome is the result of validating the arguments of a call or the
// operands of an operator.
type Outcome struct {
	Valid   bool
	Message string
}

// Key returns the name the rule is registered under.
func (r *Rule) Key() string {
	if r.Token != "" {
		return r.Token
	}
	return r.Name
}

// IsOperator reports whether r describes an operator.
func (r *Rule) IsOperator() bool {
	return r.Token != ""
}

// Variadic reports whether the rule accepts an unbounded number of
// arguments.
func (r *Rule) Variadic() bool {
	return r.MaxArity == Unbounded
}

// Validate checks args, the raw text of each argument or operand, against
// the rule's arity bounds and custom validators.
func (r *Rule) Validate(args []string) Outcome {
	n := len(args)
	if n < r.MinArity || (r.MaxArity != Unbounded && n > r.MaxArity) {
		return Outcome{Message: r.arityMessage()}
	}
	switch r.Parity {
	case "odd":
		if n%2 == 0 {
			return Outcome{Message: fmt.Sprintf("%s requires an odd number of arguments.", r.Name)}
		}
	case "even":
		if n%2 != 0 {
			return Outcome{Message: fmt.Sprintf("%s requires an even number of arguments.", r.Name)}
		}
	}
	for _, name := range r.Validators {
		fn, ok := validators[name]
		if !ok {
			continue
		}
		if msg, ok := fn(r, args); !ok {
			return Outcome{Message: msg}
		}
	}
	return Outcome{Valid: true}
}

// ArityString describes the accepted argument counts, such as "2", "1-3" or
// "2+".
func (r *Rule) ArityString() string {
	switch {
	case r.MaxArity == Unbounded:
		return fmt.Sprintf("%d+", r.MinArity)
	case r.MinArity == r.MaxArity:
		return fmt.Sprintf("%d", r.MinArity)
	default:
		return fmt.Sprintf("%d-%d", r.MinArity, r.MaxArity)
	}
}

func (r *Rule) arityMessage() string {
	if r.Message != "" {
		return r.Message
	}
	noun := func(n int) string {
		word := "argument"
		if r.IsOperator() {
			word = "operand"
		}
		if n != 1 {
			word += "s"
		}
		return word
	}
	switch {
	case r.MaxArity == Unbounded:
		return fmt.Sprintf("%s requires at least %d %s.", r.Name, r.MinArity, noun(r.MinArity))
	case r.MinArity == r.MaxArity:
		return fmt.Sprintf("%s requires exactly %d %s.", r.Name, r.MinArity, noun(r.MinArity))
	default:
		return fmt.Sprintf("%s requires %d to %d %s.", r.Name, r.MinArity, r.MaxArity, noun(r.MaxArity))
	}
}

func (r *Rule) check() error {
	if r.MinArity < 0 {
		return fmt.Errorf("rule %s: negative minimum arity", r.Key())
	}
	if r.MaxArity != Unbounded && r.MaxArity < r.MinArity {
		return fmt.Errorf("rule %s: maximum arity %d below minimum %d", r.Key(), r.MaxArity, r.MinArity)
	}
	for _, name := range r.Validators {
		if _, ok := validators[name]; !ok {
			return fmt.Errorf("rule %s: unknown validator %q", r.Key(), name)
		}
	}
	return nil
}
