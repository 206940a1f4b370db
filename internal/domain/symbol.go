package domain

import (
	"fmt"
	"strings"
)

// Symbol is an equity ticker. It is passed verbatim to the upstream API;
// no case or exchange-suffix normalization is applied.
type Symbol struct {
	value string
}

func NewSymbol(s string) (Symbol, error) {
	if strings.TrimSpace(s) == "" {
		return Symbol{}, fmt.Errorf("%w: símbolo vazio", ErrInvalidSymbol)
	}
	return Symbol{value: s}, nil
}

func (s Symbol) String() string {
	return s.value
}

func (s Symbol) IsZero() bool {
	return s.value == ""
}
