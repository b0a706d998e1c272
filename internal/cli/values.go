package cli

import (
	"path/filepath"
	"strings"
)

// ListValue is a repeatable flag whose values may also be joined with the
// OS list separator (':' on unix), like PATH.
type ListValue struct{ Dst *[]string }

func (l ListValue) String() string {
	if l.Dst == nil {
		return ""
	}
	return strings.Join(*l.Dst, string(filepath.ListSeparator))
}

func (l ListValue) Set(v string) error {
	for _, p := range filepath.SplitList(v) {
		if p = strings.TrimSpace(p); p != "" {
			*l.Dst = append(*l.Dst, p)
		}
	}
	return nil
}

// ChoiceValue is a string flag restricted to a fixed set of values.
type ChoiceValue struct {
	Dst     *string
	Choices []string
}

func (c ChoiceValue) String() string {
	if c.Dst == nil {
		return ""
	}
	return *c.Dst
}

func (c ChoiceValue) Set(v string) error {
	for _, ok := range c.Choices {
		if v == ok {
			*c.Dst = v
			return nil
		}
	}
	return Configf("invalid value %q (want %s)", v, strings.Join(c.Choices, " | "))
}
