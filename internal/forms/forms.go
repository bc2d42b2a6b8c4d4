// Package forms describes the product and order forms once and derives
// defaults, validation, rendering and edit prefill from that description.
package forms

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/safar/artprint/internal/errs"
	"github.com/shopspring/decimal"
)

type Kind int

const (
	KindText Kind = iota
	KindDecimal
	KindInteger
	KindURL
)

type Field struct {
	Name        string
	Label       string
	Kind        Kind
	Required    bool
	Default     string
	Placeholder string
	// Min applies to numeric fields when HasMin is set.
	Min    int64
	HasMin bool
}

func (f Field) check(raw string) error {
	value := strings.TrimSpace(raw)
	if value == "" {
		if f.Required {
			return errs.Validation(fmt.Sprintf("%s is required", f.Label))
		}
		return nil
	}

	switch f.Kind {
	case KindDecimal:
		d, err := decimal.NewFromString(value)
		if err != nil {
			return errs.Validation(fmt.Sprintf("%s must be a number", f.Label))
		}
		if f.HasMin && d.LessThan(decimal.NewFromInt(f.Min)) {
			return errs.Validation(fmt.Sprintf("%s must be at least %d", f.Label, f.Min))
		}
	case KindInteger:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return errs.Validation(fmt.Sprintf("%s must be a whole number", f.Label))
		}
		if f.HasMin && n < f.Min {
			return errs.Validation(fmt.Sprintf("%s must be at least %d", f.Label, f.Min))
		}
	case KindURL:
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errs.Validation(fmt.Sprintf("%s must be a valid URL", f.Label))
		}
	}
	return nil
}

// Values holds raw form input keyed by field name.
type Values map[string]string

func (v Values) Get(name string) string {
	return strings.TrimSpace(v[name])
}

type Schema struct {
	Title  string
	Fields []Field
}

func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Defaults returns a fresh form filled with every field's default.
func (s Schema) Defaults() Values {
	v := Values{}
	for _, f := range s.Fields {
		v[f.Name] = f.Default
	}
	return v
}

// Merge overlays input on top of base. Names the schema does not know are a
// validation error.
func (s Schema) Merge(base, input Values) (Values, error) {
	out := Values{}
	for k, val := range base {
		out[k] = val
	}
	for k, val := range input {
		if _, ok := s.Field(k); !ok {
			return nil, errs.Validation(fmt.Sprintf("unknown field %q", k))
		}
		out[k] = val
	}
	return out, nil
}

// Validate checks fields in declaration order and reports the first problem.
func (s Schema) Validate(v Values) error {
	for _, f := range s.Fields {
		if err := f.check(v[f.Name]); err != nil {
			return err
		}
	}
	return nil
}

func (s Schema) Render(w io.Writer, v Values) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n", s.Title)
	for _, f := range s.Fields {
		marker := ""
		if f.Required {
			marker = "*"
		}
		value := v[f.Name]
		if value == "" && f.Placeholder != "" {
			value = "(" + f.Placeholder + ")"
		}
		fmt.Fprintf(tw, "  %s%s\t%s\t%s\n", f.Label, marker, f.Name, value)
	}
	return tw.Flush()
}
