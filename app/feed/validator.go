package feed

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// Run checks a candidate subscription against a snapshot of the subscribed
// URLs and returns the normalized URL. Duplicates are exact matches.
func (v *Validator) Run(raw string, subscribed []string) (string, error) {
	url := strings.TrimSpace(raw)

	if err := v.validate.Var(url, "required"); err != nil {
		return "", NewError(KindBlank, fmt.Errorf("url is required: %w", err))
	}

	if err := v.validate.Var(url, "http_url"); err != nil {
		return "", NewError(KindMalformedURL, fmt.Errorf("invalid url %q: %w", url, err))
	}

	if lo.Contains(subscribed, url) {
		return "", NewError(KindDuplicate, fmt.Errorf("already subscribed to %s", url))
	}

	return url, nil
}
