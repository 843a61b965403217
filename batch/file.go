package batch

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/s0up4200/sellsyctl/sellsy"
)

// File is a batch definition as stored on disk
type File struct {
	Concurrency int    `yaml:"concurrency" validate:"gte=0,lte=32"`
	Calls       []Call `yaml:"calls" validate:"required,min=1,dive"`
}

// Call is one named API call of a batch
type Call struct {
	Name   string `yaml:"name"`
	Method string `yaml:"method" validate:"required"`
	Params any    `yaml:"params"`
}

// Label returns the call name, falling back to the method
func (c Call) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Method
}

// Settings converts the call into request settings
func (c Call) Settings() sellsy.RequestSettings {
	return sellsy.RequestSettings{Method: c.Method, Params: c.Params}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads and validates a batch file
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML batch definition
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}

	if err := validate.Struct(&f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
		return nil, fmt.Errorf("invalid batch file: %s", strings.Join(msgs, "; "))
	}

	for i, call := range f.Calls {
		if _, _, err := sellsy.SplitMethod(call.Method); err != nil {
			return nil, fmt.Errorf("invalid batch file: calls[%d]: %w", i, err)
		}
	}

	return &f, nil
}
