package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reqpipe/reqpipe/pipeline"
)

// Suite is a YAML-defined sequence of requests with per-request
// checks on status, content type, JSON schema, and extracted values.
type Suite struct {
	Name     string         `yaml:"name"`
	Requests []SuiteRequest `yaml:"requests"`
}

// SuiteRequest is one request in a suite.
type SuiteRequest struct {
	Name        string            `yaml:"name"`
	Method      string            `yaml:"method"`
	URL         string            `yaml:"url"`
	Headers     map[string]string `yaml:"headers"`
	Body        string            `yaml:"body"`
	ContentType string            `yaml:"contentType"`
	Expect      []string          `yaml:"expect"`
	Status      int               `yaml:"status"`
	Schema      string            `yaml:"schema"`
	Extract     string            `yaml:"extract"`
	Equals      string            `yaml:"equals"`
	Optional    bool              `yaml:"optional"`
}

// LoadSuite reads and checks a suite file.
func LoadSuite(path string) (*Suite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite file: %w", err)
	}

	return ParseSuite(raw)
}

// ParseSuite decodes suite YAML and checks it for the fields the
// runner cannot do without.
func ParseSuite(raw []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parsing suite: %w", err)
	}

	if len(s.Requests) == 0 {
		return nil, fmt.Errorf("suite has no requests")
	}
	for i, r := range s.Requests {
		if r.Method == "" {
			return nil, fmt.Errorf("request %d (%s): method is required", i, r.Name)
		}
		if r.URL == "" {
			return nil, fmt.Errorf("request %d (%s): url is required", i, r.Name)
		}
		if r.Equals != "" && r.Extract == "" {
			return nil, fmt.Errorf("request %d (%s): equals needs extract", i, r.Name)
		}
	}

	return &s, nil
}

// descriptor converts the suite request into a pipeline descriptor.
func (r SuiteRequest) descriptor(timeout time.Duration) (*pipeline.Descriptor, error) {
	opts := []pipeline.DescriptorOption{pipeline.WithTimeout(timeout)}

	for name, value := range r.Headers {
		opts = append(opts, pipeline.WithHeader(name, value))
	}
	if len(r.Expect) > 0 {
		opts = append(opts, pipeline.WithExpect(r.Expect...))
	}
	if r.Body != "" {
		ct := r.ContentType
		if ct == "" {
			ct = "application/json"
		}
		opts = append(opts, pipeline.WithBody(ct, []byte(r.Body)))
	}

	return pipeline.NewDescriptor(r.Method, r.URL, opts...)
}

// run executes the request through the pipeline and applies its
// checks. It reports pass/fail and a human-readable detail on failure.
func (r SuiteRequest) run(ctx context.Context, client *pipeline.Client) (bool, string) {
	desc, err := r.descriptor(flagTimeout)
	if err != nil {
		return false, err.Error()
	}

	switch {
	case r.Extract != "":
		stage := pipeline.Extract(r.Extract)
		if r.Optional {
			stage = pipeline.Optional(stage)
		}

		res, err := pipeline.Await(ctx, client, desc, stage)
		if err != nil {
			return false, err.Error()
		}

		v, resp, ok := res.Succeeded()
		if !ok {
			return false, resultError(res)
		}
		if detail, ok := r.checkStatus(resp); !ok {
			return false, detail
		}
		if r.Equals != "" && v != r.Equals {
			return false, fmt.Sprintf("extracted %q, want %q", v, r.Equals)
		}
		return true, ""

	case r.Schema != "":
		schema, err := pipeline.CompileSchema(r.Schema)
		if err != nil {
			return false, err.Error()
		}

		stage := pipeline.ValidateSchema(schema)
		if r.Optional {
			stage = pipeline.Optional(stage)
		}

		res, err := pipeline.Await(ctx, client, desc, stage)
		if err != nil {
			return false, err.Error()
		}

		_, resp, ok := res.Succeeded()
		if !ok {
			return false, resultError(res)
		}
		if detail, ok := r.checkStatus(resp); !ok {
			return false, detail
		}
		return true, ""

	default:
		stage := pipeline.Bytes()
		if r.Optional {
			stage = pipeline.Optional(stage)
		}

		res, err := pipeline.Await(ctx, client, desc, stage)
		if err != nil {
			return false, err.Error()
		}

		_, resp, ok := res.Succeeded()
		if !ok {
			return false, resultError(res)
		}
		if detail, ok := r.checkStatus(resp); !ok {
			return false, detail
		}
		return true, ""
	}
}

func (r SuiteRequest) checkStatus(resp *pipeline.Response) (string, bool) {
	if r.Status != 0 && resp.StatusCode != r.Status {
		return fmt.Sprintf("status %d, want %d", resp.StatusCode, r.Status), false
	}

	return "", true
}

func resultError[T any](res pipeline.Result[T]) string {
	if err, _, ok := res.Failed(); ok {
		return err.Error()
	}
	if res.IsCanceled() {
		return "canceled"
	}

	return "unknown outcome"
}
