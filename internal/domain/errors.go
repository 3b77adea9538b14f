package domain

import "fmt"

// ConfigError reports invalid or missing configuration. It is fatal: a run
// aborts before any filtering when one is raised.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field %s: %s", e.Field, e.Message)
}

// ExternalCallError wraps a failed or timed-out call to an external
// collaborator. Recovered per article, never fatal to a run.
type ExternalCallError struct {
	Service string
	Err     error
}

func (e *ExternalCallError) Error() string {
	return fmt.Sprintf("%s call failed: %v", e.Service, e.Err)
}

func (e *ExternalCallError) Unwrap() error {
	return e.Err
}

// ParseError reports a collaborator response that did not match the expected
// structure. Raw keeps the offending payload for diagnostics.
type ParseError struct {
	Service string
	Raw     string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s response unparseable: %v", e.Service, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
