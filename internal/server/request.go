package server

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/iwvelando/standings-forecast/internal/search"
	"github.com/xeipuuv/gojsonschema"
)

const (
	tossBattingFirst = "Batting First"
	tossBowlingFirst = "Bowling First"
)

//go:embed calculate_request.schema.json
var calculateRequestSchema []byte

var errSchemaViolation = errors.New("request does not match schema")

// schemaError carries the individual schema violations of a rejected body.
type schemaError struct {
	details []string
}

func (e *schemaError) Error() string { return errSchemaViolation.Error() }

func (e *schemaError) Unwrap() error { return errSchemaViolation }

func compileRequestSchema() (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(calculateRequestSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile request schema: %w", err)
	}
	return schema, nil
}

func validateBody(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if !result.Valid() {
		details := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			details[i] = desc.String()
		}
		return &schemaError{details: details}
	}
	return nil
}

// calculateRequest is the wire form of a calculation request.
type calculateRequest struct {
	Team            string `json:"team"`
	Opponent        string `json:"opponent"`
	Overs           int    `json:"overs"`
	DesiredPosition int    `json:"desiredPosition"`
	TossResult      string `json:"tossResult"`
	RunsScored      *int   `json:"runsScored,omitempty"`
	OpponentRuns    *int   `json:"opponentRuns,omitempty"`
}

// toSearch maps the toss result onto the matching outcome. Exactly one of
// runsScored and opponentRuns must be present.
func (c calculateRequest) toSearch() (search.Request, error) {
	req := search.Request{
		Team:            c.Team,
		Opponent:        c.Opponent,
		Overs:           c.Overs,
		DesiredPosition: c.DesiredPosition,
	}

	switch c.TossResult {
	case tossBattingFirst:
		if c.RunsScored == nil {
			return search.Request{}, fmt.Errorf("%w: runsScored is required when batting first", search.ErrInvalidRequest)
		}
		if c.OpponentRuns != nil {
			return search.Request{}, fmt.Errorf("%w: opponentRuns is not allowed when batting first", search.ErrInvalidRequest)
		}
		req.Outcome = search.BattingFirst{RunsScored: *c.RunsScored}
	case tossBowlingFirst:
		if c.OpponentRuns == nil {
			return search.Request{}, fmt.Errorf("%w: opponentRuns is required when bowling first", search.ErrInvalidRequest)
		}
		if c.RunsScored != nil {
			return search.Request{}, fmt.Errorf("%w: runsScored is not allowed when bowling first", search.ErrInvalidRequest)
		}
		req.Outcome = search.BowlingFirst{OpponentRuns: *c.OpponentRuns}
	default:
		return search.Request{}, fmt.Errorf("%w: unknown toss result %q", search.ErrInvalidRequest, c.TossResult)
	}

	return req, nil
}
