package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)

// StatusError is a non-2xx answer other than a validation failure.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string

	kind error
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: backend returned %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.StatusCode, e.Message)
}

// ValidationError carries the backend's per-field input errors (HTTP 422).
type ValidationError struct {
	Op     string
	Fields map[string]string
	Global string
}

func (e *ValidationError) Error() string {
	var parts []string
	if e.Global != "" {
		parts = append(parts, e.Global)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s: invalid input: %s", e.Op, strings.Join(parts, "; "))
}

// Unwrap exposes ErrNotFound, ErrUnauthorized or ErrConflict when the status maps to one.
func (e *StatusError) Unwrap() error { return e.kind }

type validationDetail struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// translateError maps a failed response onto the client's error shapes.
func translateError(op string, status int, body []byte) error {
	msg, details := decodeDetail(body)

	switch status {
	case http.StatusUnprocessableEntity:
		ve := &ValidationError{Op: op, Fields: map[string]string{}, Global: msg}
		for _, d := range details {
			field := fieldFromLoc(d.Loc)
			if field == "" {
				if ve.Global == "" {
					ve.Global = d.Msg
				}
				continue
			}
			if _, ok := ve.Fields[field]; !ok {
				ve.Fields[field] = d.Msg
			}
		}
		return ve
	case http.StatusNotFound:
		return &StatusError{Op: op, StatusCode: status, Message: msg, kind: ErrNotFound}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &StatusError{Op: op, StatusCode: status, Message: msg, kind: ErrUnauthorized}
	case http.StatusConflict:
		return &StatusError{Op: op, StatusCode: status, Message: msg, kind: ErrConflict}
	}
	return &StatusError{Op: op, StatusCode: status, Message: msg}
}

// decodeDetail understands both {"detail": "text"} and {"detail": [{loc, msg}]} bodies.
func decodeDetail(body []byte) (string, []validationDetail) {
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return strings.TrimSpace(string(body)), nil
	}
	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		return s, nil
	}
	var ds []validationDetail
	if err := json.Unmarshal(env.Detail, &ds); err == nil {
		return "", ds
	}
	return strings.TrimSpace(string(env.Detail)), nil
}

// fieldFromLoc turns ["body", "order_of_tabs", "big-screen"] into "order_of_tabs.big-screen".
func fieldFromLoc(loc []any) string {
	var parts []string
	for i, p := range loc {
		s := fmt.Sprint(p)
		if i == 0 && (s == "body" || s == "query" || s == "path") {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ".")
}
