package models

// FieldError is a single per-field validation failure.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

// ValidationErrors is the 400 body for failed input validation.
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

// MessageResponse is the `{msg: ...}` body used by several endpoints.
type MessageResponse struct {
	Msg string `json:"msg"`
}
