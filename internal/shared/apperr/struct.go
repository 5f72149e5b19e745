package apperr

type Kind string

type AppError struct {
	Kind      Kind
	PublicMsg string // safe to show to the caller
	Err       error  // internal error (for logs)
}
