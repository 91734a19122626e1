package domain

import "errors"

var (
	// ErrMailSendNotFound means no ledger row matches the requested email id.
	ErrMailSendNotFound = errors.New("mail send not found")
	// ErrTemplateNotFound means the tenant has no template with that id.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrTemplateExists means a create collided with an existing template id.
	ErrTemplateExists = errors.New("template id already exists")
	// ErrVendorSendFailed wraps any transport or vendor-side dispatch failure.
	ErrVendorSendFailed = errors.New("vendor send failed")
)

// ValidationError reports missing or malformed caller input on the send path.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError with the given message.
func Validation(msg string) error { return ValidationError{Msg: msg} }
