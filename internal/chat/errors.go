package chat

import "github.com/pkg/errors"

var ErrUnknownConversation = errors.New("conversation does not exist")

// StoreError wraps any failure of the conversation store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return "store: " + e.Op + ": " + e.Err.Error()
	}
	return "store: " + e.Op
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
