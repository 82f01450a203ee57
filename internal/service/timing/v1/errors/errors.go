package errors

type (
	InvalidStateError struct {
		Msg string
	}
)

func (e *InvalidStateError) Error() string {
	return e.Msg
}
