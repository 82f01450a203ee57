package errors

type (
	InvalidTargetError struct {
		Msg string
	}
)

func (e *InvalidTargetError) Error() string {
	return e.Msg
}
