package errors

type (
	ServiceFoundNilArgument struct {
		Msg string
	}
	ServiceIllegalCardNumber struct {
		Msg string
	}
	ServiceNotEnoughFunds struct {
		Msg string
	}
	ServiceInvalidEntry struct {
		Msg string
	}
)

func (e *ServiceFoundNilArgument) Error() string {
	return e.Msg
}

func (e *ServiceIllegalCardNumber) Error() string {
	return e.Msg
}

func (e *ServiceNotEnoughFunds) Error() string {
	return e.Msg
}

func (e *ServiceInvalidEntry) Error() string {
	return e.Msg
}
