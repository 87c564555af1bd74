package main

type exitError struct {
	code    int
	message string
	silent  bool
}

func (e exitError) Error() string {
	return e.message
}

// exitSilent exits with code once the error has already been rendered.
func exitSilent(code int) error {
	return exitError{code: code, silent: true}
}
