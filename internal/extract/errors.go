package extract

import (
	"errors"
	"fmt"
)

// ErrNoData is returned when the API answers with an empty statistics table.
var ErrNoData = errors.New("no statistics returned")

// FetchError reports a failed extraction for one entity.
type FetchError struct {
	Stock string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Stock, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
