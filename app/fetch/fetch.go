package fetch

import (
	"context"
	"fmt"
	"net/http"
)

type Response struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

// Fetcher retrieves a resource by address.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// FetcherFunc adapts an ordinary function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) (*Response, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) (*Response, error) {
	return f(ctx, url)
}

// StatusError is returned for any response other than 200 OK.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// CheckStatus fails with a StatusError unless the response is 200 OK.
func CheckStatus(res *Response) error {
	if res.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: res.StatusCode}
	}
	return nil
}

// Get fetches url and returns the body of a 200 response.
func Get(ctx context.Context, f Fetcher, url string) ([]byte, error) {
	res, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := CheckStatus(res); err != nil {
		return nil, err
	}
	return res.Body, nil
}
