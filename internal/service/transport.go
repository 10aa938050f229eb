package service

import (
	"io"
	"net/http"
)

// bodyReadError is a failure while a provider response body was still coming
// off the wire, as opposed to decoding a body that arrived whole.
type bodyReadError struct {
	err error
}

func (e *bodyReadError) Error() string {
	return e.err.Error()
}

func (e *bodyReadError) Unwrap() error {
	return e.err
}

// bodyTrackingTransport marks response body read failures so classification
// can tell a dropped connection from a malformed payload.
type bodyTrackingTransport struct {
	base http.RoundTripper
}

func (t bodyTrackingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	res.Body = trackedBody{ReadCloser: res.Body}
	return res, nil
}

type trackedBody struct {
	io.ReadCloser
}

func (b trackedBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err != nil && err != io.EOF {
		err = &bodyReadError{err: err}
	}
	return n, err
}
