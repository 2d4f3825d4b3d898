package mocks

import (
	"context"
	"io"
	"net/http"

	"github.com/stretchr/testify/mock"
)

// HTTPClient mocks httpclient.HTTPClient. A nil first return value yields a
// nil *http.Response.
type HTTPClient struct {
	mock.Mock
}

func (m *HTTPClient) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	return responseOf(m.Called(ctx, url, headers))
}

func (m *HTTPClient) Post(ctx context.Context, url string, body io.Reader, headers map[string]string) (*http.Response, error) {
	return responseOf(m.Called(ctx, url, body, headers))
}

func (m *HTTPClient) Put(ctx context.Context, url string, body io.Reader, headers map[string]string) (*http.Response, error) {
	return responseOf(m.Called(ctx, url, body, headers))
}

func (m *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	return responseOf(m.Called(req))
}

func responseOf(args mock.Arguments) (*http.Response, error) {
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}
