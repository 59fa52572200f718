package document

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
)

// Http is a document downloaded from a URL
type Http struct {
	client *http.Client
	link   string
	method string
}

var _ Source = (*Http)(nil)

type HttpOption func(*Http)

func WithHttpMethod(method string) HttpOption {
	return func(h *Http) {
		h.method = method
	}
}

func WithHttpClient(client *http.Client) HttpOption {
	return func(h *Http) {
		h.client = client
	}
}

func NewHttp(link string, opts ...HttpOption) *Http {
	ret := &Http{link: link}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.method == "" {
		ret.method = http.MethodGet
	}
	if ret.client == nil {
		ret.client = http.DefaultClient
	}
	return ret
}

func (h *Http) Name() string {
	return h.link
}

func (h *Http) Meta() map[string]string {
	return map[string]string{
		"filename": path.Base(h.link),
		"url":      h.link,
	}
}

func (h *Http) Open(ctx context.Context) (io.ReadCloser, error) {
	httpReq, err := http.NewRequestWithContext(ctx, h.method, h.link, nil)
	if err != nil {
		return nil, err
	}
	httpResp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	if httpResp.StatusCode != http.StatusOK {
		httpResp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", h.link, httpResp.Status)
	}
	return httpResp.Body, nil
}
