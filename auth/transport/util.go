package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

func clone(ctx context.Context, r *http.Request) (*http.Request, error) {
	cloned := r.Clone(ctx)
	if r.Body == nil || r.Body == http.NoBody {
		return cloned, nil
	}
	if r.GetBody != nil {
		body, err := r.GetBody()
		if err != nil {
			return nil, err
		}
		cloned.Body = body
		return cloned, nil
	}
	// only the clone gets the buffered body; it can be cloned again for the retry
	buf, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	_ = r.Body.Close()
	cloned.Body = io.NopCloser(bytes.NewReader(buf))
	cloned.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(buf)), nil
	}
	return cloned, nil
}

// detach buffers the response body so it stays readable after the connection is released
func detach(resp *http.Response) *http.Response {
	if resp.Body == nil {
		return resp
	}
	buf, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(buf))
	return resp
}

func bearer(token string) string {
	return "Bearer " + token
}
