// Package remote wraps the REST calls to the CCP microservices. Each call
// is single-shot: nothing is retried here.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Error is a failed remote call. Status is 0 when no response arrived.
type Error struct {
	Service string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: status %d", e.Service, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

type client struct {
	service string
	base    string
	timeout time.Duration
	http    *fiber.Client
}

func newClient(service, base string, timeout time.Duration) client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return client{
		service: service,
		base:    strings.TrimRight(base, "/"),
		timeout: timeout,
		http:    &fiber.Client{JSONEncoder: json.Marshal, JSONDecoder: json.Unmarshal},
	}
}

func (c client) url(path string) string { return c.base + path }

// timeoutFor clamps the configured timeout to the context deadline.
func (c client) timeoutFor(ctx context.Context) time.Duration {
	d := c.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < d {
			d = left
		}
	}
	return d
}

func (c client) get(ctx context.Context, path, query string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a := c.http.Get(c.url(path))
	if query != "" {
		a.QueryString(query)
	}
	return c.send(ctx, a, out)
}

func (c client) post(ctx context.Context, path string, body any, headers map[string]string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a := c.http.Post(c.url(path)).JSON(body)
	for k, v := range headers {
		a.Set(k, v)
	}
	return c.send(ctx, a, out)
}

func (c client) send(ctx context.Context, a *fiber.Agent, out any) error {
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	a.Timeout(c.timeoutFor(ctx))
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		return &Error{Service: c.service, Err: errs[0]}
	}
	if code < 200 || code > 299 {
		return &Error{Service: c.service, Status: code, Message: serverMessage(code, body)}
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Service: c.service, Status: code, Err: fmt.Errorf("decode %s response: %w", c.service, err)}
	}
	return nil
}

// serverMessage pulls the human text the services put in error bodies.
func serverMessage(code int, body []byte) string {
	var m map[string]any
	if json.Unmarshal(body, &m) == nil {
		for _, k := range []string{"msg", "error", "detail", "message", "mensaje"} {
			if s, ok := m[k].(string); ok && s != "" {
				return s
			}
		}
	}
	if s := strings.TrimSpace(string(body)); s != "" && len(s) < 200 && !strings.HasPrefix(s, "<") {
		return s
	}
	return http.StatusText(code)
}

// flexID accepts ids sent as JSON strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be string or number: %s", b)
	}
	*f = flexID(n.String())
	return nil
}
