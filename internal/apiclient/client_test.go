package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *recordingObserver) ObserveAPICall(method, resource, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, method+" "+resource+" "+outcome)
}

func TestNewValidatesBaseURL(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	_, err = New(Options{BaseURL: "ftp://example.com"})
	assert.Error(t, err)

	c, err := New(Options{BaseURL: "http://example.com/api/"})
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/api", c.BaseURL())
}

func TestGetInjectsHeadersAndQuery(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":1}]`)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c, err := New(Options{BaseURL: srv.URL + "/api", Token: "tok", Observer: obs})
	require.NoError(t, err)

	resp, err := c.Get(context.Background(), "/events", map[string][]string{"q": {"rock & roll"}})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, `[{"id":1}]`, string(resp.Body))
	require.NotNil(t, got)
	assert.Equal(t, "/api/events", got.URL.Path)
	assert.Equal(t, "rock & roll", got.URL.Query().Get("q"))
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.NotEmpty(t, got.Header.Get("X-Request-ID"))
	assert.Equal(t, []string{"GET events ok"}, obs.calls)
}

func TestPutEncodesJSONOrMultipart(t *testing.T) {
	var contentTypes []string
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentTypes = append(contentTypes, r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Put(context.Background(), "/organizers/7", map[string]string{"name": "Ana"})
	require.NoError(t, err)

	form := NewForm().Set("name", "Ana").AddFile("avatar", "me.png", strings.NewReader("PNGDATA"))
	_, err = c.Put(context.Background(), "/organizers/7", form)
	require.NoError(t, err)

	require.Len(t, contentTypes, 2)
	assert.Equal(t, "application/json", contentTypes[0])
	assert.JSONEq(t, `{"name":"Ana"}`, bodies[0])
	assert.True(t, strings.HasPrefix(contentTypes[1], "multipart/form-data; boundary="), contentTypes[1])
	assert.Contains(t, bodies[1], "PNGDATA")
	assert.Contains(t, bodies[1], `name="avatar"; filename="me.png"`)
}

func TestNonSuccessStatusIsResponseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"not found"}`)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c, err := New(Options{BaseURL: srv.URL, Observer: obs})
	require.NoError(t, err)

	_, err = c.Delete(context.Background(), "/events/9")

	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusNotFound, respErr.Status)
	assert.JSONEq(t, `{"message":"not found"}`, string(respErr.Body))
	assert.Equal(t, "Request failed with status code 404", respErr.Error())
	assert.Equal(t, []string{"DELETE events error_response"}, obs.calls)
}

func TestUnreachableBackendIsNoResponseError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c, err := New(Options{BaseURL: addr, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/events", nil)

	var noResp *NoResponseError
	require.ErrorAs(t, err, &noResp)
	assert.Equal(t, http.MethodGet, noResp.Method)
}

func TestUnencodableBodyIsSetupError(t *testing.T) {
	c, err := New(Options{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = c.Post(context.Background(), "/events", map[string]any{"bad": make(chan int)})

	var setupErr *SetupError
	require.ErrorAs(t, err, &setupErr)

	_, err = c.Get(context.Background(), "http://elsewhere.example/events", nil)
	require.ErrorAs(t, err, &setupErr)

	_, err = c.Do(context.Background(), Request{Path: "/events"})
	require.ErrorAs(t, err, &setupErr)
}

func TestFormEncodeRejectsNamelessFile(t *testing.T) {
	form := NewForm().AddFile("", "x.png", strings.NewReader("x"))
	_, _, err := form.Encode()
	assert.Error(t, err)

	var nilForm *Form
	_, _, err = nilForm.Encode()
	assert.Error(t, err)
	assert.False(t, nilForm.HasFiles())
}

func TestResourceOf(t *testing.T) {
	assert.Equal(t, "events", resourceOf("/events/42"))
	assert.Equal(t, "organizers", resourceOf("organizers/me"))
	assert.Equal(t, "events", resourceOf("/events?q=x"))
	assert.Equal(t, "root", resourceOf("/"))
	assert.Equal(t, "setup", outcomeOf(errors.New("other")))
}
