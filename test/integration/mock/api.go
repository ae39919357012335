package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

type mockResponse struct {
	status int
	body   any
}

// ApiMock is an HTTP server that records requests and replays configured responses.
// Paths may contain "*" segments.
type ApiMock struct {
	mu               sync.Mutex
	requestsReceived map[string][]map[string]any
	headersReceived  map[string][]map[string]string
	responses        map[string]map[int]mockResponse
	defaultResponses map[string]mockResponse
	server           *httptest.Server
}

func NewApiServer() *ApiMock {
	return &ApiMock{
		requestsReceived: map[string][]map[string]any{},
		headersReceived:  map[string][]map[string]string{},
		responses:        map[string]map[int]mockResponse{},
		defaultResponses: map[string]mockResponse{},
	}
}

func (a *ApiMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.handle))
}

func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

func (a *ApiMock) GetUrl() string {
	if a.server == nil {
		return ""
	}
	return a.server.URL
}

func (a *ApiMock) handle(w http.ResponseWriter, r *http.Request) {
	key := r.Method + r.URL.Path

	body, _ := io.ReadAll(r.Body)
	var request map[string]any
	_ = json.Unmarshal(body, &request)
	if request == nil {
		request = map[string]any{}
	}

	headers := map[string]string{}
	for name, values := range r.Header {
		headers[name] = values[0]
	}

	a.mu.Lock()
	index := len(a.requestsReceived[key])
	a.requestsReceived[key] = append(a.requestsReceived[key], request)
	a.headersReceived[key] = append(a.headersReceived[key], headers)
	resp := a.responseFor(r.Method, r.URL.Path, index)
	a.mu.Unlock()

	payload, _ := json.Marshal(resp.body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_, _ = w.Write(payload)
}

// SetResponse configures the response for the index-th call. An index of -1 sets the default.
func (a *ApiMock) SetResponse(index int, method, path string, status int, response map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := method + path
	if index == -1 {
		a.defaultResponses[key] = mockResponse{status: status, body: response}
		return
	}
	if a.responses[key] == nil {
		a.responses[key] = map[int]mockResponse{}
	}
	a.responses[key][index] = mockResponse{status: status, body: response}
}

// ClearResponses drops recorded requests and configured responses for the path prefix.
func (a *ApiMock) ClearResponses(method, path string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	prefix := method + path
	for key := range a.requestsReceived {
		if strings.HasPrefix(key, prefix) {
			delete(a.requestsReceived, key)
			delete(a.headersReceived, key)
		}
	}
	for key := range a.responses {
		if strings.HasPrefix(key, prefix) {
			delete(a.responses, key)
		}
	}
	for key := range a.defaultResponses {
		if strings.HasPrefix(key, prefix) {
			delete(a.defaultResponses, key)
		}
	}
}

// RequestCount returns how many calls the path received.
func (a *ApiMock) RequestCount(method, path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requestsReceived[method+path])
}

func (a *ApiMock) GetRequestBody(method, path string, index int) map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()

	requests := a.requestsReceived[method+path]
	if index < 0 || index >= len(requests) {
		return nil
	}
	return requests[index]
}

func (a *ApiMock) GetRequestHeaders(method, path string, index int) map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()

	headers := a.headersReceived[method+path]
	if index < 0 || index >= len(headers) {
		return nil
	}
	return headers[index]
}

// responseFor resolves the response for a call. Callers hold the lock.
func (a *ApiMock) responseFor(method, path string, index int) mockResponse {
	for key, byIndex := range a.responses {
		if a.matchKey(key, method, path) {
			if resp, ok := byIndex[index]; ok && resp.status != 0 {
				return resp
			}
		}
	}
	for key, resp := range a.defaultResponses {
		if a.matchKey(key, method, path) && resp.status != 0 {
			return resp
		}
	}
	return mockResponse{status: http.StatusOK, body: map[string]any{}}
}

func (a *ApiMock) matchKey(key, method, path string) bool {
	if !strings.HasPrefix(key, method) {
		return false
	}
	return matchPath(strings.TrimPrefix(key, method), path)
}

func matchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}

	patternParts := strings.Split(pattern, "/")
	pathParts := strings.Split(path, "/")
	if len(patternParts) != len(pathParts) {
		return false
	}

	for i := range patternParts {
		if patternParts[i] != "*" && patternParts[i] != pathParts[i] {
			return false
		}
	}
	return true
}
