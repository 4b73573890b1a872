package client

import (
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/zfogg/otakulist/pkg/config"
	"github.com/zfogg/otakulist/pkg/logger"
)

// UserAgent is sent with every request
const UserAgent = "otakulist/0.2.0"

var (
	mu         sync.RWMutex
	httpClient *resty.Client
)

func newClient() *resty.Client {
	c := resty.New()

	timeout := time.Duration(config.GetInt("api.timeout")) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c.SetBaseURL(config.GetString("api.base_url"))
	c.SetTimeout(timeout)
	c.SetHeader("User-Agent", UserAgent)
	c.SetHeader("Accept", "application/json")

	c.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logger.Debug("HTTP Request", "method", req.Method, "url", req.URL)
		return nil
	})

	c.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logger.Debug("HTTP Response", "status", resp.StatusCode(), "elapsed", resp.Time())
		return nil
	})

	if token := config.GetString("auth.token"); token != "" {
		c.SetAuthToken(token)
	}

	return c
}

// Init (re)creates the HTTP client from the current configuration
func Init() {
	c := newClient()
	mu.Lock()
	httpClient = c
	mu.Unlock()
}

// GetClient returns the HTTP client. It is safe for concurrent use.
func GetClient() *resty.Client {
	mu.RLock()
	c := httpClient
	mu.RUnlock()
	if c != nil {
		return c
	}

	mu.Lock()
	defer mu.Unlock()
	if httpClient == nil {
		httpClient = newClient()
	}
	return httpClient
}

// SetAuthToken sets the bearer token issued by the auth provider
func SetAuthToken(token string) {
	GetClient().SetAuthToken(token)
}

// ClearAuthToken drops the bearer token
func ClearAuthToken() {
	// resty has no unset for the token, rebuild without it
	config.Set("auth.token", "")
	Init()
}
