package wikipedia

import (
	"net/http"

	"github.com/leagravellard/Projet-GENAI/tools"
)

type Option func(*Config)

// WithLanguage selects the wikipedia edition, e.g. "fr" or "en"
func WithLanguage(lang string) Option {
	return func(c *Config) {
		c.language = lang
	}
}

// WithBaseURL overrides the wiki root, api.php is served under /w/
func WithBaseURL(baseURL string) Option {
	return func(c *Config) {
		c.baseURL = baseURL
	}
}

// WithMaxChars sets the maximum summary length in characters
func WithMaxChars(n int) Option {
	return func(c *Config) {
		c.maxChars = n
	}
}

func WithHttpClient(clt *http.Client) Option {
	return func(c *Config) {
		c.httpClient = clt
	}
}

func WithToolOptions(opts ...tools.Option) Option {
	return func(c *Config) {
		for _, opt := range opts {
			opt(&c.Config)
		}
	}
}
