package openai

import (
	"net/http"
	"net/url"
	"time"

	"github.com/sashabaranov/go-openai"
)

type Client struct {
	client *openai.Client
	model  string
}

func NewClient(baseUrl, apiKey, model, proxyAddr string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseUrl != "" {
		cfg.BaseURL = baseUrl
	}

	transport := &http.Transport{}
	if proxyAddr != "" {
		if proxyURL, err := url.Parse(proxyAddr); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}
	cfg.HTTPClient = &http.Client{
		Transport: transport,
		// Long media takes a while to transcribe.
		Timeout: 10 * time.Minute,
	}

	if model == "" {
		model = openai.Whisper1
	}

	client := openai.NewClientWithConfig(cfg)
	return &Client{client: client, model: model}
}
