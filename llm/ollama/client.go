package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aschepis/backscratcher/blocks/llm"
	"github.com/ollama/ollama/api"
	"github.com/rs/zerolog"
)

const (
	generatePath = "/api/generate"
	createPath   = "/api/create"

	unknownStatus = "unknown status"
)

var _ llm.Client = (*Client)(nil)

// Client makes single-attempt calls to an Ollama endpoint.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  zerolog.Logger
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type createRequest struct {
	Name      string `json:"name"`
	Modelfile string `json:"modelfile"`
}

// createProgress is one object of the (possibly streamed) /api/create answer.
type createProgress struct {
	api.ProgressResponse
	Error string `json:"error,omitempty"`
}

// NewClient creates a new Client for host. A zero timeout means no timeout.
func NewClient(host string, timeout time.Duration, logger zerolog.Logger) (*Client, error) {
	if host == "" {
		return nil, fmt.Errorf("host is required")
	}
	baseURL, err := parseHost(host)
	if err != nil {
		return nil, fmt.Errorf("invalid host: %w", err)
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "ollamaClient").Str("host", baseURL.String()).Logger(),
	}, nil
}

// parseHost parses a host string into a URL.
func parseHost(host string) (*url.URL, error) {
	// If host doesn't have a scheme, add http://
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return url.Parse(strings.TrimRight(host, "/"))
}

// Generate implements llm.Generator.
func (c *Client) Generate(ctx context.Context, prompt, model string) (string, error) {
	c.logger.Debug().Str("model", model).Int("promptLength", len(prompt)).Msg("Calling generate")

	body, err := c.post(ctx, generatePath, generateRequest{Model: model, Prompt: prompt, Stream: false})
	if err != nil {
		c.logger.Error().Err(err).Str("model", model).Msg("Error calling Ollama LLM")
		return "", err
	}

	var resp api.GenerateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		err = llm.NewTransportError("failed to decode generate response", 0, "", err)
		c.logger.Error().Err(err).Str("model", model).Msg("Error calling Ollama LLM")
		return "", err
	}
	if !resp.Done {
		err := llm.NewIncompleteGenerationError()
		c.logger.Error().Err(err).Str("model", model).Msg("Error calling Ollama LLM")
		return "", err
	}
	return resp.Response, nil
}

// CreateModel implements llm.ModelCreator.
func (c *Client) CreateModel(ctx context.Context, name, modelfile string) (string, error) {
	c.logger.Debug().Str("name", name).Msg("Creating model")

	status, err := c.createModel(ctx, name, modelfile)
	if err != nil {
		err = llm.NewModelCreationError(err)
		c.logger.Error().Err(err).Str("name", name).Msg("Error creating Ollama model")
		return "", err
	}
	c.logger.Info().Str("name", name).Str("status", status).Msg("Model created")
	return status, nil
}

func (c *Client) createModel(ctx context.Context, name, modelfile string) (string, error) {
	body, err := c.post(ctx, createPath, createRequest{Name: name, Modelfile: modelfile})
	if err != nil {
		return "", err
	}

	// The endpoint streams one progress object per line unless told otherwise.
	dec := json.NewDecoder(bytes.NewReader(body))
	status := ""
	for i := 0; ; i++ {
		var progress createProgress
		err := dec.Decode(&progress)
		if errors.Is(err, io.EOF) {
			if i == 0 {
				return "", llm.NewTransportError("empty create response", 0, "", io.ErrUnexpectedEOF)
			}
			break
		}
		if err != nil {
			return "", llm.NewTransportError("failed to decode create response", 0, "", err)
		}
		if progress.Error != "" {
			return "", llm.NewTransportError("endpoint reported an error", 0, string(body), errors.New(progress.Error))
		}
		if progress.Status != "" {
			status = progress.Status
		}
	}

	if status == "" {
		return unknownStatus, nil
	}
	return status, nil
}

// post sends payload as JSON and returns the body of a 2xx answer.
func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, llm.NewTransportError("failed to marshal request", 0, "", err)
	}

	endpoint := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(data))
	if err != nil {
		return nil, llm.NewTransportError("failed to create request", 0, "", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, llm.NewTransportError("failed to send request", 0, "", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Nothing to do about close errors on a drained body

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, llm.NewTransportError("failed to read response", resp.StatusCode, "", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := api.StatusError{
			StatusCode:   resp.StatusCode,
			Status:       resp.Status,
			ErrorMessage: strings.TrimSpace(string(body)),
		}
		return nil, llm.NewTransportError("unexpected status", resp.StatusCode, string(body), statusErr)
	}
	return body, nil
}
