package facematch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/presenza-hq/presenza-backend-go/internal/config"
)

// ErrNoMatch is returned when the face service finds no enrolled identity
// for the submitted photo.
var ErrNoMatch = errors.New("no matching face found")

// Match is a successful identification result.
type Match struct {
	EmployeeID string  `json:"employee_id"`
	Similarity float64 `json:"similarity"`
}

// Service abstracts the external face-recognition API.
type Service interface {
	// Identify submits a face photo and returns the matched employee
	// identity with a similarity score, or ErrNoMatch.
	Identify(ctx context.Context, image io.Reader, filename string) (Match, error)

	// Enroll registers a face photo under an employee identity.
	Enroll(ctx context.Context, employeeID string, image io.Reader, filename string) error
}

// Client calls the face-recognition HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// APIError represents a face service error response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("face match API error [%d]: %s", e.StatusCode, e.Message)
}

func NewClient(cfg config.FaceMatchConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Identify implements Service.
func (c *Client) Identify(ctx context.Context, image io.Reader, filename string) (Match, error) {
	body, contentType, err := buildImageForm(image, filename, nil)
	if err != nil {
		return Match{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/identify", body)
	if err != nil {
		return Match{}, fmt.Errorf("failed to build identify request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Match{}, fmt.Errorf("face match request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var match Match
		if err := json.NewDecoder(resp.Body).Decode(&match); err != nil {
			return Match{}, fmt.Errorf("failed to decode identify response: %w", err)
		}
		return match, nil
	case http.StatusNotFound:
		return Match{}, ErrNoMatch
	default:
		return Match{}, readAPIError(resp)
	}
}

// Enroll implements Service.
func (c *Client) Enroll(ctx context.Context, employeeID string, image io.Reader, filename string) error {
	fields := map[string]string{"employee_id": employeeID}
	body, contentType, err := buildImageForm(image, filename, fields)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/enroll", body)
	if err != nil {
		return fmt.Errorf("failed to build enroll request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("face enroll request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return readAPIError(resp)
	}

	return nil
}

func buildImageForm(image io.Reader, filename string, fields map[string]string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}

	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, "", fmt.Errorf("failed to copy image into form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}

func readAPIError(resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Message == "" {
		payload.Message = string(raw)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: payload.Message}
}
