// internal/voice/client.go
package voice

import (
    "bytes"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "time"

    appErrors "github.com/unclebandit/voiceleopard-backend/internal/errors"
)

// Client places outbound calls with the voice provider.
type Client interface {
    CreateCall(req *CreateCallRequest) (*CreateCallResponse, error)
}

// CreateCallRequest is the provider's create-call payload.
type CreateCallRequest struct {
    AssistantID   string   `json:"assistantId"`
    PhoneNumberID string   `json:"phoneNumberId"`
    Customer      Customer `json:"customer"`
}

type Customer struct {
    Number string `json:"number"`
}

type CreateCallResponse struct {
    ID string `json:"id"`
}

// HTTPClient talks to the real provider API.
type HTTPClient struct {
    BaseURL string
    APIKey  string
    HTTP    *http.Client
}

func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
    return &HTTPClient{
        BaseURL: baseURL,
        APIKey:  apiKey,
        // Bounded so a slow provider can never block the scheduler for long.
        HTTP: &http.Client{Timeout: 10 * time.Second},
    }
}

func (c *HTTPClient) CreateCall(req *CreateCallRequest) (*CreateCallResponse, error) {
    body, err := json.Marshal(req)
    if err != nil {
        return nil, appErrors.NewDispatch("encode request", false, err)
    }

    httpReq, err := http.NewRequest(http.MethodPost, c.BaseURL+"/call", bytes.NewReader(body))
    if err != nil {
        return nil, appErrors.NewDispatch("build request", false, err)
    }
    httpReq.Header.Set("Content-Type", "application/json")
    if c.APIKey != "" {
        httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
    }

    resp, err := c.HTTP.Do(httpReq)
    if err != nil {
        // Network failures and timeouts are worth one more attempt.
        return nil, appErrors.NewDispatch("network", true, err)
    }
    defer resp.Body.Close()

    if resp.StatusCode >= 400 {
        data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
        reason := fmt.Sprintf("provider returned %d: %s", resp.StatusCode, string(data))
        retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
        return nil, appErrors.NewDispatch(reason, retryable, nil)
    }

    var out CreateCallResponse
    if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
        return nil, appErrors.NewDispatch("decode response", false, err)
    }
    if out.ID == "" {
        return nil, appErrors.NewDispatch("provider returned empty call id", false, nil)
    }
    return &out, nil
}

var _ Client = (*HTTPClient)(nil)
