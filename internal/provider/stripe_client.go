package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const stripeBaseURL = "https://api.stripe.com/v1"

// StripeClient is the HTTP client behind StripeAPI. Sessions are looked
// up by the client_reference_id we set at checkout time, which carries
// our transaction reference.
type StripeClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewStripeClient(secretKey string) *StripeClient {
	return &StripeClient{
		baseURL:   stripeBaseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *StripeClient) GetSessionByReference(ctx context.Context, reference string) (StripeSession, error) {
	var out StripeSession

	q := url.Values{}
	q.Set("client_reference_id", reference)
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/checkout/sessions?"+q.Encode(), nil)
	if err != nil {
		return out, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	var body struct {
		Data []StripeSession `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return out, err
	}
	if resp.StatusCode >= 400 {
		return out, fmt.Errorf("stripe: session lookup failed (http %d)", resp.StatusCode)
	}
	if len(body.Data) == 0 {
		return out, fmt.Errorf("stripe: no session for reference %s", reference)
	}

	return body.Data[0], nil
}
