package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"orderflow/internal/config"
)

// GatewayClient is the narrow contract onto the hosted-checkout gateway:
// open a session, and independently confirm a transaction server-to-server.
// The browser redirect is never treated as proof of payment.
type GatewayClient interface {
	CreateSession(ctx context.Context, req *SessionRequest) (*SessionResponse, error)
	ValidateTransaction(ctx context.Context, validationID string) (*ValidationResult, error)
}

type SessionRequest struct {
	TransactionRef string
	Amount         string
	Currency       string

	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	ProductName     string

	SuccessURL string
	FailURL    string
	CancelURL  string
}

type SessionResponse struct {
	SessionKey  string
	RedirectURL string
}

type ValidationResult struct {
	Status         string
	TransactionRef string
	Amount         string
	Currency       string
}

// Confirmed reports whether the gateway vouches for the payment. Anything
// other than an explicit VALID/VALIDATED answer is a rejection.
func (v *ValidationResult) Confirmed() bool {
	return v.Status == "VALID" || v.Status == "VALIDATED"
}

type gatewaySessionResult struct {
	Status         string `json:"status"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
	FailedReason   string `json:"failedreason"`
}

type gatewayValidationResult struct {
	Status   string `json:"status"`
	TranID   string `json:"tran_id"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type gatewayClientImpl struct {
	httpClient    *http.Client
	baseApiURL    string
	storeID       string
	storePassword string
}

func NewGatewayClient(gatewayCfg *config.Gateway) GatewayClient {
	return &gatewayClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:    gatewayCfg.BaseApiURL,
		storeID:       gatewayCfg.StoreID,
		storePassword: gatewayCfg.StorePassword,
	}
}

func (c *gatewayClientImpl) CreateSession(ctx context.Context, sessionReq *SessionRequest) (*SessionResponse, error) {
	form := url.Values{}
	form.Set("store_id", c.storeID)
	form.Set("store_passwd", c.storePassword)
	form.Set("tran_id", sessionReq.TransactionRef)
	form.Set("total_amount", sessionReq.Amount)
	form.Set("currency", sessionReq.Currency)
	form.Set("product_name", sessionReq.ProductName)
	form.Set("cus_name", sessionReq.CustomerName)
	form.Set("cus_email", sessionReq.CustomerEmail)
	form.Set("cus_phone", sessionReq.CustomerPhone)
	form.Set("cus_add1", sessionReq.CustomerAddress)
	form.Set("shipping_method", "NO")
	form.Set("success_url", sessionReq.SuccessURL)
	form.Set("fail_url", sessionReq.FailURL)
	form.Set("cancel_url", sessionReq.CancelURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/gwprocess/v4/api.php",
		bytes.NewBufferString(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gateway error %d: %s", resp.StatusCode, string(b))
	}

	var result gatewaySessionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}

	if result.Status != "SUCCESS" {
		return nil, fmt.Errorf("gateway session rejected: %s", result.FailedReason)
	}

	return &SessionResponse{
		SessionKey:  result.SessionKey,
		RedirectURL: result.GatewayPageURL,
	}, nil
}

func (c *gatewayClientImpl) ValidateTransaction(ctx context.Context, validationID string) (*ValidationResult, error) {
	query := url.Values{}
	query.Set("val_id", validationID)
	query.Set("store_id", c.storeID)
	query.Set("store_passwd", c.storePassword)
	query.Set("format", "json")

	validateURL := fmt.Sprintf(
		"%s/validator/api/validationserverAPI.php?%s",
		c.baseApiURL,
		query.Encode(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, validateURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create validation request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway validation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf(
			"gateway validation failed: status=%d body=%s",
			resp.StatusCode,
			string(body),
		)
	}

	var result gatewayValidationResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode validation response: %w", err)
	}

	return &ValidationResult{
		Status:         result.Status,
		TransactionRef: result.TranID,
		Amount:         result.Amount,
		Currency:       result.Currency,
	}, nil
}
