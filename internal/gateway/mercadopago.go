package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"appointment-booking/pkg/utils"

	"go.uber.org/zap"
)

// PreferenceRequest describes one hosted checkout to create on the provider.
type PreferenceRequest struct {
	Title             string
	Quantity          int
	UnitPrice         float64
	ExternalReference string
	NotificationURL   string
}

// PaymentInfo is the provider-side view of a payment, fetched after a webhook
// notification. Status values follow the provider ("approved", "rejected", ...).
type PaymentInfo struct {
	ID                string
	Status            string
	ExternalReference string
	PaymentMethod     string
	DateApproved      *time.Time
}

type CheckoutClient interface {
	CreatePreference(ctx context.Context, pref *PreferenceRequest) (string, error)
	GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error)
}

type mercadoPagoClient struct {
	baseURL     string
	accessToken string
	client      *http.Client
	log         *zap.Logger
}

func NewMercadoPagoClient(config utils.PaymentConfig, log *zap.Logger) CheckoutClient {
	return &mercadoPagoClient{
		baseURL:     config.BaseURL,
		accessToken: config.AccessToken,
		client: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		log: log.With(zap.String("gateway", "mercadopago")),
	}
}

// CreatePreference creates a hosted checkout and returns its init point URL.
func (c *mercadoPagoClient) CreatePreference(ctx context.Context, pref *PreferenceRequest) (string, error) {
	payload := map[string]interface{}{
		"items": []map[string]interface{}{
			{
				"title":      pref.Title,
				"quantity":   pref.Quantity,
				"unit_price": pref.UnitPrice,
			},
		},
		"external_reference": pref.ExternalReference,
	}
	if pref.NotificationURL != "" {
		payload["notification_url"] = pref.NotificationURL
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal preference payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout/preferences", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build preference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Error("Preference request failed", zap.Error(err))
		return "", fmt.Errorf("create preference: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Error("Preference request rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", raw),
		)
		return "", fmt.Errorf("create preference: provider returned %d", resp.StatusCode)
	}

	var result struct {
		InitPoint string `json:"init_point"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode preference response: %w", err)
	}
	if result.InitPoint == "" {
		return "", fmt.Errorf("create preference: empty init point")
	}

	return result.InitPoint, nil
}

func (c *mercadoPagoClient) GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/payments/"+paymentID, nil)
	if err != nil {
		return nil, fmt.Errorf("build payment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Error("Payment lookup failed",
			zap.Error(err),
			zap.String("payment_id", paymentID),
		)
		return nil, fmt.Errorf("get payment %s: %w", paymentID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Error("Payment lookup rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("payment_id", paymentID),
			zap.ByteString("body", raw),
		)
		return nil, fmt.Errorf("get payment %s: provider returned %d", paymentID, resp.StatusCode)
	}

	var result struct {
		ID                json.Number `json:"id"`
		Status            string      `json:"status"`
		ExternalReference string      `json:"external_reference"`
		PaymentMethodID   string      `json:"payment_method_id"`
		DateApproved      *time.Time  `json:"date_approved"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}

	return &PaymentInfo{
		ID:                result.ID.String(),
		Status:            result.Status,
		ExternalReference: result.ExternalReference,
		PaymentMethod:     result.PaymentMethodID,
		DateApproved:      result.DateApproved,
	}, nil
}
