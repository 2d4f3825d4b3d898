package walletgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Behyna/cinefund/pkg/httpclient"
)

const CreditEndpoint = "/user/increase/balance"

// WalletGateway credits investor wallets held by the payment service.
type WalletGateway interface {
	Credit(ctx context.Context, request CreditRequest) (CreditResponse, error)
}

type walletGateway struct {
	client httpclient.HTTPClient
	config Config
}

func NewWalletGateway(cfg Config, client httpclient.HTTPClient) WalletGateway {
	return &walletGateway{config: cfg, client: client}
}

func (w *walletGateway) Credit(ctx context.Context, request CreditRequest) (CreditResponse, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return CreditResponse{}, fmt.Errorf("encoding error: %w", err)
	}

	resp, err := w.client.Post(ctx, w.config.BaseURL+CreditEndpoint, &buf, w.headers())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return CreditResponse{}, ErrTimeout
		}

		return CreditResponse{}, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return CreditResponse{}, MapStatusToError(resp.StatusCode)
	}

	var response CreditResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return CreditResponse{}, fmt.Errorf("decoding error: %w", err)
	}

	return response, nil
}

func (w *walletGateway) headers() map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
	}

	if w.config.APIKey != "" {
		headers["X-Api-Key"] = w.config.APIKey
	}

	return headers
}
