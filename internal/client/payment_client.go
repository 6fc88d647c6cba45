package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"
)

// HTTPPaymentProcessor talks to the payment-gateway service. Only the
// success/failure contract is known here; how the charge is executed is
// the gateway's business.
type HTTPPaymentProcessor struct {
	Address string
	client  *http.Client
}

func NewHTTPPaymentProcessor(address string) (*HTTPPaymentProcessor, error) {
	return &HTTPPaymentProcessor{
		Address: address,
		client:  http.DefaultClient,
	}, nil
}

type chargeRequest struct {
	PartyID  string `json:"party_id"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type chargeResponse struct {
	Reference string `json:"reference"`
}

type refundRequest struct {
	PartyID  string `json:"party_id"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (p *HTTPPaymentProcessor) Charge(ctx context.Context, partyID string, amount decimal.Decimal, currency string) (string, error) {
	requestBodyBytes, err := json.Marshal(chargeRequest{
		PartyID:  partyID,
		Amount:   amount.String(),
		Currency: currency,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/payments/charge", p.Address), bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	response, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return "", err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		var charge chargeResponse
		if err := json.Unmarshal(responseBodyBytes, &charge); err != nil {
			return "", err
		}
		return charge.Reference, nil
	}

	var errResp errorResponse
	if err := json.Unmarshal(responseBodyBytes, &errResp); err != nil {
		return "", err
	}
	return "", errors.New(errResp.Error)
}

func (p *HTTPPaymentProcessor) Refund(ctx context.Context, partyID string, amount decimal.Decimal, currency string) error {
	requestBodyBytes, err := json.Marshal(refundRequest{
		PartyID:  partyID,
		Amount:   amount.String(),
		Currency: currency,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/payments/refund", p.Address), bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	response, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}

	var errResp errorResponse
	if err := json.Unmarshal(responseBodyBytes, &errResp); err != nil {
		return err
	}
	return errors.New(errResp.Error)
}
