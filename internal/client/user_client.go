package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pashubazaar/settlement-service/internal/domain"
)

// HTTPBidderDirectory resolves bidder eligibility against the user
// service. Verification status is live data: the same bidder can pass at
// admission and fail re-validation mid-cascade.
type HTTPBidderDirectory struct {
	Address string
	client  *http.Client
}

func NewHTTPBidderDirectory(address string) (*HTTPBidderDirectory, error) {
	return &HTTPBidderDirectory{
		Address: address,
		client:  http.DefaultClient,
	}, nil
}

type bidderStatusResponse struct {
	BidderID string `json:"bidder_id"`
	Verified bool   `json:"verified"`
	Active   bool   `json:"active"`
}

func (d *HTTPBidderDirectory) IsEligible(ctx context.Context, bidderID string, filter domain.EligibilityFilter) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/users/%s/status", d.Address, bidderID), nil)
	if err != nil {
		return false, err
	}

	response, err := d.client.Do(req)
	if err != nil {
		return false, err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return false, err
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		var errResp errorResponse
		if err := json.Unmarshal(responseBodyBytes, &errResp); err != nil {
			return false, err
		}
		return false, errors.New(errResp.Error)
	}

	var status bidderStatusResponse
	if err := json.Unmarshal(responseBodyBytes, &status); err != nil {
		return false, err
	}

	if !status.Active {
		return false, nil
	}
	if filter == domain.EligibilityVerifiedOnly {
		return status.Verified, nil
	}
	return true, nil
}
