package domain

import "context"

// BidderDirectory answers eligibility questions against the live user
// directory. Consulted at admission and re-consulted before every backup
// offer, since verification status can change mid-cascade.
type BidderDirectory interface {
	IsEligible(ctx context.Context, bidderID string, filter EligibilityFilter) (bool, error)
}
