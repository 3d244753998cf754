// services/referral_policy.go
package services

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/rajavruksha/ftii_backend/repositories"
)

// ReferralPolicy decides whether a referrer may be credited with one
// more referral. Implementations may cap, score or ignore referrals.
type ReferralPolicy interface {
	// Allow returns nil when the referrer identified by the 6-digit
	// public id may take another referral
	Allow(ctx context.Context, referrerUserID string) error
}

// cappedReferralPolicy enforces a fixed per-member referral cap. A cap
// of zero disables the check.
type cappedReferralPolicy struct {
	members *repositories.MemberRepository
	cap     int64
}

// NewReferralPolicy reads MAX_REFERRALS_PER_MEMBER and returns the
// configured policy. Unset or zero means unlimited referrals.
func NewReferralPolicy(members *repositories.MemberRepository) ReferralPolicy {
	capValue := int64(0)
	if s := os.Getenv("MAX_REFERRALS_PER_MEMBER"); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
			capValue = n
		}
	}
	return &cappedReferralPolicy{members: members, cap: capValue}
}

func (p *cappedReferralPolicy) Allow(ctx context.Context, referrerUserID string) error {
	if p.cap <= 0 {
		return nil
	}

	count, err := p.members.CountReferrals(ctx, referrerUserID)
	if err != nil {
		return err
	}
	if count >= p.cap {
		return fmt.Errorf("referrer %s has reached the referral limit of %d", referrerUserID, p.cap)
	}
	return nil
}
