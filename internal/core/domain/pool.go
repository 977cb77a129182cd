package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultContributionBps = 1000
	DefaultFounderBonusBps = 500
	MaxBps                 = 10_000

	DefaultPoolName = "New Pool"
	fallbackSlug    = "pool"
)

// Pool is a named group sharing rewards under a founder-bonus-plus-equal-split policy.
//
// ContributionBps is carried for display only; distributions never read it.
type Pool struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	FounderUserID       string          `json:"founderUserId"`
	ContributionBps     int             `json:"contributionBps"`
	FounderBonusBps     int             `json:"founderBonusBps"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
	TotalPooledLifetime decimal.Decimal `json:"totalPooledLifetime"`
	LastDistributionAt  *time.Time      `json:"lastDistributionAt,omitempty"`
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases name and collapses every run of non-alphanumerics into a dash.
func Slug(name string) string {
	s := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return fallbackSlug
	}
	return s
}

// PoolName returns the trimmed name, or DefaultPoolName when nothing is left.
func PoolName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultPoolName
	}
	return name
}

func ValidBonusRate(bps int) bool {
	return bps >= 0 && bps <= MaxBps
}
