package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const DefaultDisplayName = "Member"

// Identity is what the auth provider tells us about a user. It is used verbatim.
type Identity struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	WalletAddress string `json:"walletAddress,omitempty"`
}

func (i Identity) Validate() error {
	if strings.TrimSpace(i.UserID) == "" {
		return ErrInvalidIdentity
	}
	return nil
}

// DisplayNameFor picks the provider name, then the email local part, then DefaultDisplayName.
func DisplayNameFor(name, email string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	if local, _, _ := strings.Cut(email, "@"); strings.TrimSpace(local) != "" {
		return strings.TrimSpace(local)
	}
	return DefaultDisplayName
}

type Member struct {
	UserID           string          `json:"userId"`
	DisplayName      string          `json:"displayName"`
	WalletAddress    string          `json:"walletAddress,omitempty"`
	JoinedAt         time.Time       `json:"joinedAt"`
	IsFounder        bool            `json:"isFounder"`
	LifetimeReceived decimal.Decimal `json:"lifetimeReceived"`
}

func NewMember(id Identity, joinedAt time.Time, founder bool) Member {
	return Member{
		UserID:           id.UserID,
		DisplayName:      id.DisplayName,
		WalletAddress:    id.WalletAddress,
		JoinedAt:         joinedAt,
		IsFounder:        founder,
		LifetimeReceived: ZeroAmount,
	}
}

// FounderIndex resolves the pool founder among members: first by the pool's founder
// user id, then by the founder flag. It returns -1 when neither matches.
func FounderIndex(pool Pool, members []Member) int {
	for i, m := range members {
		if m.UserID == pool.FounderUserID {
			return i
		}
	}
	for i, m := range members {
		if m.IsFounder {
			return i
		}
	}
	return -1
}

func HasMember(members []Member, userID string) bool {
	for _, m := range members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
