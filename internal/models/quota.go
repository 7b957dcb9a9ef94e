package models

// Tier — тариф пользователя.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// PremiumDisplayLimit — лимит, который показывается премиум-пользователям.
const PremiumDisplayLimit = 999999

// Quota — результат расчёта дневной квоты.
type Quota struct {
	Allowed   bool
	Used      int
	Limit     int
	Remaining int
	Tier      Tier
	Unlimited bool
}
