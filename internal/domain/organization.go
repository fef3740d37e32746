package domain

import "time"

// SubscriptionTier is the billing plan of an organization.
type SubscriptionTier string

const (
	TierStarter      SubscriptionTier = "starter"
	TierProfessional SubscriptionTier = "professional"
	TierBusiness     SubscriptionTier = "business"
	TierEnterprise   SubscriptionTier = "enterprise"
)

// Organization is a tenant. Identity rows live in the master database and are
// mirrored into the tenant database to satisfy foreign keys there.
type Organization struct {
	ID               string           `json:"id" db:"id"`
	Name             string           `json:"name" db:"name"`
	Slug             string           `json:"slug" db:"slug"`
	Description      *string          `json:"description,omitempty" db:"description"`
	Domain           *string          `json:"domain,omitempty" db:"domain"`
	IsActive         bool             `json:"is_active" db:"is_active"`
	SubscriptionTier SubscriptionTier `json:"subscription_tier" db:"subscription_tier"`
	MaxUsers         int              `json:"max_users" db:"max_users"`
	MaxProjects      int              `json:"max_projects" db:"max_projects"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}
