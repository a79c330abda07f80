package query

import (
	"context"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/google/uuid"
)

// featurePersonalization is the kill-switch for the whole personalization
// pipeline: when disabled for a scope, dashboards get the default brief.
const featurePersonalization = "homebrief.personalization"

func featureEnabled(ctx context.Context, gate featuregate.FeatureGate, key string, userID, buildingID uuid.UUID) (bool, error) {
	if gate == nil {
		return true, nil
	}
	scopeSet := featureScopeSet(userID, buildingID)
	if scopeSet == nil {
		return gate.Enabled(ctx, key)
	}
	return gate.Enabled(ctx, key, featuregate.WithScopeSet(*scopeSet))
}

func featureScopeSet(userID, buildingID uuid.UUID) *featuregate.ScopeSet {
	user := ""
	if userID != uuid.Nil {
		user = userID.String()
	}
	// Buildings occupy the org slot of the gate's scope chain.
	building := ""
	if buildingID != uuid.Nil {
		building = buildingID.String()
	}

	if user == "" && building == "" {
		return nil
	}
	return &featuregate.ScopeSet{
		System: true,
		OrgID:  building,
		UserID: user,
	}
}
