package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/rechargehub/app/models"
	"github.com/shashiranjanraj/rechargehub/app/repositories"
)

func init() {
	Register("carrier plans", seedPlans)
}

// seedPlans loads a starter catalogue for the three big carriers. Skipped
// when the collection already has documents.
func seedPlans(ctx context.Context, db *mongo.Database) error {
	col := db.Collection(repositories.PlansCollection)

	n, err := col.EstimatedDocumentCount(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	now := time.Now().UTC()
	plans := []models.Plan{
		{Provider: "jio", PlanName: "Smart 239", Price: 239, Data: "1.5GB/day", Validity: "28 days", AddOns: "Unlimited calls, 100 SMS/day"},
		{Provider: "jio", PlanName: "Value 299", Price: 299, Data: "2GB/day", Validity: "28 days", AddOns: "Unlimited 5G"},
		{Provider: "airtel", PlanName: "Freedom 299", Price: 299, Data: "1.5GB/day", Validity: "28 days", AddOns: "Apollo 24|7 Circle"},
		{Provider: "airtel", PlanName: "Max 549", Price: 549, Data: "2GB/day", Validity: "56 days"},
		{Provider: "vi", PlanName: "Hero 269", Price: 269, Data: "1GB/day", Validity: "28 days", AddOns: "Weekend data rollover"},
	}

	docs := make([]interface{}, 0, len(plans))
	for _, p := range plans {
		p.CreatedAt = now
		p.UpdatedAt = now
		docs = append(docs, p)
	}

	_, err = col.InsertMany(ctx, docs)
	return err
}
