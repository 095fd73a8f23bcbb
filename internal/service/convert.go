package service

import (
	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/money"
	"github.com/mmynk/receiptsplit/pkg/api"
)

// buildReceipt pairs the stored receipt with the caller's assignments.
func buildReceipt(receipt *models.Receipt, assignments []api.Assignment) (calculator.Receipt, error) {
	byIndex := make([]models.ItemAssignment, len(assignments))
	for i, a := range assignments {
		byIndex[i] = models.ItemAssignment{ItemIndex: a.ItemIndex, People: a.People}
	}
	return receipt.Assign(byIndex)
}

func toAPIReceipt(r *models.Receipt) api.Receipt {
	items := make([]api.Item, len(r.Items))
	for i, item := range r.Items {
		items[i] = api.Item{Index: i, Name: item.Name, Price: money.Format(item.Price)}
	}
	return api.Receipt{
		ID:        r.ID,
		Store:     r.Store,
		Date:      r.Date,
		Items:     items,
		Tax:       money.Format(r.Tax),
		Tip:       money.Format(r.Tip),
		Discount:  money.Format(r.Discount),
		Total:     money.Format(r.Total),
		Currency:  r.Currency,
		CreatedAt: r.CreatedAt,
	}
}

func toAPISplit(split *models.SplitResult, receipt *models.Receipt, adjustments []calculator.Adjustment) api.Split {
	people := make([]api.PersonSplit, len(split.People))
	for i, p := range split.People {
		people[i] = api.PersonSplit{
			Person:     p.Person,
			ItemsTotal: money.Format(p.ItemsTotal),
			Tax:        money.Format(p.Tax),
			Tip:        money.Format(p.Tip),
			Discount:   money.Format(p.Discount),
			Total:      money.Format(p.Total),
		}
	}

	items := make([]api.ItemSplit, len(split.Items))
	for i, item := range split.Items {
		shares := make([]api.Share, len(item.Shares))
		for j, s := range item.Shares {
			shares[j] = api.Share{Person: s.Person, Amount: money.Format(s.Amount)}
		}
		items[i] = api.ItemSplit{ItemName: item.ItemName, Price: money.Format(item.Price), Shares: shares}
	}

	var adj []api.Adjustment
	for _, a := range adjustments {
		adj = append(adj, api.Adjustment{
			Aggregate: string(a.Aggregate),
			Person:    a.Person,
			Amount:    money.Format(a.Amount),
		})
	}

	return api.Split{
		ID:          split.ID,
		ReceiptID:   split.ReceiptID,
		Store:       receipt.Store,
		Date:        receipt.Date,
		Currency:    receipt.Currency,
		People:      people,
		Items:       items,
		Adjustments: adj,
		Total:       money.Format(split.Total()),
		CreatedAt:   split.CreatedAt,
	}
}

func toAPIReconciliation(rec *calculator.Reconciliation) api.Reconciliation {
	return api.Reconciliation{
		Valid:        rec.Valid,
		SplitTotal:   money.Format(rec.SplitTotal),
		ReceiptTotal: money.Format(rec.ReceiptTotal),
		Difference:   money.Format(rec.Difference),
		Reason:       rec.Reason,
	}
}
