package facade

import (
	"encoding/json"
	"time"

	"banking-service/internal/domain"

	"github.com/shopspring/decimal"
)

// money renders an amount as a JSON number with cent precision.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(domain.MoneyScale))
}

func renderDeposit(d *domain.Deposit, now time.Time) map[string]any {
	out := map[string]any{
		"id":          d.ID,
		"amount":      money(d.Amount),
		"type":        int(d.Type),
		"depositTime": d.DepositTime.Unix(),
		"currentTime": now.Unix(),
		"isMatured":   d.IsMatured(now),
	}
	if d.Type == domain.DepositTypeTerm {
		out["term"] = int(d.Term)
	}
	return out
}

func renderDepositDetails(d *domain.Deposit, now time.Time) map[string]any {
	out := renderDeposit(d, now)
	out["elapsedSeconds"] = d.ElapsedSeconds(now)

	points := domain.ProjectInterest(d)
	calcs := make([]any, 0, len(points))
	for _, p := range points {
		calcs = append(calcs, map[string]any{
			"time":     p.Time,
			"interest": money(p.Interest),
			"total":    money(p.Total),
		})
	}
	out["interestCalculations"] = calcs
	return out
}

func renderTransaction(t *domain.TransactionRecord) map[string]any {
	return map[string]any{
		"id":            t.ID,
		"type":          int(t.Type),
		"amount":        money(t.Amount),
		"balance_after": money(t.BalanceAfter),
		"counterparty":  t.Counterparty,
		"description":   t.Description,
		"timestamp":     t.Timestamp.Unix(),
	}
}

func renderAccount(a *domain.Account) map[string]any {
	return map[string]any{
		"username":    a.Username,
		"accountType": int(a.AccountType),
		"balance":     money(a.Balance),
	}
}
