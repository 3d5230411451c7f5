package facade

import (
	"fmt"
	"strings"

	"banking-service/internal/domain"

	"github.com/shopspring/decimal"
)

// Params are the flat string parameters of one request.
type Params map[string]string

// lookup reads name, falling back to its camelCase spelling (to_username,
// toUsername).
func (p Params) lookup(name string) string {
	if v, ok := p[name]; ok {
		return v
	}
	return p[camelCase(name)]
}

func camelCase(name string) string {
	parts := strings.Split(name, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

func (p Params) str(name string) (string, error) {
	v := strings.TrimSpace(p.lookup(name))
	if v == "" {
		return "", fmt.Errorf("missing parameter %q: %w", name, domain.ErrMalformedRequest)
	}
	return v, nil
}

func (p Params) amount(name string) (decimal.Decimal, error) {
	v, err := p.str(name)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := domain.ParseAmount(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parameter %q: %w", name, err)
	}
	return d, nil
}

func (p Params) accountType(name string) (domain.AccountType, error) {
	v, err := p.str(name)
	if err != nil {
		return 0, err
	}
	return domain.ParseAccountType(v)
}

func (p Params) depositType(name string) (domain.DepositType, error) {
	v, err := p.str(name)
	if err != nil {
		return 0, err
	}
	return domain.ParseDepositType(v)
}

func (p Params) depositTerm(name string) (domain.DepositTerm, error) {
	v, err := p.str(name)
	if err != nil {
		return 0, err
	}
	return domain.ParseDepositTerm(v)
}
