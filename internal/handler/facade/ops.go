package facade

import (
	"context"
	"sort"

	"banking-service/internal/domain"
)

// Every handler parses all of its parameters before touching a usecase, so a
// malformed request never reaches the store.

func (f *Facade) register(ctx context.Context, p Params) (Result, error) {
	username, err := p.str("username")
	if err != nil {
		return nil, err
	}
	password, err := p.str("password")
	if err != nil {
		return nil, err
	}
	accountType, err := p.accountType("account_type")
	if err != nil {
		return nil, err
	}

	if err := f.accounts.Register(ctx, username, password, accountType); err != nil {
		return nil, err
	}
	return Result{"message": "Registration successful"}, nil
}

func (f *Facade) login(ctx context.Context, p Params) (Result, error) {
	username, err := p.str("username")
	if err != nil {
		return nil, err
	}
	password, err := p.str("password")
	if err != nil {
		return nil, err
	}

	s, err := f.sessions.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return Result{
		"message":   "Login successful",
		"username":  s.Username,
		"token":     s.Token,
		"expiresAt": s.ExpiresAt.Unix(),
	}, nil
}

func (f *Facade) logout(ctx context.Context, p Params) (Result, error) {
	token, err := p.str("token")
	if err != nil {
		return nil, err
	}
	if err := f.sessions.Logout(ctx, token); err != nil {
		return nil, err
	}
	return Result{"message": "Logged out"}, nil
}

func (f *Facade) session(ctx context.Context, p Params) (Result, error) {
	token, err := p.str("token")
	if err != nil {
		return nil, err
	}
	s, err := f.sessions.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	return Result{
		"username":  s.Username,
		"expiresAt": s.ExpiresAt.Unix(),
	}, nil
}

func (f *Facade) deposit(ctx context.Context, p Params) (Result, error) {
	username, err := p.str("username")
	if err != nil {
		return nil, err
	}
	amount, err := p.amount("amount")
	if err != nil {
		return nil, err
	}

	bal, err := f.ledger.Deposit(ctx, username, amount)
	if err != nil {
		return nil, err
	}
	return Result{"message": "Deposit successful", "balance": money(bal)}, nil
}

func (f *Facade) withdraw(ctx context.Context, p Params) (Result, error) {
	username, err := p.str("username")
	if err != nil {
		return nil, err
	}
	amount, err := p.amount("amount")
	if err != nil {
		return nil, err
	}

	bal, err := f.ledger.Withdraw(ctx, username, amount)
	if err != nil {
		return nil, err
	}
	return Result{"message": "Withdrawal successful", "balance": money(bal)}, nil
}

func (f *Facade) transfer(ctx context.Context, p Params) (Result, error) {
	from, err := p.str("username")
	if err != nil {
		return nil, err
	}
	to, err := p.str("to_username")
	if err != nil {
		return nil, err
	}
	amount, err := p.amount("amount")
	if err != nil {
		return nil, err
	}

	bal, err := f.ledger.Transfer(ctx, from, to, amount)
	if err != nil {
		return nil, err
	}
	return Result{"message": "Transfer successful", "balance": money(bal)}, nil
}

func (f *Facade) createDeposit(ctx context.Context, p Params) (Result, error) {
	username, err := p.str("username")
	if err != nil {
		return nil, err
	}
	amount, err := p.amount("amount")
	if err != nil {
		return nil, err
	}
	typ, err := p.depositType("deposit_type")
	if err != nil {
		return nil, err
	}
	var term domain.DepositTerm
	if typ == domain.DepositTypeTerm {
		if term, err = p.depositTerm("deposit_term"); err != nil {
			return nil, err
		}
	}

	dep, bal, err := f.deposits.CreateDeposit(ctx, username, amount, typ, term)
	if err != nil {
		return nil, err
	}
	return Result{
		"message":   "Deposit created successfully",
		"balance":   money(bal),
		"depositId": dep.ID,
	}, nil
}

func (f *Facade) withdrawDeposit(ctx context.Context, p Params) (Result, error) {
	username, err := p.str("username")
	if err != nil {
		return nil, err
	}
	depositID, err := p.str("deposit_id")
	if err != nil {
		return nil, err
	}
	amount, err := p.amount("amount")
	if err != nil {
		return nil, err
	}

	res, err := f.deposits.WithdrawDeposit(ctx, username, depositID, amount)
	if err != nil {
		return nil, err
	}
	return Result{
		"message":  "Withdrawal successful",
		"balance":  money(res.Balance),
		"interest": money(res.Interest),
		"closed":   res.Closed,
	}, nil
}

func (f *Facade) balance(ctx context.Context, p Params) (Result, error) {
	username, err := p.str("username")
	if err != nil {
		return nil, err
	}
	bal, err := f.ledger.GetBalance(ctx, username)
	if err != nil {
		return nil, err
	}
	return Result{"balance": money(bal)}, nil
}

func (f *Facade) getDeposits(ctx context.Context, p Params) (Result, error) {
	username, err := p.str("username")
	if err != nil {
		return nil, err
	}
	deps, err := f.deposits.GetUserDeposits(ctx, username)
	if err != nil {
		return nil, err
	}

	now := f.deposits.Now()
	list := make([]any, 0, len(deps))
	for _, d := range deps {
		list = append(list, renderDeposit(d, now))
	}
	return Result{"deposits": list}, nil
}

func (f *Facade) getDepositDetails(ctx context.Context, p Params) (Result, error) {
	username, err := p.str("username")
	if err != nil {
		return nil, err
	}
	depositID, err := p.str("deposit_id")
	if err != nil {
		return nil, err
	}
	d, err := f.deposits.GetDepositDetails(ctx, username, depositID)
	if err != nil {
		return nil, err
	}
	return Result{"deposit": renderDepositDetails(d, f.deposits.Now())}, nil
}

func (f *Facade) transactionHistory(ctx context.Context, p Params) (Result, error) {
	username, err := p.str("username")
	if err != nil {
		return nil, err
	}
	history, err := f.ledger.GetHistory(ctx, username)
	if err != nil {
		return nil, err
	}

	list := make([]any, 0, len(history))
	for _, t := range history {
		list = append(list, renderTransaction(t))
	}
	return Result{"transactions": list}, nil
}

func (f *Facade) listAccounts(ctx context.Context, _ Params) (Result, error) {
	all, err := f.accounts.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]any, 0, len(names))
	for _, name := range names {
		list = append(list, renderAccount(all[name]))
	}
	return Result{"accounts": list}, nil
}
