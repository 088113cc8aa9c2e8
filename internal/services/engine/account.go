package engine

import "NYCalc/internal/domain/models"

// account is the per-actor money state.
type account struct {
	balance    float64
	wallet     float64
	minBalance float64
	opened     int64
}

func newAccount(initial float64) account {
	return account{balance: initial, minBalance: initial}
}

func (a *account) mark() {
	if a.balance < a.minBalance {
		a.minBalance = a.balance
	}
}

// rules applies the open and close math shared by every engine.
type rules struct {
	params Params
	price  pricing
}

func newRules(p Params) rules {
	return rules{params: p, price: newPricing(p)}
}

// open debits cost plus commission and returns the new position.
// It refuses when the balance does not exceed the stake, or when the stake
// buys less than one lot and zero-quantity orders are disabled.
func (r rules) open(a *account, c models.Candle, owner int) (models.Position, bool) {
	if !(a.balance > r.params.Stake) {
		return models.Position{}, false
	}
	qty := r.price.quantity(c.Open)
	if qty == 0 && !r.params.AllowZeroQuantity {
		return models.Position{}, false
	}

	cost := qty * c.Open
	fee := cost * r.params.Commission
	a.balance -= cost
	a.balance -= fee

	p := models.Position{
		Owner:       owner,
		Seq:         a.opened,
		OpenTime:    c.OpenTime,
		EntryPrice:  c.Open,
		TargetPrice: r.price.target(c.Open),
		Quantity:    qty,
		Commission:  fee,
	}
	a.opened++
	return p, true
}

// close sells at the target, then moves the profit share from balance to wallet.
func (r rules) close(a *account, p *models.Position, c models.Candle) {
	proceeds := p.TargetPrice * p.Quantity
	fee := proceeds * r.params.Commission
	a.balance += proceeds
	a.balance -= fee
	p.Commission += fee

	profit := ((p.TargetPrice-p.EntryPrice)*p.Quantity - p.Commission) * r.params.ProfitShare
	a.balance -= profit
	a.wallet += profit

	p.Profit = profit
	p.CloseTime = c.OpenTime
	p.Closed = true
}
