package vm

// Payment is one cashflow registered by a PAYS or PAYSCONST node. An empty
// Name means the payment carries no identifier.
type Payment struct {
	Name   string
	Amount float64
}

// PaymentLog is the ordered record of payments of a single run.
type PaymentLog struct {
	entries []Payment
}

func NewPaymentLog() *PaymentLog {
	return &PaymentLog{}
}

// Record appends a payment.
func (l *PaymentLog) Record(name string, amount float64) {
	l.entries = append(l.entries, Payment{Name: name, Amount: amount})
}

// Entries returns a copy of the payments in evaluation order.
func (l *PaymentLog) Entries() []Payment {
	out := make([]Payment, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *PaymentLog) Len() int {
	return len(l.entries)
}

// Totals sums the payments per identifier. Anonymous payments sum under "".
func (l *PaymentLog) Totals() map[string]float64 {
	out := make(map[string]float64)
	for _, p := range l.entries {
		out[p.Name] += p.Amount
	}
	return out
}

// Sum returns the total of all payments.
func (l *PaymentLog) Sum() float64 {
	var total float64
	for _, p := range l.entries {
		total += p.Amount
	}
	return total
}

// Reset empties the log so it can be reused for another run.
func (l *PaymentLog) Reset() {
	l.entries = l.entries[:0]
}
