package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ── Report types ──────────────────────────────────────────────────────────────

// Dashboard holds the front-page counters.
type Dashboard struct {
	NewCount        int             `json:"newCount"`
	InProgressCount int             `json:"inProgressCount"`
	ReadyCount      int             `json:"readyCount"`
	TodayRevenue    decimal.Decimal `json:"todayRevenue"`
}

// Finance is the finance screen summary.
//
// Despite the "monthly" caption it covers every stored order, and the profit
// is a flat 40 % of revenue rather than a margin over purchase prices.
type Finance struct {
	Revenue         decimal.Decimal `json:"revenue"`
	EstimatedProfit decimal.Decimal `json:"estimatedProfit"`
	OrderCount      int             `json:"orderCount"`
}

// ClientSummary pairs a client with the orders filed under their name.
type ClientSummary struct {
	Client     Client          `json:"client"`
	OrderCount int             `json:"orderCount"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
}

var profitRate = decimal.RequireFromString("0.4")

// ── Pure derivations ──────────────────────────────────────────────────────────

// DashboardAggregates counts orders per status and sums the line amounts of
// orders created on now's calendar day in now's location.
func DashboardAggregates(orders []Order, now time.Time) Dashboard {
	d := Dashboard{TodayRevenue: decimal.Zero}
	loc := now.Location()
	y, m, day := now.Date()
	for _, o := range orders {
		switch o.Status {
		case StatusNew:
			d.NewCount++
		case StatusInProgress:
			d.InProgressCount++
		case StatusReady:
			d.ReadyCount++
		}
		oy, om, oday := o.CreatedAt.In(loc).Date()
		if oy == y && om == m && oday == day {
			d.TodayRevenue = d.TodayRevenue.Add(OrderTotal(o.Items))
		}
	}
	return d
}

// MonthlyFinance sums line amounts across all orders. No date filter is
// applied; profit is revenue × 0.4 rounded to a whole unit.
func MonthlyFinance(orders []Order) Finance {
	revenue := decimal.Zero
	for _, o := range orders {
		revenue = revenue.Add(OrderTotal(o.Items))
	}
	return Finance{
		Revenue:         revenue,
		EstimatedProfit: revenue.Mul(profitRate).Round(0),
		OrderCount:      len(orders),
	}
}

// ClientSummaries computes order count and total spent for each client,
// matching orders by exact client name.
func ClientSummaries(clients []Client, orders []Order) []ClientSummary {
	type acc struct {
		count int
		total decimal.Decimal
	}
	byName := make(map[string]*acc)
	for _, o := range orders {
		a, ok := byName[o.ClientName]
		if !ok {
			a = &acc{total: decimal.Zero}
			byName[o.ClientName] = a
		}
		a.count++
		a.total = a.total.Add(OrderTotal(o.Items))
	}
	out := make([]ClientSummary, 0, len(clients))
	for _, c := range clients {
		s := ClientSummary{Client: c, TotalSpent: decimal.Zero}
		if a, ok := byName[c.Name]; ok {
			s.OrderCount = a.count
			s.TotalSpent = a.total
		}
		out = append(out, s)
	}
	return out
}

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportingService provides read-only aggregates over the store.
type ReportingService interface {
	GetDashboard(ctx context.Context) (*Dashboard, error)
	GetFinance(ctx context.Context) (*Finance, error)
	GetClientSummaries(ctx context.Context, term string) ([]ClientSummary, error)
}

type reportingService struct {
	store *Store
}

// NewReportingService constructs a ReportingService reading from store.
func NewReportingService(store *Store) ReportingService {
	return &reportingService{store: store}
}

func (s *reportingService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	d := DashboardAggregates(s.store.Orders(), s.store.Now())
	return &d, nil
}

func (s *reportingService) GetFinance(ctx context.Context) (*Finance, error) {
	f := MonthlyFinance(s.store.Orders())
	return &f, nil
}

func (s *reportingService) GetClientSummaries(ctx context.Context, term string) ([]ClientSummary, error) {
	clients := FilterClients(s.store.Clients(), term)
	return ClientSummaries(clients, s.store.Orders()), nil
}
