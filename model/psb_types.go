package model

// PSB = Pasang Sambungan Baru (new connection/installation order).

type PSBStatus string

const (
	PSBPending    PSBStatus = "pending"
	PSBInProgress PSBStatus = "in_progress"
	PSBCompleted  PSBStatus = "completed"
	PSBCancelled  PSBStatus = "cancelled"
)

func (s PSBStatus) Valid() bool {
	switch s {
	case PSBPending, PSBInProgress, PSBCompleted, PSBCancelled:
		return true
	}
	return false
}

type PSBOrder struct {
	ID           int64     `db:"id" json:"id"`
	OrderNo      string    `db:"order_no" json:"orderNo"`
	CustomerName string    `db:"customer_name" json:"customerName"`
	Address      string    `db:"address" json:"address"`
	Cluster      string    `db:"cluster" json:"cluster"`
	STO          string    `db:"sto" json:"sto"`
	Status       PSBStatus `db:"status" json:"status"`
	Technician   string    `db:"technician" json:"technician"`
	CreatedAt    string    `db:"created_at" json:"createdAt"`
	UpdatedAt    string    `db:"updated_at" json:"updatedAt"`
	CompletedAt  string    `db:"completed_at" json:"completedAt,omitempty"`
}

type PSBSummary struct {
	TotalOrders      int     `db:"total_orders" json:"totalOrders"`
	CompletedOrders  int     `db:"completed_orders" json:"completedOrders"`
	PendingOrders    int     `db:"pending_orders" json:"pendingOrders"`
	InProgressOrders int     `db:"in_progress_orders" json:"inProgressOrders"`
	CompletionRate   float64 `json:"completionRate"`
}

type ClusterStat struct {
	Cluster   string `db:"cluster" json:"cluster"`
	Total     int    `db:"total" json:"total"`
	Completed int    `db:"completed" json:"completed"`
}

type STOStat struct {
	STO       string `db:"sto" json:"sto"`
	Total     int    `db:"total" json:"total"`
	Completed int    `db:"completed" json:"completed"`
}

type MonthlyTrend struct {
	Month     string `db:"month" json:"month"`
	Orders    int    `db:"orders" json:"orders"`
	Completed int    `db:"completed" json:"completed"`
}

// PSBAnalytics is the aggregate served to the dashboard.
type PSBAnalytics struct {
	Summary       PSBSummary     `json:"summary"`
	ClusterStats  []ClusterStat  `json:"clusterStats"`
	StoStats      []STOStat      `json:"stoStats"`
	MonthlyTrends []MonthlyTrend `json:"monthlyTrends"`
}

// EmptyPSBAnalytics returns a zeroed aggregate with non-nil slices, used as
// the fallback shape so consumers never have to nil-check.
func EmptyPSBAnalytics() *PSBAnalytics {
	return &PSBAnalytics{
		ClusterStats:  []ClusterStat{},
		StoStats:      []STOStat{},
		MonthlyTrends: []MonthlyTrend{},
	}
}

// Empty reports whether the aggregate carries no orders at all.
func (a *PSBAnalytics) Empty() bool {
	return a == nil || a.Summary.TotalOrders == 0
}
