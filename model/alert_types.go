package model

type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

type AlertType string

const (
	AlertOutOfStock     AlertType = "out_of_stock"
	AlertLowStock       AlertType = "low_stock"
	AlertThresholdSetup AlertType = "needs_threshold_setup"
)

type Alert struct {
	ID          string        `json:"id"`
	Key         string        `json:"key"`
	Type        AlertType     `json:"type"`
	Severity    AlertSeverity `json:"severity"`
	SKU         string        `json:"sku"`
	ProductName string        `json:"productName"`
	Message     string        `json:"message"`
	CreatedAt   string        `json:"createdAt"`
}
