package main

import (
	"net/http"

	"go.uber.org/zap"

	"simas/alert"
	"simas/auth"
	"simas/connection"
	"simas/product"
	"simas/psb"
	"simas/reorder"
	"simas/stock"
)

// SetupRoutes wires the API. Reads are public; every mutating endpoint sits
// behind the bearer token. Routes that multiplex reads and writes use
// BearerWrites so only the write half is guarded.
func SetupRoutes(mux *http.ServeMux, app *App, log *zap.SugaredLogger) {
	token := app.Cfg.Auth.Token

	mux.HandleFunc("/api/products", auth.BearerWrites(token, product.ProductsHandler(app.DB, app.Settings, log)))
	mux.HandleFunc("/api/products/validate_sku", auth.Bearer(token, product.ValidateSKUHandler(app.DB, log)))
	mux.HandleFunc("/api/products/import", auth.Bearer(token, product.ImportCSVHandler(app.DB, app.Settings, log)))
	mux.HandleFunc("/api/products/", auth.BearerWrites(token, product.ProductByIDHandler(app.DB, app.Settings, log)))

	mux.HandleFunc("/api/stock/adjust", auth.Bearer(token, stock.AdjustStockHandler(app.DB, app.Settings, log)))
	mux.HandleFunc("/api/stock/summary", stock.StockSummaryHandler(app.DB, app.Settings, log))
	mux.HandleFunc("/api/stock/movements", stock.MovementsHandler(app.DB, log))

	mux.HandleFunc("/api/psb-orders", auth.BearerWrites(token, psb.OrdersHandler(app.DB, log)))
	mux.HandleFunc("/api/psb-orders/status", auth.Bearer(token, psb.UpdateStatusHandler(app.DB, log)))
	mux.HandleFunc("/api/psb-orders/analytics", psb.AnalyticsHandler(app.Analytics))

	mux.HandleFunc("/api/analytics", DashboardHandler(app, log))

	mux.HandleFunc("/api/alerts", alert.ListAlertsHandler(app.Monitor))
	mux.HandleFunc("/api/alerts/dismiss", auth.Bearer(token, alert.DismissAlertHandler(app.Monitor)))

	mux.HandleFunc("/api/reorder/suggestions", reorder.SuggestionsHandler(app.DB, app.Settings, log))

	mux.HandleFunc("/api/health", connection.HealthHandler(app.Conn, app.DB))

	mux.HandleFunc("/api/config", ConfigHandler(app, log))
}
