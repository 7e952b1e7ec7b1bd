package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// ReportResponse wraps a generated report together with the raw data it was
// built from, so the endpoint is useful even when generation fails.
type ReportResponse struct {
	Status      string     `json:"status"`
	Data        ReportData `json:"data"`
	GeneratedAt time.Time  `json:"generated_at"`
	AIEnabled   bool       `json:"ai_enabled"`
}

type ReportData struct {
	RawData    interface{} `json:"raw_data"`
	AIInsights string      `json:"ai_insights,omitempty"`
	Summary    string      `json:"summary"`
	Error      string      `json:"error,omitempty"`
}

// GenerateSalesReport turns the daily sales buckets into a narrative
// summary. With AI disabled it returns the raw data only.
func GenerateSalesReport(ctx context.Context, salesData interface{}) *ReportResponse {
	response := &ReportResponse{
		Status:      "success",
		GeneratedAt: time.Now(),
		AIEnabled:   IsEnabled(),
		Data: ReportData{
			RawData: salesData,
			Summary: "Sales data retrieved successfully",
		},
	}

	if !IsEnabled() {
		response.Data.Summary = "Raw sales data (AI insights unavailable)"
		return response
	}

	insights, err := generateCompletion(ctx, salesReportSystemPrompt, formatSalesDataPrompt(salesData))
	if err != nil {
		response.Data.Error = "AI analysis failed: " + err.Error()
		return response
	}
	response.Data.AIInsights = insights
	response.Data.Summary = "AI-generated sales insights and recommendations"
	return response
}

func formatSalesDataPrompt(salesData interface{}) string {
	encoded, err := json.MarshalIndent(salesData, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", salesData)
	}
	return "Daily sales aggregates:\n" + string(encoded)
}
