package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
)

func exportOptimizationCSV(outputDir string, resp *domain.OptimizationResponse) (string, error) {
	path := filepath.Join(outputDir, fmt.Sprintf("optimization_store_%d.csv", resp.StoreID))

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Product ID", "Product Name", "Category", "Current Stock",
		"Avg Daily Demand", "Demand Std", "Safety Stock", "Reorder Point",
		"EOQ", "ABC", "Annual Revenue", "Stock Days", "Status",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for _, r := range resp.Results {
		record := []string{
			r.ProductID,
			r.ProductName,
			r.Category,
			fmt.Sprintf("%d", r.CurrentStock),
			fmt.Sprintf("%.2f", r.AvgDailyDemand),
			fmt.Sprintf("%.2f", r.DemandStd),
			fmt.Sprintf("%d", r.Policy.SafetyStock),
			fmt.Sprintf("%d", r.Policy.ReorderPoint),
			fmt.Sprintf("%d", r.Policy.EOQ),
			string(r.ABCTier),
			fmt.Sprintf("%.2f", r.AnnualRevenue),
			fmt.Sprintf("%.1f", r.StockDays),
			string(r.Status),
		}
		if err := writer.Write(record); err != nil {
			return "", err
		}
	}

	return path, nil
}

func exportForecastCSV(outputDir string, resp *domain.ForecastResponse) (string, error) {
	path := filepath.Join(outputDir, fmt.Sprintf("forecast_store_%d_%dd.csv", resp.StoreID, resp.HorizonDays))

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Product ID", "Product Name", "Category", "Current Stock",
		"Total Forecast", "Revenue Forecast", "Recommended Order",
		"Low Confidence", "Daily Forecast",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for _, p := range resp.Products {
		daily := make([]string, len(p.DailyForecast))
		for i, v := range p.DailyForecast {
			daily[i] = fmt.Sprintf("%.2f", v)
		}
		record := []string{
			p.ProductID,
			p.ProductName,
			p.Category,
			fmt.Sprintf("%d", p.CurrentStock),
			fmt.Sprintf("%.2f", p.TotalForecast),
			fmt.Sprintf("%.2f", p.RevenueForecast),
			fmt.Sprintf("%d", p.RecommendedOrder),
			fmt.Sprintf("%t", p.LowConfidence),
			strings.Join(daily, ";"),
		}
		if err := writer.Write(record); err != nil {
			return "", err
		}
	}

	return path, nil
}
