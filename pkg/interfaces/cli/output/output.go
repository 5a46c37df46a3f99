package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bakeplan/bakeplan/pkg/domain/entities"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
}

// CategoryLine is one category row of an order's stock status.
type CategoryLine struct {
	CategoryID string `json:"category_id"`
	Unit       string `json:"unit"`
	Required   string `json:"required"`
	Reserved   string `json:"reserved"`
	Available  string `json:"available"`
	Shortage   string `json:"shortage"`
	Level      string `json:"level"`
}

// OrderReport is the rendered stock status of one order.
type OrderReport struct {
	OrderID    string         `json:"order_id"`
	CustomerID string         `json:"customer_id"`
	Status     string         `json:"status"`
	Categories []CategoryLine `json:"categories"`
}

// ShoppingLine is one category row of the aggregate shopping list.
type ShoppingLine struct {
	CategoryID string   `json:"category_id"`
	Unit       string   `json:"unit"`
	Shortfall  string   `json:"shortfall"`
	Orders     []string `json:"orders"`
}

// Report is the full planning result handed to the renderers.
type Report struct {
	Orders       []OrderReport  `json:"orders"`
	ShoppingList []ShoppingLine `json:"shopping_list"`
}

// NewOrderReport converts an order and its per-category statuses into the
// rendered form.
func NewOrderReport(order *entities.Order, statuses []entities.CategoryStockStatus) OrderReport {
	report := OrderReport{
		OrderID:    string(order.ID),
		CustomerID: order.CustomerID,
		Status:     order.Status.String(),
	}
	for _, s := range statuses {
		report.Categories = append(report.Categories, CategoryLine{
			CategoryID: string(s.CategoryID),
			Unit:       s.Unit,
			Required:   s.Required.String(),
			Reserved:   s.Reserved.String(),
			Available:  s.Available.String(),
			Shortage:   s.Shortage.String(),
			Level:      s.Level.String(),
		})
	}
	return report
}

// NewShoppingLines converts shopping list entries into the rendered form.
func NewShoppingLines(entries []entities.ShoppingListEntry) []ShoppingLine {
	var lines []ShoppingLine
	for _, e := range entries {
		orders := make([]string, 0, len(e.Orders))
		for _, id := range e.Orders {
			orders = append(orders, string(id))
		}
		lines = append(lines, ShoppingLine{
			CategoryID: string(e.CategoryID),
			Unit:       e.Unit,
			Shortfall:  e.Shortfall.String(),
			Orders:     orders,
		})
	}
	return lines
}

// Generate creates output in the specified format
func Generate(report *Report, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(report, config)
	case "json":
		return generateJSONOutput(report, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(report *Report, config Config) error {
	fmt.Printf("📊 Stock Planning Summary\n")
	fmt.Printf("=========================\n\n")

	for _, order := range report.Orders {
		fmt.Printf("📋 Order %s (%s, %s)\n", order.OrderID, order.CustomerID, order.Status)
		fmt.Printf("%-15s %-6s %-12s %-12s %-12s %-12s %-12s\n",
			"Category", "Unit", "Required", "Reserved", "Available", "Shortage", "Level")
		fmt.Printf("%-15s %-6s %-12s %-12s %-12s %-12s %-12s\n",
			"---------------", "------", "------------", "------------", "------------", "------------", "------------")
		for _, line := range order.Categories {
			fmt.Printf("%-15s %-6s %-12s %-12s %-12s %-12s %-12s\n",
				line.CategoryID, line.Unit, line.Required, line.Reserved,
				line.Available, line.Shortage, line.Level)
		}
		fmt.Println()
	}

	if len(report.ShoppingList) > 0 {
		fmt.Printf("🛒 Shopping List:\n")
		fmt.Printf("%-15s %-6s %-12s %s\n", "Category", "Unit", "Shortfall", "Orders")
		fmt.Printf("%-15s %-6s %-12s %s\n", "---------------", "------", "------------", "---------------")
		for _, line := range report.ShoppingList {
			fmt.Printf("%-15s %-6s %-12s %v\n", line.CategoryID, line.Unit, line.Shortfall, line.Orders)
		}
		fmt.Println()
	} else {
		fmt.Printf("✅ All open orders are covered by current stock\n\n")
	}

	return saveToFile(report, config)
}

// generateJSONOutput creates JSON output
func generateJSONOutput(report *Report, config Config) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	fmt.Println(string(data))

	return saveToFile(report, config)
}

// saveToFile writes the JSON form of the report when an output directory is
// configured, regardless of the format printed to stdout.
func saveToFile(report *Report, config Config) error {
	if config.OutputDir == "" {
		return nil
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(config.OutputDir, "bakeplan_results.json")
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	if config.Verbose {
		fmt.Printf("💾 Results saved to: %s\n", path)
	}
	return nil
}
