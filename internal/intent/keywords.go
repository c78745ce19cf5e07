package intent

import (
	"fmt"
	"strings"

	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/warehouse"
)

// The deterministic classification tier. Everything in this file is a pure
// function of the utterance and table mapping: no oracle, no I/O. The oracle
// enrichment in classifier.go is validated against and overridden by these
// rules, never trusted on its own.

var explicitTablePhrases = []string{
	"show me the table", "display as table", "in table format", "raw data",
	"export the data", "download as table", "list all records",
	"show me the exact data", "give me the table", "as a table",
	"table format", "tabular format", "data table",
}

var explicitChartPhrases = []string{
	"show me a chart", "create a chart", "visualize as chart",
	"plot the data", "graph the results", "chart format",
}

// DetectVisualization picks a rendering for the utterance. Tables and charts
// require explicit phrasing; everything else narrates.
func DetectVisualization(utterance string) Visualization {
	lower := strings.ToLower(utterance)

	if containsAny(lower, explicitTablePhrases) {
		return VisualizationTable
	}

	if containsAny(lower, explicitChartPhrases) {
		switch {
		case strings.Contains(lower, "line") || strings.Contains(lower, "trend"):
			return VisualizationLine
		case strings.Contains(lower, "bar") || strings.Contains(lower, "compare"):
			return VisualizationBar
		case strings.Contains(lower, "pie") || strings.Contains(lower, "distribution"):
			return VisualizationPie
		default:
			return VisualizationBar
		}
	}

	switch {
	case containsAny(lower, []string{"line chart", "trend chart", "time series"}):
		return VisualizationLine
	case containsAny(lower, []string{"bar chart", "comparison chart", "ranking chart"}):
		return VisualizationBar
	case containsAny(lower, []string{"pie chart", "distribution chart", "percentage chart"}):
		return VisualizationPie
	}

	return VisualizationText
}

// GuidanceFor synthesizes response guidance when the oracle offered none.
func GuidanceFor(utterance string, vis Visualization) string {
	lower := strings.ToLower(utterance)

	switch vis {
	case VisualizationTable:
		switch {
		case containsAny(lower, []string{"product", "item"}):
			return "Detailed product information including pricing, inventory levels, and specifications."
		case containsAny(lower, []string{"customer", "client"}):
			return "Complete customer details with contact information, location, and company data."
		case containsAny(lower, []string{"order", "sale"}):
			return "Comprehensive order information including dates, amounts, and status details."
		case containsAny(lower, []string{"employee", "staff"}):
			return "Employee records with position, contact details, and employment information."
		default:
			return "Detailed data records providing comprehensive information for review."
		}
	case VisualizationLine:
		return "Time series analysis revealing trends, patterns, and growth over the specified period."
	case VisualizationBar:
		if containsAny(lower, []string{"compare", "vs", "versus"}) {
			return "Comparative analysis highlighting performance differences and rankings."
		}
		return "Performance analysis showing distribution and comparison across categories."
	case VisualizationPie:
		return "Distribution analysis illustrating proportional relationships and market share percentages."
	}

	return "Data analysis providing valuable business insights."
}

const salesExpr = "SUM(od.UnitPrice * od.Quantity * (1 - od.Discount))"

// Fallback deterministically synthesizes a runnable intent from utterance
// keywords and the resolved table mapping. Same utterance + same mapping
// always yields the same SQL and visualization.
func Fallback(utterance string, mapping warehouse.TableMapping) Intent {
	lower := strings.ToLower(utterance)

	products := warehouse.QuoteIdent(mapping.TableFor(warehouse.EntityProducts))
	orders := warehouse.QuoteIdent(mapping.TableFor(warehouse.EntityOrders))
	customers := warehouse.QuoteIdent(mapping.TableFor(warehouse.EntityCustomers))
	employees := warehouse.QuoteIdent(mapping.TableFor(warehouse.EntityEmployees))
	categories := warehouse.QuoteIdent(mapping.TableFor(warehouse.EntityCategories))
	orderDetails := warehouse.QuoteIdent(mapping.TableFor(warehouse.EntityOrderDetails))

	if containsAny(lower, explicitTablePhrases) {
		switch {
		case containsAny(lower, []string{"product", "item", "goods"}):
			return fallbackIntent(fmt.Sprintf("SELECT * FROM %s ORDER BY ProductName LIMIT 20", products), VisualizationTable)
		case containsAny(lower, []string{"customer", "client", "company"}):
			return fallbackIntent(fmt.Sprintf("SELECT * FROM %s ORDER BY CompanyName LIMIT 20", customers), VisualizationTable)
		case containsAny(lower, []string{"order", "sale", "purchase"}):
			return fallbackIntent(fmt.Sprintf("SELECT * FROM %s ORDER BY OrderDate DESC LIMIT 20", orders), VisualizationTable)
		case containsAny(lower, []string{"employee", "staff", "worker"}):
			return fallbackIntent(fmt.Sprintf("SELECT * FROM %s ORDER BY LastName LIMIT 20", employees), VisualizationTable)
		case containsAny(lower, []string{"category", "type", "group"}):
			return fallbackIntent(fmt.Sprintf("SELECT * FROM %s ORDER BY CategoryName LIMIT 20", categories), VisualizationTable)
		}
	}

	switch {
	case containsAny(lower, []string{"trend", "sales over time", "revenue trend", "daily sales", "growth"}):
		return fallbackIntent(fmt.Sprintf(
			"SELECT o.OrderDate, %s AS DailySales FROM %s o JOIN %s od ON o.OrderID = od.OrderID GROUP BY o.OrderDate ORDER BY o.OrderDate LIMIT 30",
			salesExpr, orders, orderDetails), VisualizationLine)
	case containsAny(lower, []string{"sales by category", "category sales", "compare category"}):
		return fallbackIntent(fmt.Sprintf(
			"SELECT c.CategoryName, %s AS TotalSales FROM %s od JOIN %s p ON od.ProductID = p.ProductID JOIN %s c ON p.CategoryID = c.CategoryID GROUP BY c.CategoryName ORDER BY TotalSales DESC LIMIT 10",
			salesExpr, orderDetails, products, categories), VisualizationBar)
	case containsAny(lower, []string{"distribution", "percentage", "share", "breakdown"}):
		return fallbackIntent(fmt.Sprintf(
			"SELECT c.CategoryName, %s AS TotalSales FROM %s od JOIN %s p ON od.ProductID = p.ProductID JOIN %s c ON p.CategoryID = c.CategoryID GROUP BY c.CategoryName",
			salesExpr, orderDetails, products, categories), VisualizationPie)
	case containsAny(lower, []string{"product", "selling", "top", "best", "sales"}):
		return fallbackIntent(fmt.Sprintf(
			"SELECT p.ProductName, %s AS TotalSales FROM %s od JOIN %s p ON od.ProductID = p.ProductID GROUP BY p.ProductID, p.ProductName ORDER BY TotalSales DESC LIMIT 5",
			salesExpr, orderDetails, products), VisualizationText)
	default:
		return fallbackIntent(fmt.Sprintf(
			"SELECT COUNT(*) AS TotalOrders, %s AS TotalSales FROM %s o JOIN %s od ON o.OrderID = od.OrderID",
			salesExpr, orders, orderDetails), VisualizationText)
	}
}

func fallbackIntent(sqlText string, vis Visualization) Intent {
	return Intent{
		Kind:          "query",
		SQLQuery:      sqlText,
		Visualization: vis,
		ResponseType:  responseTypeFor(vis),
	}
}

func containsAny(value string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(value, keyword) {
			return true
		}
	}
	return false
}
