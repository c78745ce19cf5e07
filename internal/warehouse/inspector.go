package warehouse

import (
	"context"
	"fmt"
	"strings"
)

// Canonical entity names used throughout intent classification. The order
// matters: when a table name matches keywords for several entities, the
// earliest unmapped entity claims it.
const (
	EntityProducts     = "products"
	EntityOrders       = "orders"
	EntityCustomers    = "customers"
	EntityEmployees    = "employees"
	EntityCategories   = "categories"
	EntityOrderDetails = "order_details"
	EntitySuppliers    = "suppliers"
)

var entityOrder = []string{
	EntityProducts,
	EntityOrders,
	EntityCustomers,
	EntityEmployees,
	EntityCategories,
	EntityOrderDetails,
	EntitySuppliers,
}

var entityKeywords = map[string][]string{
	EntityProducts:     {"product", "item", "goods"},
	EntityOrders:       {"order", "sale", "purchase"},
	EntityCustomers:    {"customer", "client", "company"},
	EntityEmployees:    {"employee", "staff", "worker"},
	EntityCategories:   {"category", "type", "group"},
	EntityOrderDetails: {"detail", "line", "item"},
	EntitySuppliers:    {"supplier", "vendor"},
}

// defaultTableNames are used when introspection found no table for an entity.
var defaultTableNames = map[string]string{
	EntityProducts:     "Products",
	EntityOrders:       "Orders",
	EntityCustomers:    "Customers",
	EntityEmployees:    "Employees",
	EntityCategories:   "Categories",
	EntityOrderDetails: "Order Details",
	EntitySuppliers:    "Suppliers",
}

// TableMapping associates canonical entities with the literal table names of
// the connected database. Built once at startup and immutable afterwards.
type TableMapping map[string]string

// TableFor resolves an entity to its mapped table, falling back to the
// conventional literal name when the entity was never discovered.
func (m TableMapping) TableFor(entity string) string {
	if name, ok := m[entity]; ok {
		return name
	}
	return defaultTableNames[entity]
}

// Entities returns the fully resolved entity-to-table view, defaults
// included.
func (m TableMapping) Entities() map[string]string {
	resolved := make(map[string]string, len(entityOrder))
	for _, entity := range entityOrder {
		resolved[entity] = m.TableFor(entity)
	}
	return resolved
}

type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// ListTables returns the user table names of the warehouse in catalog order.
func (w *Warehouse) ListTables(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(
		"SELECT table_name FROM information_schema.tables WHERE table_schema = %s AND table_type = 'BASE TABLE' ORDER BY table_name",
		w.placeholder(1),
	)
	rows, err := w.db.QueryContext(ctx, query, w.introspectionSchema())
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}
	return tables, nil
}

// DescribeTable returns column metadata for one table in ordinal order.
func (w *Warehouse) DescribeTable(ctx context.Context, table string) ([]ColumnInfo, error) {
	query := fmt.Sprintf(
		"SELECT column_name, data_type, is_nullable FROM information_schema.columns WHERE table_schema = %s AND table_name = %s ORDER BY ordinal_position",
		w.placeholder(1), w.placeholder(2),
	)
	rows, err := w.db.QueryContext(ctx, query, w.introspectionSchema(), table)
	if err != nil {
		return nil, fmt.Errorf("describe table %q: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var columns []ColumnInfo
	for rows.Next() {
		var name, dataType, nullable string
		if err := rows.Scan(&name, &dataType, &nullable); err != nil {
			return nil, fmt.Errorf("scan column for %q: %w", table, err)
		}
		columns = append(columns, ColumnInfo{
			Name:     name,
			Type:     dataType,
			Nullable: strings.EqualFold(nullable, "YES"),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns for %q: %w", table, err)
	}
	return columns, nil
}

// BuildSchemaSummary renders the whole schema as text. The summary is the
// grounding context handed to the classification oracle.
func (w *Warehouse) BuildSchemaSummary(ctx context.Context) (string, error) {
	tables, err := w.ListTables(ctx)
	if err != nil {
		return "", err
	}

	var sections []string
	for _, table := range tables {
		columns, err := w.DescribeTable(ctx, table)
		if err != nil {
			return "", err
		}
		parts := make([]string, 0, len(columns))
		for _, column := range columns {
			parts = append(parts, fmt.Sprintf("%s (%s)", column.Name, column.Type))
		}
		sections = append(sections, fmt.Sprintf("Table: %s\nColumns: %s", table, strings.Join(parts, ", ")))
	}
	return strings.Join(sections, "\n\n"), nil
}

// DetectEntityMapping keyword-matches discovered table names against the
// canonical entity list. The first matching table wins per entity; a table
// claims at most one entity; entities with no match are simply absent.
func (w *Warehouse) DetectEntityMapping(ctx context.Context) (TableMapping, error) {
	tables, err := w.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	return DetectEntityMappingFromTables(tables), nil
}

// DetectEntityMappingFromTables is the pure matching half of
// DetectEntityMapping, split out so classification tests can exercise it
// without a database.
func DetectEntityMappingFromTables(tables []string) TableMapping {
	mapping := TableMapping{}
	for _, table := range tables {
		lower := strings.ToLower(table)
		for _, entity := range entityOrder {
			if _, taken := mapping[entity]; taken {
				continue
			}
			if containsAny(lower, entityKeywords[entity]) {
				mapping[entity] = table
				break
			}
		}
	}
	return mapping
}

func containsAny(value string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(value, keyword) {
			return true
		}
	}
	return false
}
