package warehouse

import (
	"context"
	"reflect"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestDetectEntityMappingFromTables(t *testing.T) {
	tests := []struct {
		name   string
		tables []string
		want   TableMapping
	}{
		{
			// "Order Details" sorts before "Orders" and claims the orders
			// entity; the unclaimed entities are covered by TableFor
			// defaults, not by the mapping itself.
			name:   "conventional names in catalog order",
			tables: []string{"Categories", "Customers", "Employees", "Order Details", "Orders", "Products", "Suppliers"},
			want: TableMapping{
				EntityProducts:  "Products",
				EntityOrders:    "Order Details",
				EntityCustomers: "Customers",
				EntityEmployees: "Employees",
				EntitySuppliers: "Suppliers",
			},
		},
		{
			name:   "first match wins per entity",
			tables: []string{"products_v2", "products_archive"},
			want:   TableMapping{EntityProducts: "products_v2"},
		},
		{
			name:   "second table claims next entity",
			tables: []string{"product_items", "order_lines"},
			want: TableMapping{
				EntityProducts: "product_items",
				EntityOrders:   "order_lines",
			},
		},
		{
			name:   "no matches",
			tables: []string{"warehouse_audit", "sync_log"},
			want:   TableMapping{},
		},
		{
			name:   "empty input",
			tables: nil,
			want:   TableMapping{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectEntityMappingFromTables(tt.tables)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("mapping = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTableForFallsBackToDefaults(t *testing.T) {
	mapping := TableMapping{EntityProducts: "store_products"}

	if got := mapping.TableFor(EntityProducts); got != "store_products" {
		t.Fatalf("TableFor(products) = %q", got)
	}
	if got := mapping.TableFor(EntityOrderDetails); got != "Order Details" {
		t.Fatalf("TableFor(order_details) = %q", got)
	}
	if got := mapping.TableFor(EntitySuppliers); got != "Suppliers" {
		t.Fatalf("TableFor(suppliers) = %q", got)
	}
}

func TestEntitiesResolvesAllEntities(t *testing.T) {
	resolved := TableMapping{EntityOrders: "sales_orders"}.Entities()
	if len(resolved) != len(entityOrder) {
		t.Fatalf("len = %d, want %d", len(resolved), len(entityOrder))
	}
	if resolved[EntityOrders] != "sales_orders" {
		t.Fatalf("orders = %q", resolved[EntityOrders])
	}
	if resolved[EntityProducts] != "Products" {
		t.Fatalf("products = %q", resolved[EntityProducts])
	}
}

func TestQuoteIdent(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Products", `"Products"`},
		{"Order Details", `"Order Details"`},
		{`we"ird`, `"we""ird"`},
	}
	for _, tt := range tests {
		if got := QuoteIdent(tt.input); got != tt.want {
			t.Fatalf("QuoteIdent(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestListTablesQueriesInformationSchema(t *testing.T) {
	wh, mock := newMockWarehouse(t)

	rows := sqlmock.NewRows([]string{"table_name"}).
		AddRow("Categories").
		AddRow("Products")
	mock.ExpectQuery("SELECT table_name FROM information_schema.tables").
		WithArgs("main").
		WillReturnRows(rows)

	tables, err := wh.ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables() error = %v", err)
	}
	if !reflect.DeepEqual(tables, []string{"Categories", "Products"}) {
		t.Fatalf("tables = %v", tables)
	}
}

func TestDescribeTableParsesNullable(t *testing.T) {
	wh, mock := newMockWarehouse(t)

	rows := sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable"}).
		AddRow("ProductID", "INTEGER", "NO").
		AddRow("ProductName", "VARCHAR", "YES")
	mock.ExpectQuery("SELECT column_name, data_type, is_nullable FROM information_schema.columns").
		WithArgs("main", "Products").
		WillReturnRows(rows)

	columns, err := wh.DescribeTable(context.Background(), "Products")
	if err != nil {
		t.Fatalf("DescribeTable() error = %v", err)
	}
	if len(columns) != 2 {
		t.Fatalf("len = %d", len(columns))
	}
	if columns[0].Nullable {
		t.Fatal("ProductID should not be nullable")
	}
	if !columns[1].Nullable {
		t.Fatal("ProductName should be nullable")
	}
}

func TestBuildSchemaSummaryFormat(t *testing.T) {
	wh, mock := newMockWarehouse(t)

	mock.ExpectQuery("SELECT table_name FROM information_schema.tables").
		WithArgs("main").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("Products"))
	mock.ExpectQuery("SELECT column_name, data_type, is_nullable FROM information_schema.columns").
		WithArgs("main", "Products").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable"}).
			AddRow("ProductID", "INTEGER", "NO").
			AddRow("ProductName", "VARCHAR", "YES"))

	summary, err := wh.BuildSchemaSummary(context.Background())
	if err != nil {
		t.Fatalf("BuildSchemaSummary() error = %v", err)
	}
	want := "Table: Products\nColumns: ProductID (INTEGER), ProductName (VARCHAR)"
	if summary != want {
		t.Fatalf("summary = %q, want %q", summary, want)
	}
}
