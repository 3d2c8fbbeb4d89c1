package schema

// BuiltIn returns the catalog of industries that ships with the trainer.
// A YAML catalog directory can replace it entirely (see Loader).
func BuiltIn() *Catalog {
	c, err := NewCatalog(builtinDescriptors()...)
	if err != nil {
		// The built-in descriptors are fixed at compile time; failing
		// validation here is a programming error.
		panic(err)
	}
	return c
}

func builtinDescriptors() []*Descriptor {
	return []*Descriptor{
		{
			Industry:    "logistics",
			Description: "warehousing and freight operations",
			SchemaURL:   "https://dbdiagram.io/d/sql-trainer-logistics",
			Tables: []Table{
				{Name: "warehouses", Columns: []string{"id", "name", "region", "capacity"}},
				{Name: "carriers", Columns: []string{"id", "name", "fleet_size"}},
				{Name: "shipments", Columns: []string{"id", "warehouse_id", "carrier_id", "weight_kg", "shipped_at", "delivered_at"}},
				{Name: "shipment_items", Columns: []string{"id", "shipment_id", "sku", "quantity", "unit_value"}},
			},
			Relationships: []string{
				"shipments.warehouse_id -> warehouses.id",
				"shipments.carrier_id -> carriers.id",
				"shipment_items.shipment_id -> shipments.id",
			},
		},
		{
			Industry:    "healthcare",
			Description: "clinics, patients and appointments",
			SchemaURL:   "https://dbdiagram.io/d/sql-trainer-healthcare",
			Tables: []Table{
				{Name: "patients", Columns: []string{"id", "name", "birth_date", "insurance_id"}},
				{Name: "physicians", Columns: []string{"id", "name", "specialty"}},
				{Name: "appointments", Columns: []string{"id", "patient_id", "physician_id", "scheduled_at", "status"}},
				{Name: "prescriptions", Columns: []string{"id", "appointment_id", "medication", "dosage_mg"}},
			},
			Relationships: []string{
				"appointments.patient_id -> patients.id",
				"appointments.physician_id -> physicians.id",
				"prescriptions.appointment_id -> appointments.id",
			},
		},
		{
			Industry:    "retail",
			Description: "stores, products and orders",
			SchemaURL:   "https://dbdiagram.io/d/sql-trainer-retail",
			Tables: []Table{
				{Name: "stores", Columns: []string{"id", "name", "city"}},
				{Name: "products", Columns: []string{"id", "name", "category", "price"}},
				{Name: "customers", Columns: []string{"id", "name", "email", "joined_at"}},
				{Name: "orders", Columns: []string{"id", "store_id", "customer_id", "ordered_at", "total"}},
				{Name: "order_lines", Columns: []string{"id", "order_id", "product_id", "quantity"}},
			},
			Relationships: []string{
				"orders.store_id -> stores.id",
				"orders.customer_id -> customers.id",
				"order_lines.order_id -> orders.id",
				"order_lines.product_id -> products.id",
			},
		},
		{
			Industry:    "finance",
			Description: "accounts, transactions and branches",
			SchemaURL:   "https://dbdiagram.io/d/sql-trainer-finance",
			Tables: []Table{
				{Name: "branches", Columns: []string{"id", "name", "city"}},
				{Name: "accounts", Columns: []string{"id", "branch_id", "holder_name", "balance", "opened_at"}},
				{Name: "transactions", Columns: []string{"id", "account_id", "amount", "kind", "executed_at"}},
				{Name: "loans", Columns: []string{"id", "account_id", "principal", "interest_rate", "issued_at"}},
			},
			Relationships: []string{
				"accounts.branch_id -> branches.id",
				"transactions.account_id -> accounts.id",
				"loans.account_id -> accounts.id",
			},
		},
		{
			Industry:    "technology",
			Description: "SaaS subscriptions and usage",
			SchemaURL:   "https://dbdiagram.io/d/sql-trainer-technology",
			Tables: []Table{
				{Name: "plans", Columns: []string{"id", "name", "monthly_price"}},
				{Name: "organizations", Columns: []string{"id", "name", "plan_id", "created_at"}},
				{Name: "users", Columns: []string{"id", "organization_id", "email", "role"}},
				{Name: "usage_events", Columns: []string{"id", "user_id", "feature", "occurred_at"}},
			},
			Relationships: []string{
				"organizations.plan_id -> plans.id",
				"users.organization_id -> organizations.id",
				"usage_events.user_id -> users.id",
			},
		},
	}
}
