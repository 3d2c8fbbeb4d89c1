package main

import (
	"fmt"
	"os"

	"github.com/lerda8/data-retrieving-training/internal/schema"
)

// cmdIndustries lists the catalog. It needs no credentials, so it loads
// the catalog directly instead of building the full app.
func cmdIndustries() error {
	catalog := schema.BuiltIn()
	if path := os.Getenv("SCHEMAS_PATH"); path != "" {
		loaded, err := schema.NewLoader(path).LoadCatalog()
		if err != nil {
			return err
		}
		catalog = loaded
	}

	fmt.Println("Available industries:")
	for _, name := range catalog.Industries() {
		d, err := catalog.Describe(name)
		if err != nil {
			return err
		}
		fmt.Printf("  %-12s %s (%d tables)\n", d.Industry, d.Description, len(d.Tables))
		if d.SchemaURL != "" {
			fmt.Printf("  %-12s diagram: %s\n", "", d.SchemaURL)
		}
	}
	return nil
}
