package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/orderlens-lab/orderlens/internal/core/dataset"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// FileSystemRepository reads the four tables from YAML files in a
// directory: customers.yaml, orders.yaml, events.yaml, products.yaml.
// Each file holds a list of rows; timestamps are RFC 3339. All four files
// are required.
type FileSystemRepository struct {
	rootDir string
}

// NewFileSystemRepository creates a file-backed dataset repository.
func NewFileSystemRepository(rootDir string) *FileSystemRepository {
	return &FileSystemRepository{rootDir: rootDir}
}

// rawProduct is the on-disk product shape. Price stays a string here
// because yaml.v3 has no decoder hook for decimal.Decimal; conversion
// happens explicitly below.
type rawProduct struct {
	ProductID string `yaml:"product_id"`
	Name      string `yaml:"name"`
	Category  string `yaml:"category"`
	Price     string `yaml:"price"`
}

// LoadTables reads and types all four tables, returning them as one
// snapshot.
func (r *FileSystemRepository) LoadTables(_ context.Context) (*dataset.Tables, error) {
	var customers []dataset.Customer
	if err := r.readTable("customers.yaml", &customers); err != nil {
		return nil, err
	}

	var orders []dataset.Order
	if err := r.readTable("orders.yaml", &orders); err != nil {
		return nil, err
	}

	var events []dataset.StageEvent
	if err := r.readTable("events.yaml", &events); err != nil {
		return nil, err
	}

	var raw []rawProduct
	if err := r.readTable("products.yaml", &raw); err != nil {
		return nil, err
	}
	products := make([]dataset.Product, 0, len(raw))
	for _, p := range raw {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, fmt.Errorf("product %q: invalid price %q: %w", p.ProductID, p.Price, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("product %q: price must not be negative, got %s", p.ProductID, price)
		}
		products = append(products, dataset.Product{
			ProductID: p.ProductID,
			Name:      p.Name,
			Category:  p.Category,
			Price:     price,
		})
	}

	tables := dataset.NewTables(customers, orders, events, products)
	slog.Info("[Filesystem] Dataset snapshot loaded",
		"snapshot_id", tables.SnapshotID,
		"customers", len(customers),
		"orders", len(orders),
		"events", len(events),
		"products", len(products),
	)
	return tables, nil
}

func (r *FileSystemRepository) readTable(name string, out interface{}) error {
	path := filepath.Join(r.rootDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading dataset table %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing dataset table %s: %w", path, err)
	}
	return nil
}
