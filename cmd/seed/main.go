// cmd/seed/main.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/edesaventas/storefront-api/internal/auth"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) *sql.DB {
	return c.Context.Value(dbKey).(*sql.DB)
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed the database with development data",
		Flags: []cli.Flag{
			newDBURLFlag(),
		},
		Commands: []*cli.Command{
			{
				Name:   "catalog",
				Usage:  "Seed suppliers and a demo product catalog",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: seedCatalog,
			},
			{
				Name:  "orders",
				Usage: "Seed three months of sales history for the demo catalog",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{
						Name:  "orders",
						Usage: "Number of orders to generate",
						Value: 200,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedOrders,
			},
			{
				Name:  "admin",
				Usage: "Create an admin user",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Admin email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Usage:    "Admin password",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name",
						Value: "Administrator",
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedAdmin,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type seedProduct struct {
	sku       string
	name      string
	brand     string
	stock     int
	costPrice sql.NullFloat64
	price     float64
	leadTime  int
}

func seedCatalog(c *cli.Context) error {
	db := dbFrom(c)

	suppliers := []struct{ name, contact, email, phone string }{
		{"Ferretería Andina", "Marta Sosa", "ventas@ferreteria-andina.ec", "+593 2 255 0141"},
		{"Distribuidora Pacífico", "Jorge Paredes", "pedidos@dpacifico.ec", "+593 4 230 8876"},
	}
	for _, s := range suppliers {
		_, err := db.ExecContext(c.Context, `
			INSERT INTO suppliers (id, name, contact, email, phone)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (name) DO NOTHING`,
			uuid.NewString(), s.name, s.contact, s.email, s.phone)
		if err != nil {
			return fmt.Errorf("failed to seed supplier %s: %w", s.name, err)
		}
	}

	products := []seedProduct{
		{"TAL-0001", "Taladro percutor 650W", "Einhell", 4, nf(52.40), 89.99, 10},
		{"TAL-0002", "Juego de brocas HSS 19pz", "Bosch", 0, nf(8.10), 15.50, 7},
		{"PIN-0001", "Pintura látex blanca 4L", "Cóndor", 25, nf(11.75), 21.90, 5},
		{"PIN-0002", "Rodillo antigota 9\"", "Wilson", 8, sql.NullFloat64{}, 6.25, 5},
		{"ELE-0001", "Cable THHN 12 AWG x100m", "Electrocables", 12, nf(38.00), 64.00, 14},
		{"ELE-0002", "Breaker riel DIN 20A", "Schneider", 2, nf(4.90), 9.80, 14},
		{"PLO-0001", "Tubo PVC presión 1/2\" x6m", "Plastigama", 40, nf(3.15), 5.60, 7},
		{"PLO-0002", "Llave de paso bronce 1/2\"", "FV", 6, sql.NullFloat64{}, 8.40, 7},
	}
	for _, p := range products {
		_, err := db.ExecContext(c.Context, `
			INSERT INTO products (id, sku, name, brand_name, stock, cost_price, price, is_active, lead_time_days)
			VALUES ($1, $2, $3, $4, $5, $6, $7, true, $8)
			ON CONFLICT (sku) DO NOTHING`,
			uuid.NewString(), p.sku, p.name, p.brand, p.stock, p.costPrice, p.price, p.leadTime)
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.sku, err)
		}
	}

	log.Printf("seeded %d suppliers, %d products", len(suppliers), len(products))
	return nil
}

func nf(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

func seedOrders(c *cli.Context) error {
	db := dbFrom(c)
	count := c.Int("orders")

	rows, err := db.QueryContext(c.Context, `SELECT id, price FROM products WHERE is_active`)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	defer rows.Close()

	type productRef struct {
		id    string
		price float64
	}
	var products []productRef
	for rows.Next() {
		var p productRef
		if err := rows.Scan(&p.id, &p.price); err != nil {
			return err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(products) == 0 {
		return fmt.Errorf("no products to order; run the catalog command first")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()

	for i := 0; i < count; i++ {
		orderID := uuid.NewString()
		createdAt := now.AddDate(0, 0, -rng.Intn(95))
		status := "completed"
		// A slice of cancelled orders keeps the estimator's exclusion honest.
		if rng.Intn(10) == 0 {
			status = "cancelled"
		}

		if _, err := db.ExecContext(c.Context, `
			INSERT INTO orders (id, status, created_at) VALUES ($1, $2, $3)`,
			orderID, status, createdAt); err != nil {
			return fmt.Errorf("failed to seed order: %w", err)
		}

		lines := 1 + rng.Intn(3)
		for j := 0; j < lines; j++ {
			p := products[rng.Intn(len(products))]
			qty := 1 + rng.Intn(5)
			if _, err := db.ExecContext(c.Context, `
				INSERT INTO order_items (id, order_id, product_id, quantity, unit_price)
				VALUES ($1, $2, $3, $4, $5)`,
				uuid.NewString(), orderID, p.id, qty, p.price); err != nil {
				return fmt.Errorf("failed to seed order item: %w", err)
			}
		}
	}

	log.Printf("seeded %d orders", count)
	return nil
}

func seedAdmin(c *cli.Context) error {
	db := dbFrom(c)

	hash, err := auth.HashPassword(c.String("password"))
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = db.ExecContext(c.Context, `
		INSERT INTO users (id, email, name, password, role)
		VALUES ($1, $2, $3, $4, 'admin')
		ON CONFLICT (email) DO UPDATE SET password = EXCLUDED.password`,
		uuid.NewString(), c.String("email"), c.String("name"), hash)
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Printf("admin user %s ready", c.String("email"))
	return nil
}
