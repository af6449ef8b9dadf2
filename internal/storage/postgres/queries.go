package postgres

// Table loads are full scans by design: the analytical core operates on a
// complete in-memory snapshot, not on pushed-down predicates.
const (
	queryLoadCustomers = `
		SELECT customer_id, name, region, customer_type
		FROM customers
		ORDER BY customer_id
	`

	queryLoadOrders = `
		SELECT order_id, customer_id, product_id, quantity, order_date
		FROM orders
		ORDER BY order_id
	`

	queryLoadEvents = `
		SELECT order_id, stage, start_time, end_time
		FROM order_events
		ORDER BY order_id, start_time
	`

	queryLoadProducts = `
		SELECT product_id, name, category, price
		FROM products
		ORDER BY product_id
	`
)
