// Package models defines the core domain models for the cashier register.
//
// # Catalog Models
//
// Owned by the external catalog service and read-only from the register's
// point of view:
//   - Product: a sellable item with price, category and barcode
//   - Category: a flat grouping used to partition the catalog view
//
// # Register Models
//
// Live in memory for the duration of one sale:
//   - CartLine: one row of the cart, one per distinct product
//   - OrderRequest / OrderConfirmation: the checkout exchange with the order service
//
// # Journal Models
//
// Persisted locally by the register:
//   - Receipt: a confirmed sale, kept for reprints and the orders history
//   - User: a register operator (cashier or admin)
//
// # Design Principles
//
// 1. **Snapshots, not references**: cart lines copy name and price at add time
// 2. **Derived values are computed**: subtotals and totals are never stored on a live cart
// 3. **Exact money**: prices use decimal.Decimal, never float64
// 4. **Explicit sessions**: the operator's identity travels as a Session value
package models
