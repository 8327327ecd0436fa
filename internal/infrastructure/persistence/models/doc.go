// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
//   - base.go: shared columns (BaseModel, AggregateModel)
//   - catalog.go: products
//   - sales.go: orders and line items
//
// The tables declared here are the AutoMigrate schema used with SQLite. The
// PostgreSQL schema is owned by the SQL files under migrations/ and must stay
// equivalent.
package models
