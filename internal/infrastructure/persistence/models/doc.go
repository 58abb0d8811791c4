// Package models holds GORM models for the APCMS tables. The API itself
// works on schema-driven maps; these structs document the physical layout,
// including the natural-key unique indexes the upsert engine relies on, and
// let tests and local environments create the tables with AutoMigrate.
package models
