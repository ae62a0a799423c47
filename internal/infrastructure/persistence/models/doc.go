// Package models holds the gorm rows behind the farm, compliance,
// notification and traceability aggregates. Domain types carry no gorm tags;
// each model has ToDomain and a FromDomain mapper, and repositories only ever
// read and write these rows.
//
// Files:
//   - base.go: BaseModel and AggregateModel with the optimistic-lock version
//   - farm.go: crop schedules and farmer crop listings
//   - compliance.go: land-inspector compliance records
//   - notification.go: the notification inbox
//   - traceability.go: batches, the lot ledger and the per-stage child rows
//     (payments, deliveries, packaging, registrations, listings, proposals,
//     shipments, inspections, fees, releases, stage history)
//
// The unique index on lot_transactions.batch_code is what makes a lot claim
// exclusive; AutoMigrate builds it from the tag and the SQL migrations declare
// it explicitly.
package models
