// Package models defines the core domain models for finchat.
//
// # Aggregate
//
// Everything is owned by a User:
//   - Transaction: append-only ledger entries (negative amount = expense)
//   - Goal: savings targets with optional deadlines
//   - Budget: monthly category limits, one per (user, category, month)
//   - Investment: current holdings used by the portfolio analysis
//   - RecurringTransaction: editable templates that generate transactions
//   - ChatMessage and Suggestion: conversation history and proposed actions
//
// There is no cross-user sharing. Relationships use ID strings instead of
// pointers, so models can be stored and passed around independently.
//
// # Workflow stage
//
// Stage is a progress label (Started, MVP, Intermediate, Advanced). It is
// shown to the user and never gates functionality.
package models
