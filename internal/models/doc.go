// Package models defines the core domain models for tabsplit.
//
// # Ledger
//
// A Ledger is the only input to a compute pass. It holds:
//   - Participant: a person at the table, with their own tip and cash
//   - Item: a receipt line split equally among its owners
//   - Charge: a receipt-level tax, fee or discount
//   - Expense: a transaction already paid by one participant, with its own
//     split and surcharges
//
// Ledgers are frozen. Hosts edit a Draft through explicit commands and take
// a Snapshot whenever they want a result, so the calculator never observes
// a structure that is being mutated.
//
// # Identity
//
// Participants are referenced by stable string IDs. Owner and participant
// lists are sets: duplicates are dropped and order never affects a result.
//
// # Errors
//
// Structural problems found while building a Ledger, and blocking problems
// found at compute time, are reported as *ValidationError. Non-blocking
// findings are Warnings attached to a successful result.
package models
