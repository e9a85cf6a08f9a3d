// package shopping derives shopping lists from meal plans.
//
// The core abstraction is Aggregator, which collects the ingredients of every recipe scheduled
// inside a date window and merges duplicates by normalized name and unit, summing their quantities.
// Aggregation is read-only and keeps no state between calls.
package shopping
