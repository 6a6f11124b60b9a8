// Package goldesk runs the books of a retail precious-metals desk.
//
// The desk records four append-only logs and derives everything else by
// replaying them:
//   - Quotes: buy and sell prices published by a market source. The
//     PriceBook resolves the latest price of a product through its aliases,
//     and PricingRules turn it into a suggested price with the product's
//     margin rule.
//   - Transactions: purchases, sales, opening stock and adjustments. The
//     Inventory folds them into quantities on hand, weighted-average costs
//     and realized profit, and DailyProfitSeries groups them per day.
//   - Payment legs: cash, bank transfer or card payments. Card legs settle on
//     their bank after a delay, net of a fee frozen at booking.
//   - Transfers: cash moved between the drawer and a bank.
//
// A Desk binds a validated Config to a Ledger and a Store. It checks every
// record against the catalog and the banks before persisting it, and answers
// the queries of the gds command-line tool.
package goldesk
