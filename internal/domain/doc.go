// Package domain models Philippine geophysical activity: earthquake and
// volcanic event records normalized from heterogeneous upstream catalogs.
//
// # Data Sources
//
// Earthquake records come from two catalogs with different shapes:
//
//   - The PHIVOLCS regional catalog, reached through an external scraper
//     script. Rows carry a local-time datetime string in one of several
//     legacy layouts, decimal coordinates, an optional magnitude (Ms) and
//     depth in kilometers, and a free-text location.
//   - A remote FDSN event service queried per calendar year with a bounding
//     box. Features carry epoch-millisecond times, [lon, lat, depth]
//     coordinates, and an optional magnitude.
//
// Volcanic activity comes from a global natural-event feed. One upstream
// event holds a list of dated geometry observations; each observation
// becomes its own Event record keyed by the upstream event ID plus the
// observation date, so repeated fetches of the same upstream event produce
// the same record set.
//
// # Timestamp validation
//
// A record whose timestamp does not parse to a real instant is dropped,
// never defaulted. This is a per-record filter: one bad row must not
// invalidate the rest of its batch. [ParseEventTime] accepts ISO 8601 plus
// the day-first and month-first layouts the regional catalog has been
// observed to emit.
//
// # Region of interest
//
// [PhilippineBBox] bounds the archipelago at latitude 4.5–21.5 and
// longitude 116–127, inclusive on all edges. Sources that are already
// region-scoped at the query level are not re-filtered; the global volcanic
// feed is.
package domain
