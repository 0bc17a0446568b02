package api

// Key is a point in a table's keyspace. Keys are opaque byte sequences
// ordered lexicographically, which for the fixed-width keys emitted by
// the split planner is the same as big-endian integer order.
type Key string

// Special case representing both ends of the keyspace. Don't compare
// anything against this! Always check for it explicitly.
const ZeroKey Key = ""
