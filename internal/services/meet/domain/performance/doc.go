// Package performance converts the free-text performance field of a
// competitor into a typed value.
//
// Times use the fixed eight digit layout HH MM SS CC, written with colon
// separators ("00:01:23:45"). The last field carries two digits but is added
// to the total as milliseconds, so "45" decodes to 45ms, and EncodeTime prints
// the raw millisecond remainder. Both behaviours are kept as-is: rankings
// depend on the exact decoded value.
//
// The reserved tokens DNF and DIS (any case) are never decoded numerically.
package performance
