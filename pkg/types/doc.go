// Package types defines the Project entity, the ordered Meta map, and the
// standard errors shared by the offbook storage engine and its callers.
package types
